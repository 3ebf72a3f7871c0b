package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("服务器内部错误", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

// envelope 是所有响应的外层结构，至少包含 status_code 和 detail
type envelope map[string]any

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, detail string) {
	h.writeJSON(w, r, status, envelope{
		"status_code": status,
		"detail":      detail,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.errorResponse(w, r, http.StatusBadRequest, validationErrors[0].Translate(h.translator))
}

func (h *Handler) unauthenticated(w http.ResponseWriter, r *http.Request) {
	h.errorResponse(w, r, http.StatusUnauthorized, "You are not authenticated")
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)

	resp := envelope{
		"status_code": http.StatusInternalServerError,
		"detail":      "Unexpected Error",
	}
	if h.config.Server.ExposeErrors {
		resp["error"] = err.Error()
	}

	h.writeJSON(w, r, http.StatusInternalServerError, resp)
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, status int, detail string, payload envelope) {
	resp := envelope{
		"status_code": status,
		"detail":      detail,
	}
	for k, v := range payload {
		resp[k] = v
	}

	h.writeJSON(w, r, status, resp)
}
