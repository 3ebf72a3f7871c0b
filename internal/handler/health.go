package handler

import (
	"net/http"
)

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.repository.Ping(r.Context()); err != nil {
		h.logInternalServerError(r, err)
		h.errorResponse(w, r, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	h.successResponse(w, r, http.StatusOK, "OK", nil)
}
