package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// crewAuth 校验请求者是否为路径中的 {cid}，路径中没有时取 cid 查询参数。
// 带有 secret 查询参数时按临时密钥校验，否则要求 Authorization: Bearer <token>。
func (h *Handler) crewAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := chi.URLParam(r, "cid")
		if cid == "" {
			cid = r.URL.Query().Get("cid")
		}
		if cid == "" {
			h.unauthenticated(w, r)
			return
		}

		var mode string
		query := r.URL.Query()
		switch {
		case query.Has("secret"):
			if err := h.verifier.VerifySecret(r.Context(), cid, query.Get("secret")); err != nil {
				switch {
				case errors.Is(err, domain.ErrUnauthenticated):
					h.unauthenticated(w, r)
				default:
					h.internalServerError(w, r, err)
				}
				return
			}
			mode = AuthModeSecret
		default:
			token, ok := bearerToken(r)
			if !ok {
				h.unauthenticated(w, r)
				return
			}
			sub, err := h.tokens.Subject(token)
			if err != nil || sub != cid {
				h.unauthenticated(w, r)
				return
			}
			mode = AuthModeToken
		}

		ctx := context.WithValue(r.Context(), CrewIDCtx, cid)
		ctx = context.WithValue(ctx, AuthModeCtx, mode)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
