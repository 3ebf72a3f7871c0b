package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/auth"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PNo      string `json:"p_no" validate:"omitempty,max=64"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 没有工号时用 uuid 作为用户标识
	if req.PNo == "" {
		req.PNo = uuid.NewString()
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	now := time.Now()
	user := &domain.User{
		ID:           req.PNo,
		Email:        req.Email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
	}

	if err := h.repository.CreateUser(r.Context(), user, domain.NewProfileStub(user.ID, user.Email, now)); err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			h.errorResponse(w, r, http.StatusBadRequest, "User with the identifier or email already exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 邮件只是通知，发送失败不影响注册结果
	if err := h.mailer.Publish(r.Context(), domain.MailMessage{
		Type: domain.MailTypeWelcome,
		To:   user.Email,
		Data: domain.WelcomeMailData{Identifier: user.ID},
	}); err != nil {
		slog.Error("发送欢迎邮件失败", "p_no", user.ID, "error", err)
	}

	h.successResponse(w, r, http.StatusCreated, "User created successfully", envelope{
		"p_no":  user.ID,
		"email": user.Email,
		"uid":   user.ID,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PNo      string `json:"p_no" validate:"required_without=Email"`
		Email    string `json:"email" validate:"omitempty,email"`
		Password string `json:"password" validate:"required"`
		UID      *int64 `json:"uid"` // 旧版客户端会带上，不参与校验
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	identity := req.PNo
	if identity == "" {
		identity = req.Email
	}

	user, err := h.verifier.VerifyPassword(r.Context(), identity, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUnknownIdentity):
			h.errorResponse(w, r, http.StatusBadRequest, "Invalid Username Or Password")
		case errors.Is(err, auth.ErrWrongPassword):
			h.errorResponse(w, r, http.StatusForbidden, "Invalid Username Or Password")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if !user.IsActive {
		h.errorResponse(w, r, http.StatusForbidden, "User is not active")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	secretKey, err := h.verifier.IssueSecret(r.Context(), user.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusCreated, "Login Successfully", envelope{
		"p_no":       user.ID,
		"email":      user.Email,
		"token":      token,
		"secret_key": secretKey,
	})
}

func (h *Handler) ForgetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email" validate:"required,email"`
		NewPassword string `json:"new_password" validate:"required,min=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user, err := h.repository.UpdatePassword(r.Context(), req.Email, passwordHash)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, http.StatusBadRequest, "User Not found with this email")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.mailer.Publish(r.Context(), domain.MailMessage{
		Type: domain.MailTypePasswordReset,
		To:   user.Email,
		Data: domain.PasswordResetMailData{Identifier: user.ID},
	}); err != nil {
		slog.Error("发送密码重置通知失败", "p_no", user.ID, "error", err)
	}

	h.successResponse(w, r, http.StatusCreated, "Password updated successfully", nil)
}
