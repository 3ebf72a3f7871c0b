package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

// profileView 把日期字段格式化为 YYYY-MM-DD 后返回给客户端
type profileView struct {
	PNo           string   `json:"p_no"`
	Name          *string  `json:"name"`
	Alias         *string  `json:"alias"`
	DOB           *string  `json:"dob"`
	Gender        *string  `json:"gender"`
	Email         *string  `json:"email"`
	Email2        *string  `json:"email2"`
	Number        *string  `json:"number"`
	Number2       *string  `json:"number2"`
	Base          *string  `json:"base"`
	MaritalStatus *string  `json:"marital_status"`
	Employment    *string  `json:"employment"`
	Seniority     *string  `json:"seniority"`
	Height        *float64 `json:"height"`
	Weight        *float64 `json:"weight"`
	EyeColor      *string  `json:"eye_color"`
	HairColor     *string  `json:"hair_color"`
	Image         *string  `json:"image"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func newProfileView(p *domain.Profile) profileView {
	return profileView{
		PNo:           p.PNo,
		Name:          p.Name,
		Alias:         p.Alias,
		DOB:           formatDate(p.DOB),
		Gender:        p.Gender,
		Email:         p.Email,
		Email2:        p.Email2,
		Number:        p.Number,
		Number2:       p.Number2,
		Base:          p.Base,
		MaritalStatus: p.MaritalStatus,
		Employment:    formatDate(p.Employment),
		Seniority:     p.Seniority,
		Height:        p.Height,
		Weight:        p.Weight,
		EyeColor:      p.EyeColor,
		HairColor:     p.HairColor,
		Image:         p.Image,
	}
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	crewID := r.Context().Value(CrewIDCtx).(string)

	profile, err := h.repository.GetProfile(r.Context(), crewID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, http.StatusNotFound, "Profile not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, http.StatusOK, "Profile retrieved successfully", envelope{
		"profile": newProfileView(profile),
	})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	// 未出现在请求体中的字段保持为 nil，不会覆盖原值
	var req struct {
		Name          *string  `json:"name" validate:"omitempty,max=255"`
		Alias         *string  `json:"alias" validate:"omitempty,max=255"`
		DOB           *string  `json:"dob" validate:"omitempty,datetime=2006-01-02"`
		Gender        *string  `json:"gender" validate:"omitempty,max=32"`
		Email         *string  `json:"email" validate:"omitempty,email"`
		Email2        *string  `json:"email2" validate:"omitempty,email"`
		Number        *string  `json:"number" validate:"omitempty,max=32"`
		Number2       *string  `json:"number2" validate:"omitempty,max=32"`
		Base          *string  `json:"base" validate:"omitempty,max=64"`
		MaritalStatus *string  `json:"marital_status" validate:"omitempty,max=32"`
		Employment    *string  `json:"employment" validate:"omitempty,datetime=2006-01-02"`
		Seniority     *string  `json:"seniority" validate:"omitempty,max=64"`
		Height        *float64 `json:"height" validate:"omitempty,gt=0"`
		Weight        *float64 `json:"weight" validate:"omitempty,gt=0"`
		EyeColor      *string  `json:"eye_color" validate:"omitempty,max=32"`
		HairColor     *string  `json:"hair_color" validate:"omitempty,max=32"`
		Image         *string  `json:"image" validate:"omitempty,max=1024"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 格式已经校验过，这里不会出错
	dob, _ := parseDate(req.DOB)
	employment, _ := parseDate(req.Employment)

	patch := domain.ProfilePatch{
		Name:          req.Name,
		Alias:         req.Alias,
		DOB:           dob,
		Gender:        req.Gender,
		Email:         req.Email,
		Email2:        req.Email2,
		Number:        req.Number,
		Number2:       req.Number2,
		Base:          req.Base,
		MaritalStatus: req.MaritalStatus,
		Employment:    employment,
		Seniority:     req.Seniority,
		Height:        req.Height,
		Weight:        req.Weight,
		EyeColor:      req.EyeColor,
		HairColor:     req.HairColor,
		Image:         req.Image,
	}

	crewID := r.Context().Value(CrewIDCtx).(string)

	profile, err := h.repository.UpdateProfile(r.Context(), crewID, patch)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, http.StatusNotFound, "Profile not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, http.StatusOK, "Profile updated successfully", envelope{
		"profile": newProfileView(profile),
	})
}
