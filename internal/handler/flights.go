package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

// parseDateRange 要求 start_date 和 end_date 同时出现或同时缺省
func parseDateRange(r *http.Request) (*domain.DateRange, error) {
	query := r.URL.Query()
	startStr, endStr := query.Get("start_date"), query.Get("end_date")

	if startStr == "" && endStr == "" {
		return nil, nil
	}
	if startStr == "" || endStr == "" {
		return nil, errors.New("start_date and end_date must be provided together")
	}

	start, err := time.Parse(time.DateOnly, startStr)
	if err != nil {
		return nil, errors.New("start_date must be in YYYY-MM-DD format")
	}
	end, err := time.Parse(time.DateOnly, endStr)
	if err != nil {
		return nil, errors.New("end_date must be in YYYY-MM-DD format")
	}
	if start.After(end) {
		return nil, errors.New("start_date must not be after end_date")
	}

	return &domain.DateRange{Start: start, End: end}, nil
}

func (h *Handler) GetFlights(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseDateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	crewID := r.Context().Value(CrewIDCtx).(string)

	flights, err := h.repository.ListFlights(r.Context(), domain.FlightFilter{
		CrewID:    &crewID,
		DateRange: dateRange,
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "Flights retrieved successfully", envelope{
		"flights": flights,
	})
}

// GetAllFlights 返回所有机组成员的航班，只按日期过滤
func (h *Handler) GetAllFlights(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseDateRange(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	flights, err := h.repository.ListFlights(r.Context(), domain.FlightFilter{
		DateRange: dateRange,
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "Flights retrieved successfully", envelope{
		"flights": flights,
	})
}

func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	flightID, err := strconv.ParseInt(chi.URLParam(r, "fid"), 10, 64)
	if err != nil {
		h.badRequest(w, r, errors.New("fid must be an integer"))
		return
	}

	crewID := r.Context().Value(CrewIDCtx).(string)

	flight, err := h.repository.GetFlight(r.Context(), crewID, flightID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			h.errorResponse(w, r, http.StatusNotFound, "Flight not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, http.StatusOK, "Flight retrieved successfully", envelope{
		"flight": flight,
	})
}
