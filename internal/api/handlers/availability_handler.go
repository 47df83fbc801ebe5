package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	apperrors "github.com/ombati/slot-scheduler/pkg/errors"
)

// AvailabilityService defines the interface for availability queries
type AvailabilityService interface {
	IsSlotAvailable(ctx context.Context, date, clock string, durationMinutes int) (bool, error)
	SlotsAvailableOnDay(ctx context.Context, date string, durationMinutes int) ([]string, error)
	NextAvailableSlot(ctx context.Context, afterDate, afterTime string, durationMinutes, horizonDays int) (string, string, error)
}

// AvailabilityHandler handles availability requests
type AvailabilityHandler struct {
	service AvailabilityService
}

// NewAvailabilityHandler creates a new availability handler
func NewAvailabilityHandler(service AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
	}
}

// CheckSlot handles GET /api/availability/check
func (h *AvailabilityHandler) CheckSlot(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	clock := r.URL.Query().Get("time")
	duration, ok := parseDurationParam(w, r)
	if !ok {
		return
	}

	available, err := h.service.IsSlotAvailable(r.Context(), date, clock, duration)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"date":             date,
		"time":             clock,
		"duration_minutes": duration,
		"available":        available,
	})
}

// DaySlots handles GET /api/availability/day
func (h *AvailabilityHandler) DaySlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	duration, ok := parseDurationParam(w, r)
	if !ok {
		return
	}

	slots, err := h.service.SlotsAvailableOnDay(r.Context(), date, duration)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"date":             date,
		"duration_minutes": duration,
		"slots":            slots,
	})
}

// NextSlot handles GET /api/availability/next
func (h *AvailabilityHandler) NextSlot(w http.ResponseWriter, r *http.Request) {
	afterDate := r.URL.Query().Get("after_date")
	afterTime := r.URL.Query().Get("after_time")
	duration, ok := parseDurationParam(w, r)
	if !ok {
		return
	}

	horizonDays := 0
	if raw := r.URL.Query().Get("horizon_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "horizon_days must be a positive integer")
			return
		}
		horizonDays = parsed
	}

	date, clock, err := h.service.NextAvailableSlot(r.Context(), afterDate, afterTime, duration, horizonDays)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"date":             date,
		"time":             clock,
		"duration_minutes": duration,
	})
}

func parseDurationParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("duration")
	if raw == "" {
		respondWithError(w, http.StatusBadRequest, "duration query parameter is required")
		return 0, false
	}
	duration, err := strconv.Atoi(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "duration must be an integer number of minutes")
		return 0, false
	}
	return duration, true
}

// Helper functions

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
