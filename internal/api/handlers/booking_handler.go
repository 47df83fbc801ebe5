package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ombati/slot-scheduler/internal/application/services"
	"github.com/ombati/slot-scheduler/internal/domain/entities"
)

// BookingService defines the interface for booking mutations
type BookingService interface {
	BookSlot(ctx context.Context, in services.BookSlotInput) (*entities.Booking, error)
	CancelBooking(ctx context.Context, id int64) (bool, error)
	GetBooking(ctx context.Context, id int64) (*entities.Booking, error)
}

// BookingHandler handles booking requests
type BookingHandler struct {
	service BookingService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service BookingService) *BookingHandler {
	return &BookingHandler{
		service: service,
	}
}

// BookSlot handles POST /api/bookings
func (h *BookingHandler) BookSlot(w http.ResponseWriter, r *http.Request) {
	var in services.BookSlotInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	booking, err := h.service.BookSlot(r.Context(), in)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, booking)
}

// GetBooking handles GET /api/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBookingID(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, booking)
}

// CancelBooking handles DELETE /api/bookings/{id}. Cancelling an unknown id
// is not an error; the response reports whether anything was removed.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBookingID(w, r)
	if !ok {
		return
	}

	existed, err := h.service.CancelBooking(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"booking_id": id,
		"cancelled":  existed,
	})
}

func parseBookingID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "booking id must be a positive integer")
		return 0, false
	}
	return id, true
}
