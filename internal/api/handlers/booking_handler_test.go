package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ombati/slot-scheduler/internal/api/handlers"
	"github.com/ombati/slot-scheduler/internal/application/services"
	"github.com/ombati/slot-scheduler/internal/domain/entities"
	apperrors "github.com/ombati/slot-scheduler/pkg/errors"
)

func TestBookSlot_Created(t *testing.T) {
	mockService := new(MockBookingService)
	handler := handlers.NewBookingHandler(mockService)

	booked := &entities.Booking{
		ID:              1,
		Date:            "2025-06-01",
		StartTime:       "10:00",
		EndTime:         "10:30",
		DurationMinutes: 30,
		ClientID:        "client123",
		ServiceName:     "Consultation",
		CreatedAt:       time.Now().UTC(),
	}
	mockService.On("BookSlot", mock.Anything, services.BookSlotInput{
		Date:            "2025-06-01",
		StartTime:       "10:00",
		DurationMinutes: 30,
		ClientID:        "client123",
		ServiceName:     "Consultation",
	}).Return(booked, nil)

	payload := `{"date":"2025-06-01","start_time":"10:00","duration_minutes":30,"client_id":"client123","service_name":"Consultation"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.BookSlot(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["booking_id"])
	assert.Equal(t, "10:30", body["end_time"])
	mockService.AssertExpectations(t)
}

func TestBookSlot_MalformedJSON(t *testing.T) {
	mockService := new(MockBookingService)
	handler := handlers.NewBookingHandler(mockService)

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	handler.BookSlot(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "BookSlot")
}

func TestBookSlot_ConflictMapsTo409(t *testing.T) {
	mockService := new(MockBookingService)
	handler := handlers.NewBookingHandler(mockService)

	mockService.On("BookSlot", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewConflictError("slot is no longer available"))

	payload := `{"date":"2025-06-01","start_time":"10:00","duration_minutes":30,"client_id":"client123","service_name":"Consultation"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.BookSlot(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "no longer available")
}

func TestGetBooking(t *testing.T) {
	mockService := new(MockBookingService)
	handler := handlers.NewBookingHandler(mockService)

	mockService.On("GetBooking", mock.Anything, int64(42)).
		Return(&entities.Booking{ID: 42, Date: "2025-06-01", StartTime: "10:00"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/42", nil)
	req.SetPathValue("id", "42")
	rec := httptest.NewRecorder()
	handler.GetBooking(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(42), body["booking_id"])
}

func TestGetBooking_NotFound(t *testing.T) {
	mockService := new(MockBookingService)
	handler := handlers.NewBookingHandler(mockService)

	mockService.On("GetBooking", mock.Anything, int64(9999)).
		Return(nil, apperrors.NewNotFoundError("booking 9999 not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/9999", nil)
	req.SetPathValue("id", "9999")
	rec := httptest.NewRecorder()
	handler.GetBooking(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetBooking_MalformedID(t *testing.T) {
	mockService := new(MockBookingService)
	handler := handlers.NewBookingHandler(mockService)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	handler.GetBooking(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "GetBooking")
}

func TestCancelBooking_Existing(t *testing.T) {
	mockService := new(MockBookingService)
	handler := handlers.NewBookingHandler(mockService)

	mockService.On("CancelBooking", mock.Anything, int64(7)).Return(true, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/7", nil)
	req.SetPathValue("id", "7")
	rec := httptest.NewRecorder()
	handler.CancelBooking(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(7), body["booking_id"])
	assert.Equal(t, true, body["cancelled"])
}

func TestCancelBooking_Unknown(t *testing.T) {
	mockService := new(MockBookingService)
	handler := handlers.NewBookingHandler(mockService)

	mockService.On("CancelBooking", mock.Anything, int64(9999)).Return(false, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/9999", nil)
	req.SetPathValue("id", "9999")
	rec := httptest.NewRecorder()
	handler.CancelBooking(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["cancelled"])
}

func TestCancelBooking_NonPositiveID(t *testing.T) {
	mockService := new(MockBookingService)
	handler := handlers.NewBookingHandler(mockService)

	req := httptest.NewRequest(http.MethodDelete, "/api/bookings/0", nil)
	req.SetPathValue("id", "0")
	rec := httptest.NewRecorder()
	handler.CancelBooking(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "CancelBooking")
}
