package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ombati/slot-scheduler/internal/domain/entities"
	"github.com/ombati/slot-scheduler/internal/domain/repositories"
	"github.com/ombati/slot-scheduler/internal/infrastructure/observability"
	apperrors "github.com/ombati/slot-scheduler/pkg/errors"
)

// BookingService is the only mutation path into the calendar. It enforces
// the no-overlap invariant at commit time.
type BookingService struct {
	repo         repositories.BookingRepository
	availability *AvailabilityService

	// Single-writer discipline: the check-then-insert sequence must not
	// interleave with another writer in this process.
	mu sync.Mutex
}

// NewBookingService creates a new booking service
func NewBookingService(repo repositories.BookingRepository, availability *AvailabilityService) *BookingService {
	return &BookingService{
		repo:         repo,
		availability: availability,
	}
}

// BookSlotInput carries the caller's booking request
type BookSlotInput struct {
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	ClientID        string `json:"client_id"`
	ServiceName     string `json:"service_name"`
}

// BookSlot validates the request, re-checks availability at the moment of
// commit inside one transaction, and persists the booking. A caller's
// earlier availability query is never trusted.
func (s *BookingService) BookSlot(ctx context.Context, in BookSlotInput) (*entities.Booking, error) {
	start, err := validateSlot(in.Date, in.StartTime, in.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if in.ClientID == "" {
		return nil, apperrors.NewValidationError("client_id is required")
	}
	if len(in.ClientID) > entities.MaxClientIDLen {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("client_id must be %d characters or less", entities.MaxClientIDLen))
	}
	if in.ServiceName == "" {
		return nil, apperrors.NewValidationError("service_name is required")
	}
	if len(in.ServiceName) > entities.MaxServiceNameLen {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("service_name must be %d characters or less", entities.MaxServiceNameLen))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booking := &entities.Booking{
		Date:            in.Date,
		StartTime:       in.StartTime,
		EndTime:         entities.FormatTimeOfDay(start + in.DurationMinutes),
		DurationMinutes: in.DurationMinutes,
		ClientID:        in.ClientID,
		ServiceName:     in.ServiceName,
		CreatedAt:       time.Now().UTC(),
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		available, err := s.availability.IsSlotAvailable(txCtx, in.Date, in.StartTime, in.DurationMinutes)
		if err != nil {
			return err
		}
		if !available {
			return apperrors.NewConflictError(
				fmt.Sprintf("slot %s %s (%d min) is not available", in.Date, in.StartTime, in.DurationMinutes))
		}

		_, err = s.repo.Insert(txCtx, booking)
		return err
	})
	if err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("booking_id", booking.ID).
		Str("date", booking.Date).
		Str("start_time", booking.StartTime).
		Int("duration_minutes", booking.DurationMinutes).
		Msg("booked slot")

	return booking, nil
}

// CancelBooking hard-deletes the booking with the given id and reports
// whether it existed. Cancelling an unknown or already-cancelled id is a
// safe no-op, so callers may retry freely.
func (s *BookingService) CancelBooking(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, apperrors.NewValidationError("booking id must be a positive integer")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("booking_id", id).
		Bool("existed", existed).
		Msg("cancelled booking")

	return existed, nil
}

// GetBooking retrieves a booking by id
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*entities.Booking, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("booking id must be a positive integer")
	}
	return s.repo.GetByID(ctx, id)
}
