package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ombati/slot-scheduler/internal/application/services"
	"github.com/ombati/slot-scheduler/internal/domain/entities"
)

// MockAvailabilityService is a mock implementation of the AvailabilityService interface
type MockAvailabilityService struct {
	mock.Mock
}

func (m *MockAvailabilityService) IsSlotAvailable(ctx context.Context, date, clock string, durationMinutes int) (bool, error) {
	args := m.Called(ctx, date, clock, durationMinutes)
	return args.Bool(0), args.Error(1)
}

func (m *MockAvailabilityService) SlotsAvailableOnDay(ctx context.Context, date string, durationMinutes int) ([]string, error) {
	args := m.Called(ctx, date, durationMinutes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAvailabilityService) NextAvailableSlot(ctx context.Context, afterDate, afterTime string, durationMinutes, horizonDays int) (string, string, error) {
	args := m.Called(ctx, afterDate, afterTime, durationMinutes, horizonDays)
	return args.String(0), args.String(1), args.Error(2)
}

// MockBookingService is a mock implementation of the BookingService interface
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) BookSlot(ctx context.Context, in services.BookSlotInput) (*entities.Booking, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingService) CancelBooking(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, id int64) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}
