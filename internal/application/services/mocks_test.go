package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ombati/slot-scheduler/internal/domain/entities"
)

// MockBookingRepository mocks the booking store
type MockBookingRepository struct {
	mock.Mock
}

// WithTx runs fn directly; transactional behavior is the adapter's concern
func (m *MockBookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *MockBookingRepository) Insert(ctx context.Context, booking *entities.Booking) (int64, error) {
	args := m.Called(ctx, booking)
	id := args.Get(0).(int64)
	if args.Error(1) == nil {
		booking.ID = id
	}
	return id, args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*entities.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByDay(ctx context.Context, date string) ([]*entities.Booking, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListFrom(ctx context.Context, date, startTime string) ([]*entities.Booking, error) {
	args := m.Called(ctx, date, startTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Booking), args.Error(1)
}

func booking(date, start string, durationMinutes int) *entities.Booking {
	startMin, err := entities.ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	return &entities.Booking{
		Date:            date,
		StartTime:       start,
		EndTime:         entities.FormatTimeOfDay(startMin + durationMinutes),
		DurationMinutes: durationMinutes,
	}
}
