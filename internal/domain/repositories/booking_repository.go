package repositories

import (
	"context"

	"github.com/ombati/slot-scheduler/internal/domain/entities"
)

// BookingRepository defines the interface for booking storage. It is pure
// storage and retrieval: cross-row consistency (the no-overlap invariant) is
// enforced by the booking service, not here.
type BookingRepository interface {
	// WithTx runs fn inside a single transaction. Repository calls made with
	// the context passed to fn join that transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Insert persists a new booking and returns its store-assigned id.
	// Ids are monotonic and never reused, even after cancellation.
	Insert(ctx context.Context, booking *entities.Booking) (int64, error)

	// Delete hard-deletes the booking with the given id and reports whether
	// a row was removed
	Delete(ctx context.Context, id int64) (bool, error)

	// GetByID retrieves a booking by id; a NotFound error if no row exists
	GetByID(ctx context.Context, id int64) (*entities.Booking, error)

	// ListByDay retrieves all live bookings on a day, ordered by start_time
	ListByDay(ctx context.Context, date string) ([]*entities.Booking, error)

	// ListFrom retrieves all live bookings with (date, start_time) at or
	// after the given instant, ordered by (date, start_time)
	ListFrom(ctx context.Context, date, startTime string) ([]*entities.Booking, error)
}
