package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ombati/slot-scheduler/internal/domain/entities"
	"github.com/ombati/slot-scheduler/internal/domain/providers"
	"github.com/ombati/slot-scheduler/internal/domain/repositories"
	apperrors "github.com/ombati/slot-scheduler/pkg/errors"
)

// dayBookingsTTL caches a day's bookings briefly; writes invalidate the key
const dayBookingsTTL = 60

// CachedBookingAdapter wraps a BookingRepository with a per-day read cache.
// Reads made inside a transaction bypass the cache so the commit-time
// availability check always sees the store.
type CachedBookingAdapter struct {
	adapter repositories.BookingRepository
	cache   providers.CacheProvider
}

// NewCachedBookingAdapter creates a new cached booking adapter
func NewCachedBookingAdapter(adapter repositories.BookingRepository, cache providers.CacheProvider) repositories.BookingRepository {
	return &CachedBookingAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

func dayBookingsCacheKey(date string) string {
	return fmt.Sprintf("bookings:day:%s", date)
}

type pendingInvalidationsKey struct{}

// WithTx delegates transaction handling to the underlying adapter. Day
// invalidations scheduled by writes inside the transaction are held back
// until the commit succeeds, so a racing reader can never re-cache
// pre-commit state.
func (a *CachedBookingAdapter) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	pending := &[]string{}
	err := a.adapter.WithTx(ctx, func(txCtx context.Context) error {
		return fn(context.WithValue(txCtx, pendingInvalidationsKey{}, pending))
	})
	if err != nil {
		return err
	}
	for _, date := range *pending {
		a.invalidateDay(date)
	}
	return nil
}

// Insert delegates to the store and invalidates the booking's day once the
// write is committed
func (a *CachedBookingAdapter) Insert(ctx context.Context, booking *entities.Booking) (int64, error) {
	id, err := a.adapter.Insert(ctx, booking)
	if err != nil {
		return 0, err
	}
	a.scheduleInvalidation(ctx, booking.Date)
	return id, nil
}

// Delete delegates to the store and invalidates the booking's day once the
// delete is committed
func (a *CachedBookingAdapter) Delete(ctx context.Context, id int64) (bool, error) {
	// Look the row up first so we know which day to invalidate
	booking, err := a.adapter.GetByID(ctx, id)
	if err != nil && !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		return false, err
	}

	existed, err := a.adapter.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if existed && booking != nil {
		a.scheduleInvalidation(ctx, booking.Date)
	}
	return existed, nil
}

// scheduleInvalidation invalidates immediately for autocommitted writes and
// defers to the enclosing WithTx for transactional ones
func (a *CachedBookingAdapter) scheduleInvalidation(ctx context.Context, date string) {
	if pending, ok := ctx.Value(pendingInvalidationsKey{}).(*[]string); ok {
		*pending = append(*pending, date)
		return
	}
	a.invalidateDay(date)
}

// GetByID delegates to the store; point lookups are not cached
func (a *CachedBookingAdapter) GetByID(ctx context.Context, id int64) (*entities.Booking, error) {
	return a.adapter.GetByID(ctx, id)
}

// ListByDay retrieves a day's bookings with caching
func (a *CachedBookingAdapter) ListByDay(ctx context.Context, date string) ([]*entities.Booking, error) {
	if txFromContext(ctx) != nil {
		return a.adapter.ListByDay(ctx, date)
	}

	cacheKey := dayBookingsCacheKey(date)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var bookings []*entities.Booking
		if err := json.Unmarshal(cached, &bookings); err == nil {
			return bookings, nil
		}
		log.Warn().Str("key", cacheKey).Msg("failed to unmarshal cached day bookings")
	}

	bookings, err := a.adapter.ListByDay(ctx, date)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(bookings); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, dayBookingsTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache day bookings")
		}
	}

	return bookings, nil
}

// ListFrom delegates to the store; forward scans span many days and are not
// worth caching
func (a *CachedBookingAdapter) ListFrom(ctx context.Context, date, startTime string) ([]*entities.Booking, error) {
	return a.adapter.ListFrom(ctx, date, startTime)
}

func (a *CachedBookingAdapter) invalidateDay(date string) {
	cacheKey := dayBookingsCacheKey(date)
	if err := a.cache.Delete(context.Background(), cacheKey); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to invalidate day bookings cache")
	}
}
