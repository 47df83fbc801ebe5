package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ombati/slot-scheduler/internal/domain/repositories"
)

// fakeCache is an in-memory CacheProvider recording deletions
type fakeCache struct {
	store   map[string][]byte
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := c.store[key]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return value, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.store[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.store, key)
	c.deletes = append(c.deletes, key)
	return nil
}

func newCachedTestAdapter(t *testing.T) (repositories.BookingRepository, *fakeCache) {
	t.Helper()
	cache := newFakeCache()
	return NewCachedBookingAdapter(newTestAdapter(t), cache), cache
}

func TestCachedBookingAdapter_ListByDayPopulatesCache(t *testing.T) {
	cached, cache := newCachedTestAdapter(t)
	ctx := context.Background()

	_, err := cached.Insert(ctx, testBooking("2025-06-10", "09:00", 30))
	require.NoError(t, err)

	bookings, err := cached.ListByDay(ctx, "2025-06-10")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Contains(t, cache.store, dayBookingsCacheKey("2025-06-10"))

	// Second read is served from the cache
	again, err := cached.ListByDay(ctx, "2025-06-10")
	require.NoError(t, err)
	assert.Equal(t, bookings[0].ID, again[0].ID)
}

func TestCachedBookingAdapter_AutocommitWriteInvalidatesImmediately(t *testing.T) {
	cached, cache := newCachedTestAdapter(t)
	ctx := context.Background()

	_, err := cached.ListByDay(ctx, "2025-06-11")
	require.NoError(t, err)
	require.Contains(t, cache.store, dayBookingsCacheKey("2025-06-11"))

	_, err = cached.Insert(ctx, testBooking("2025-06-11", "09:00", 30))
	require.NoError(t, err)
	assert.NotContains(t, cache.store, dayBookingsCacheKey("2025-06-11"))
}

func TestCachedBookingAdapter_TxInvalidatesOnlyAfterCommit(t *testing.T) {
	cached, cache := newCachedTestAdapter(t)
	ctx := context.Background()
	key := dayBookingsCacheKey("2025-06-12")

	_, err := cached.ListByDay(ctx, "2025-06-12")
	require.NoError(t, err)
	require.Contains(t, cache.store, key)

	err = cached.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := cached.Insert(txCtx, testBooking("2025-06-12", "09:00", 30)); err != nil {
			return err
		}
		// The day stays cached until the transaction commits; a reader
		// racing this window must not re-cache pre-commit state.
		assert.Contains(t, cache.store, key)
		return nil
	})
	require.NoError(t, err)
	assert.NotContains(t, cache.store, key)
}

func TestCachedBookingAdapter_NoInvalidationOnRollback(t *testing.T) {
	cached, cache := newCachedTestAdapter(t)
	ctx := context.Background()
	key := dayBookingsCacheKey("2025-06-13")

	_, err := cached.ListByDay(ctx, "2025-06-13")
	require.NoError(t, err)
	require.Contains(t, cache.store, key)

	err = cached.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := cached.Insert(txCtx, testBooking("2025-06-13", "09:00", 30)); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	require.Error(t, err)

	// Nothing committed, so the cached day list is still correct
	assert.Contains(t, cache.store, key)
	assert.Empty(t, cache.deletes)
}

func TestCachedBookingAdapter_TxReadsBypassCache(t *testing.T) {
	cached, cache := newCachedTestAdapter(t)
	ctx := context.Background()
	key := dayBookingsCacheKey("2025-06-14")

	// Poison the cache with an empty day, then write inside a transaction
	// and read back before commit: the read must see the store, not the key.
	_, err := cached.ListByDay(ctx, "2025-06-14")
	require.NoError(t, err)
	require.Contains(t, cache.store, key)

	err = cached.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := cached.Insert(txCtx, testBooking("2025-06-14", "09:00", 30)); err != nil {
			return err
		}
		bookings, err := cached.ListByDay(txCtx, "2025-06-14")
		if err != nil {
			return err
		}
		assert.Len(t, bookings, 1)
		return nil
	})
	require.NoError(t, err)
}
