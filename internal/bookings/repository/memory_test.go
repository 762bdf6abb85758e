package repository

import (
	"context"
	"testing"
	"time"

	"roombook/pkg/config"
	"roombook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CopiesInAndOut(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()

	b := sampleBooking("b-1", "09:00", "10:00")
	require.NoError(t, stores.Bookings.Save(ctx, []*model.Booking{b}))

	b.Holder = "mutated after save"
	loaded, err := stores.Bookings.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Alice, Tan", loaded[0].Holder)

	loaded[0].Holder = "mutated after load"
	again, err := stores.Bookings.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice, Tan", again[0].Holder)
}

func TestMemoryStore_LogAndBlockedDates(t *testing.T) {
	stores := NewMemoryStores()
	ctx := context.Background()

	rec := model.NewTransactionRecord("t-1", model.ActionBooking, sampleBooking("b-1", "09:00", "10:00"), time.Now())
	require.NoError(t, stores.Log.Append(ctx, rec))
	log, err := stores.Log.LoadLog(ctx)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, model.ActionBooking, log[0].Action)

	require.NoError(t, stores.BlockedDates.SaveBlockedDates(ctx, model.BlockedDates{"2025-03-05": {Date: "2025-03-05"}}))
	blocked, err := stores.BlockedDates.LoadBlockedDates(ctx)
	require.NoError(t, err)
	assert.True(t, blocked.Contains("2025-03-05"))
}

func TestNopLock(t *testing.T) {
	ctx := context.Background()
	lock := NopLock()

	r1, err := lock.Acquire(ctx, "a")
	require.NoError(t, err)
	r2, err := lock.Acquire(ctx, "b")
	require.NoError(t, err)
	assert.NoError(t, r1(ctx))
	assert.NoError(t, r2(ctx))
}

func TestNewStores_Drivers(t *testing.T) {
	stores, err := NewStores(&config.Config{StorageDriver: config.DriverMemory})
	require.NoError(t, err)
	assert.NotNil(t, stores.Bookings)

	stores, err = NewStores(&config.Config{StorageDriver: config.DriverCSV, DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.NotNil(t, stores.Lock)

	_, err = NewStores(&config.Config{StorageDriver: "sqlite"})
	assert.Error(t, err)
}

func TestRetryAcquire_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryAcquire(ctx, LockOptions{Retries: 5, RetryDelay: time.Hour}, func() (bool, error) {
		return false, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
