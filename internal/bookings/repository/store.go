package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/pkg/config"
	"roombook/pkg/model"
)

// BookingStore holds the booking table. Save overwrites the whole table.
type BookingStore interface {
	Load(ctx context.Context) ([]*model.Booking, error)
	Save(ctx context.Context, bookings []*model.Booking) error
}

type BlockedDateStore interface {
	LoadBlockedDates(ctx context.Context) (model.BlockedDates, error)
	SaveBlockedDates(ctx context.Context, dates model.BlockedDates) error
}

// TransactionLog is append-only. Records are never rewritten.
type TransactionLog interface {
	LoadLog(ctx context.Context) ([]*model.TransactionRecord, error)
	Append(ctx context.Context, rec *model.TransactionRecord) error
}

// ReleaseFunc gives a held ledger lock back.
type ReleaseFunc func(ctx context.Context) error

// LedgerLock serializes read-check-write cycles across processes sharing a store.
type LedgerLock interface {
	Acquire(ctx context.Context, owner string) (ReleaseFunc, error)
}

type Stores struct {
	Bookings     BookingStore
	BlockedDates BlockedDateStore
	Log          TransactionLog
	Lock         LedgerLock

	// mu serializes writers inside this process; Lock covers other processes.
	mu sync.Mutex
}

type LockOptions struct {
	TTL        time.Duration
	Retries    int
	RetryDelay time.Duration
}

func LockOptionsFromConfig(cfg *config.Config) LockOptions {
	return LockOptions{
		TTL:        cfg.LockTTL,
		Retries:    cfg.LockRetries,
		RetryDelay: cfg.LockRetryDelay,
	}
}

// NewStores builds the store bundle for the configured driver. The mongo driver
// expects cfg.SetMongo to have been called.
func NewStores(cfg *config.Config) (*Stores, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		return NewMongoStores(cfg), nil
	case config.DriverCSV:
		return NewCSVStores(cfg.DataDir, LockOptionsFromConfig(cfg))
	case config.DriverMemory:
		return NewMemoryStores(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
}

type nopLock struct{}

// NopLock never blocks. Suitable when a single process owns the store.
func NopLock() LedgerLock {
	return nopLock{}
}

func (nopLock) Acquire(context.Context, string) (ReleaseFunc, error) {
	return func(context.Context) error { return nil }, nil
}

// retryAcquire calls try until it reports the lock as taken, the retries run out
// or ctx ends.
func retryAcquire(ctx context.Context, opts LockOptions, try func() (bool, error)) error {
	for attempt := 0; ; attempt++ {
		ok, err := try()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if attempt >= opts.Retries {
			return bookingserrors.ErrLedgerLocked
		}

		timer := time.NewTimer(opts.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
