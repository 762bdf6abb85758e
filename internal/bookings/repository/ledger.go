package repository

import (
	"context"
	"errors"

	bookingserrors "roombook/internal/bookings/errors"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/logger"
)

// WithLedger runs fn while holding the writer mutex shared by every service on
// these stores and the store lock that covers other processes.
func (s *Stores) WithLedger(ctx context.Context, owner string, log *logger.Logger, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	release, err := s.Lock.Acquire(ctx, owner)
	if err != nil {
		switch {
		case errors.Is(err, bookingserrors.ErrLedgerLocked):
			log.Warn("Booking ledger busy", "error", err)
			return apperrors.Unavailable("Booking ledger")
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			return apperrors.Timeout("Timed out waiting for the booking ledger")
		default:
			log.Error("Failed to acquire ledger lock", "error", err)
			return apperrors.Internal("Failed to acquire ledger lock", err)
		}
	}
	defer func() {
		if releaseErr := release(context.WithoutCancel(ctx)); releaseErr != nil {
			log.Warn("Failed to release ledger lock", "owner", owner, "error", releaseErr)
		}
	}()

	return fn()
}
