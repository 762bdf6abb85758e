package repository

import (
	"context"
	"sync"

	"roombook/pkg/model"
)

// memoryStore keeps every table in process memory. Values are copied in and out
// so callers never share state with the store.
type memoryStore struct {
	mu       sync.RWMutex
	bookings []*model.Booking
	blocked  model.BlockedDates
	log      []*model.TransactionRecord
}

func NewMemoryStores() *Stores {
	store := &memoryStore{blocked: model.BlockedDates{}}
	return &Stores{
		Bookings:     store,
		BlockedDates: store,
		Log:          store,
		Lock:         NopLock(),
	}
}

func (s *memoryStore) Load(ctx context.Context) ([]*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneBookings(s.bookings), nil
}

func (s *memoryStore) Save(ctx context.Context, bookings []*model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = model.CloneBookings(bookings)
	return nil
}

func (s *memoryStore) LoadBlockedDates(ctx context.Context) (model.BlockedDates, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(model.BlockedDates, len(s.blocked))
	for k, v := range s.blocked {
		out[k] = v
	}
	return out, nil
}

func (s *memoryStore) SaveBlockedDates(ctx context.Context, dates model.BlockedDates) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocked = make(model.BlockedDates, len(dates))
	for k, v := range dates {
		s.blocked[k] = v
	}
	return nil
}

func (s *memoryStore) LoadLog(ctx context.Context) ([]*model.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.TransactionRecord, 0, len(s.log))
	for _, rec := range s.log {
		c := *rec
		out = append(out, &c)
	}
	return out, nil
}

func (s *memoryStore) Append(ctx context.Context, rec *model.TransactionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *rec
	s.log = append(s.log, &c)
	return nil
}
