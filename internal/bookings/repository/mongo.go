package repository

import (
	"context"
	"fmt"
	"time"

	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BookingsCollection     = "Bookings"
	BlockedDatesCollection = "Blocked_dates"
	TransactionsCollection = "Transaction_log"
	LocksCollection        = "Ledger_locks"

	ledgerLockID = "ledger"
)

type mongoStore struct {
	cfg          *config.Config
	bookings     *mongo.Collection
	blockedDates *mongo.Collection
	transactions *mongo.Collection
	txManager    mongotx.TransactionManager
}

type mongoLedgerLock struct {
	collection *mongo.Collection
	opts       LockOptions
}

func NewMongoStores(cfg *config.Config) *Stores {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	store := &mongoStore{
		cfg:          cfg,
		bookings:     db.Collection(BookingsCollection),
		blockedDates: db.Collection(BlockedDatesCollection),
		transactions: db.Collection(TransactionsCollection),
		txManager:    mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
	return &Stores{
		Bookings:     store,
		BlockedDates: store,
		Log:          store,
		Lock: &mongoLedgerLock{
			collection: db.Collection(LocksCollection),
			opts:       LockOptionsFromConfig(cfg),
		},
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// A SessionContext cannot be wrapped without losing the session.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (s *mongoStore) Load(ctx context.Context) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "room", Value: 1},
		{Key: "start", Value: 1},
	})

	cursor, err := s.bookings.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

// Save replaces the booking table inside a single transaction so readers never
// observe a half-written table.
func (s *mongoStore) Save(ctx context.Context, bookings []*model.Booking) error {
	ctx, cancel := withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, 0, len(bookings))
	for _, b := range bookings {
		docs = append(docs, b)
	}

	return s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.bookings.DeleteMany(sessCtx, bson.M{}); err != nil {
			return fmt.Errorf("failed to clear bookings: %w", err)
		}
		if len(docs) == 0 {
			return nil
		}
		if _, err := s.bookings.InsertMany(sessCtx, docs); err != nil {
			return fmt.Errorf("failed to insert bookings: %w", err)
		}
		return nil
	})
}

func (s *mongoStore) LoadBlockedDates(ctx context.Context) (model.BlockedDates, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	cursor, err := s.blockedDates.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find blocked dates: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []model.BlockedDate
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode blocked dates: %w", err)
	}

	dates := make(model.BlockedDates, len(rows))
	for _, row := range rows {
		dates[row.Date] = row
	}
	return dates, nil
}

func (s *mongoStore) SaveBlockedDates(ctx context.Context, dates model.BlockedDates) error {
	ctx, cancel := withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	docs := make([]any, 0, len(dates))
	for _, d := range dates {
		docs = append(docs, d)
	}

	return s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := s.blockedDates.DeleteMany(sessCtx, bson.M{}); err != nil {
			return fmt.Errorf("failed to clear blocked dates: %w", err)
		}
		if len(docs) == 0 {
			return nil
		}
		if _, err := s.blockedDates.InsertMany(sessCtx, docs); err != nil {
			return fmt.Errorf("failed to insert blocked dates: %w", err)
		}
		return nil
	})
}

func (s *mongoStore) LoadLog(ctx context.Context) ([]*model.TransactionRecord, error) {
	ctx, cancel := withTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.transactions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}
	defer cursor.Close(ctx)

	records := []*model.TransactionRecord{}
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return records, nil
}

func (s *mongoStore) Append(ctx context.Context, rec *model.TransactionRecord) error {
	ctx, cancel := withTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	if _, err := s.transactions.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// Acquire inserts the single ledger lock document. A duplicate key means another
// writer holds it; an expired holder is evicted before retrying.
func (l *mongoLedgerLock) Acquire(ctx context.Context, owner string) (ReleaseFunc, error) {
	err := retryAcquire(ctx, l.opts, func() (bool, error) {
		now := time.Now().UTC()
		lock := &model.LedgerLock{
			ID:        ledgerLockID,
			Owner:     owner,
			ExpiresAt: now.Add(l.opts.TTL),
			CreatedAt: now,
		}

		_, err := l.collection.InsertOne(ctx, lock)
		if err == nil {
			return true, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return false, fmt.Errorf("failed to acquire ledger lock: %w", err)
		}

		// The TTL monitor only runs once a minute.
		_, err = l.collection.DeleteOne(ctx, bson.M{
			"_id":        ledgerLockID,
			"expires_at": bson.M{"$lt": now},
		})
		if err != nil {
			return false, fmt.Errorf("failed to evict expired ledger lock: %w", err)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		_, err := l.collection.DeleteOne(ctx, bson.M{"_id": ledgerLockID, "owner": owner})
		return err
	}, nil
}
