package model

import "time"

// LedgerLock is an advisory lock document held for the duration of a
// read-check-write cycle on the booking ledger. ExpiresAt backs a TTL index so a
// crashed holder never blocks the ledger for longer than the lock TTL.
type LedgerLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
