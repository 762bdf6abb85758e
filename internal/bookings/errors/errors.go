package errors

import "errors"

var (
	ErrLedgerLocked = errors.New("booking ledger is locked by another writer")

	ErrCorruptRecord = errors.New("stored record is malformed")
)
