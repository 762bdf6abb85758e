package model

import "time"

type Action string

const (
	ActionBooking      Action = "Booking"
	ActionEdit         Action = "Edit"
	ActionCancellation Action = "Cancellation"
)

// TransactionRecord is an append-only audit entry. Records are never updated or deleted.
type TransactionRecord struct {
	ID         string    `json:"id" bson:"_id"`
	Action     Action    `json:"action" bson:"action"`
	BookingID  string    `json:"booking_id" bson:"booking_id"`
	Room       string    `json:"room" bson:"room"`
	Date       string    `json:"date" bson:"date"`
	Start      string    `json:"start" bson:"start"`
	End        string    `json:"end" bson:"end"`
	Holder     string    `json:"holder" bson:"holder"`
	Title      string    `json:"title,omitempty" bson:"title,omitempty"`
	Contact    string    `json:"contact,omitempty" bson:"contact,omitempty"`
	SecretHash string    `json:"-" bson:"secret_hash,omitempty"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

func NewTransactionRecord(id string, action Action, b *Booking, at time.Time) *TransactionRecord {
	return &TransactionRecord{
		ID:         id,
		Action:     action,
		BookingID:  b.ID,
		Room:       b.Room,
		Date:       b.Date,
		Start:      b.Start,
		End:        b.End,
		Holder:     b.Holder,
		Title:      b.Title,
		Contact:    b.Contact,
		SecretHash: b.SecretHash,
		Timestamp:  at,
	}
}
