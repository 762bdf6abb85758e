package model

import (
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04"
	TimestampLayout = "2006-01-02 15:04:05"
)

type Booking struct {
	ID         string    `json:"id" bson:"_id" validate:"omitempty,uuid4"`
	Room       string    `json:"room" bson:"room" validate:"required,room"`
	Date       string    `json:"date" bson:"date" validate:"required,isodate"`
	Start      string    `json:"start" bson:"start" validate:"required,slot"`
	End        string    `json:"end" bson:"end" validate:"required,slot"`
	Holder     string    `json:"holder" bson:"holder" validate:"required,max=100"`
	Title      string    `json:"title,omitempty" bson:"title,omitempty" validate:"max=200"`
	Contact    string    `json:"contact,omitempty" bson:"contact,omitempty" validate:"max=40"`
	SecretHash string    `json:"-" bson:"secret_hash,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// BookingRequest is the caller-supplied shape of a new booking.
type BookingRequest struct {
	Room    string `json:"room"`
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Holder  string `json:"holder"`
	Title   string `json:"title,omitempty"`
	Contact string `json:"contact,omitempty"`
	Secret  string `json:"secret,omitempty"`
}

// BookingUpdate carries the editable fields; empty strings leave a field unchanged.
// Holder, contact and secret are fixed for the lifetime of a booking.
type BookingUpdate struct {
	Room  string `json:"room,omitempty"`
	Date  string `json:"date,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Title string `json:"title,omitempty"`
}

func (b *Booking) Clone() *Booking {
	c := *b
	return &c
}

// SameDay reports whether b lives on the given room and date.
func (b *Booking) SameDay(room, date string) bool {
	return b.Room == room && b.Date == date
}

func CloneBookings(in []*Booking) []*Booking {
	out := make([]*Booking, 0, len(in))
	for _, b := range in {
		out = append(out, b.Clone())
	}
	return out
}
