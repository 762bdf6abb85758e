package model

import "time"

// BlockedDate closes every room for a whole day, independent of the weekday.
type BlockedDate struct {
	Date      string    `json:"date" bson:"_id" validate:"required,isodate"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"max=200"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type BlockedDates map[string]BlockedDate

func (d BlockedDates) Contains(date string) bool {
	_, ok := d[date]
	return ok
}

type BlockDateRequest struct {
	Date   string `json:"date"`
	Reason string `json:"reason,omitempty"`
}

// BlockDateResult lists the bookings that still sit on a newly blocked date.
// They are kept; the administrator decides what to do with them.
type BlockDateResult struct {
	BlockedDate BlockedDate `json:"blocked_date"`
	Affected    []*Booking  `json:"affected_bookings"`
}
