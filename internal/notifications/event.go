package notifications

import (
	"fmt"
	"strings"
	"time"

	"roombook/pkg/model"
)

const (
	EventSource        = "roombook"
	EventSchemaVersion = "1"
)

// Event is the payload published for every committed booking change.
type Event struct {
	EventID    string       `json:"event_id"`
	Action     model.Action `json:"action"`
	BookingID  string       `json:"booking_id"`
	Room       string       `json:"room"`
	Date       string       `json:"date"`
	Start      string       `json:"start"`
	End        string       `json:"end"`
	Holder     string       `json:"holder"`
	Title      string       `json:"title,omitempty"`
	Contact    string       `json:"contact,omitempty"`
	Recipient  string       `json:"recipient"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// EventType names the event for an action, e.g. booking.edit.
func EventType(action model.Action) string {
	return "booking." + strings.ToLower(string(action))
}

func NewEvent(eventID string, action model.Action, b *model.Booking, recipient string, at time.Time) Event {
	return Event{
		EventID:    eventID,
		Action:     action,
		BookingID:  b.ID,
		Room:       b.Room,
		Date:       b.Date,
		Start:      b.Start,
		End:        b.End,
		Holder:     b.Holder,
		Title:      b.Title,
		Contact:    b.Contact,
		Recipient:  recipient,
		OccurredAt: at,
	}
}

func (e Event) Subject() string {
	var verb string
	switch e.Action {
	case model.ActionBooking:
		verb = "New booking"
	case model.ActionEdit:
		verb = "Booking changed"
	case model.ActionCancellation:
		verb = "Booking cancelled"
	default:
		verb = "Booking " + strings.ToLower(string(e.Action))
	}
	return fmt.Sprintf("%s: %s on %s %s-%s", verb, e.Room, e.Date, e.Start, e.End)
}

func (e Event) Body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action: %s\n", e.Action)
	fmt.Fprintf(&b, "Room: %s\n", e.Room)
	fmt.Fprintf(&b, "Date: %s\n", e.Date)
	fmt.Fprintf(&b, "Time: %s - %s\n", e.Start, e.End)
	fmt.Fprintf(&b, "Booked by: %s\n", e.Holder)
	if e.Title != "" {
		fmt.Fprintf(&b, "Meeting title: %s\n", e.Title)
	}
	if e.Contact != "" {
		fmt.Fprintf(&b, "Contact: %s\n", e.Contact)
	}
	fmt.Fprintf(&b, "Booking ID: %s\n", e.BookingID)
	fmt.Fprintf(&b, "Recorded at: %s\n", e.OccurredAt.UTC().Format(time.RFC1123))
	return b.String()
}
