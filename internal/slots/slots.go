// Package slots defines the bookable calendar grid: which times of day a booking
// may start and end on, and which dates accept bookings at all.
package slots

import (
	"fmt"
	"time"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
)

// Grid is the ordered set of slot boundaries from Start to End inclusive,
// Step minutes apart. All values are minutes since midnight.
type Grid struct {
	Start int
	End   int
	Step  int
}

func NewGrid(dayStart, dayEnd string, slotMinutes int) (*Grid, error) {
	start, err := ParseMinute(dayStart)
	if err != nil {
		return nil, err
	}
	end, err := ParseMinute(dayEnd)
	if err != nil {
		return nil, err
	}
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("slot length must be positive, got %d", slotMinutes)
	}
	if end <= start {
		return nil, fmt.Errorf("day end %s must be after day start %s", dayEnd, dayStart)
	}
	if (end-start)%slotMinutes != 0 {
		return nil, fmt.Errorf("window %s-%s is not a multiple of %d minutes", dayStart, dayEnd, slotMinutes)
	}
	return &Grid{Start: start, End: end, Step: slotMinutes}, nil
}

// Options returns every boundary of the grid in order, first and last included.
func (g *Grid) Options() []string {
	out := make([]string, 0, g.SlotsPerDay()+1)
	for m := g.Start; m <= g.End; m += g.Step {
		out = append(out, FormatMinute(m))
	}
	return out
}

// StartOptions are the boundaries a booking may begin on.
func (g *Grid) StartOptions() []string {
	opts := g.Options()
	return opts[:len(opts)-1]
}

// EndOptions are the boundaries a booking may finish on.
func (g *Grid) EndOptions() []string {
	return g.Options()[1:]
}

func (g *Grid) SlotsPerDay() int {
	return (g.End - g.Start) / g.Step
}

// Contains reports whether hhmm is a boundary of the grid.
func (g *Grid) Contains(hhmm string) bool {
	m, err := ParseMinute(hhmm)
	if err != nil {
		return false
	}
	return m >= g.Start && m <= g.End && (m-g.Start)%g.Step == 0
}

// SlotCount is the number of grid slots covered by [start, end). Unparseable or
// inverted intervals count as zero.
func (g *Grid) SlotCount(start, end string) int {
	s, err1 := ParseMinute(start)
	e, err2 := ParseMinute(end)
	if err1 != nil || err2 != nil || e <= s {
		return 0
	}
	return (e - s) / g.Step
}

// ParseMinute converts HH:MM into minutes since midnight.
func ParseMinute(hhmm string) (int, error) {
	t, err := time.Parse(model.TimeOfDayLayout, hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, must be HH:MM", hhmm)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func ParseDate(date string) (time.Time, error) {
	return time.Parse(model.DateLayout, date)
}

func IsWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBlockedOrWeekend reports whether no room can be booked on date, and why.
// Malformed dates are not judged here.
func IsBlockedOrWeekend(date string, blocked model.BlockedDates) (bool, string) {
	day, err := ParseDate(date)
	if err != nil {
		return false, ""
	}
	if IsWeekend(day) {
		return true, apperrors.ReasonWeekend
	}
	if blocked.Contains(date) {
		return true, apperrors.ReasonBlocked
	}
	return false, ""
}

// CheckDate returns a DateUnavailable error when date is a weekend, blocked, or
// before today.
func CheckDate(date string, blocked model.BlockedDates, today time.Time) error {
	day, err := ParseDate(date)
	if err != nil {
		return apperrors.Validation("Invalid date, must be YYYY-MM-DD", map[string]any{"date": date})
	}
	if closed, reason := IsBlockedOrWeekend(date, blocked); closed {
		return apperrors.DateUnavailable(date, reason)
	}
	y, m, d := today.Date()
	if day.Before(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
		return apperrors.DateUnavailable(date, apperrors.ReasonPast)
	}
	return nil
}

// OpenDays lists the dates in [from, to] that accept bookings.
func OpenDays(from, to time.Time, blocked model.BlockedDates) []string {
	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := d.Format(model.DateLayout)
		if closed, _ := IsBlockedOrWeekend(date, blocked); !closed {
			days = append(days, date)
		}
	}
	return days
}
