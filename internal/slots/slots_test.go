package slots

import (
	"testing"
	"time"

	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid("08:00", "18:00", 30)
	require.NoError(t, err)
	return g
}

func TestGrid_Options(t *testing.T) {
	g := defaultGrid(t)

	opts := g.Options()
	require.Len(t, opts, 21)
	assert.Equal(t, "08:00", opts[0])
	assert.Equal(t, "08:30", opts[1])
	assert.Equal(t, "18:00", opts[20])
	assert.Equal(t, 20, g.SlotsPerDay())

	assert.Equal(t, "08:00", g.StartOptions()[0])
	assert.Equal(t, "17:30", g.StartOptions()[len(g.StartOptions())-1])
	assert.Equal(t, "08:30", g.EndOptions()[0])
	assert.Equal(t, "18:00", g.EndOptions()[len(g.EndOptions())-1])
}

func TestNewGrid_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		step  int
	}{
		{"bad start", "8am", "18:00", 30},
		{"bad end", "08:00", "6pm", 30},
		{"zero step", "08:00", "18:00", 0},
		{"end before start", "18:00", "08:00", 30},
		{"not a multiple", "08:00", "18:00", 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.start, tt.end, tt.step)
			assert.Error(t, err)
		})
	}
}

func TestGrid_Contains(t *testing.T) {
	g := defaultGrid(t)

	tests := []struct {
		in   string
		want bool
	}{
		{"08:00", true},
		{"09:30", true},
		{"18:00", true},
		{"09:15", false},
		{"07:30", false},
		{"18:30", false},
		{"nine", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Contains(tt.in))
		})
	}
}

func TestGrid_SlotCount(t *testing.T) {
	g := defaultGrid(t)

	assert.Equal(t, 2, g.SlotCount("09:00", "10:00"))
	assert.Equal(t, 20, g.SlotCount("08:00", "18:00"))
	assert.Equal(t, 0, g.SlotCount("10:00", "09:00"))
	assert.Equal(t, 0, g.SlotCount("bad", "09:00"))
}

func TestMinuteRoundTrip(t *testing.T) {
	m, err := ParseMinute("13:30")
	require.NoError(t, err)
	assert.Equal(t, 810, m)
	assert.Equal(t, "13:30", FormatMinute(m))
}

func TestIsBlockedOrWeekend(t *testing.T) {
	blocked := model.BlockedDates{"2025-03-05": {Date: "2025-03-05"}}

	tests := []struct {
		name       string
		date       string
		wantClosed bool
		wantReason string
	}{
		{"monday", "2025-03-03", false, ""},
		{"saturday", "2025-03-01", true, apperrors.ReasonWeekend},
		{"sunday", "2025-03-02", true, apperrors.ReasonWeekend},
		{"blocked wednesday", "2025-03-05", true, apperrors.ReasonBlocked},
		{"malformed", "03/03/2025", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			closed, reason := IsBlockedOrWeekend(tt.date, blocked)
			assert.Equal(t, tt.wantClosed, closed)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestCheckDate(t *testing.T) {
	today := time.Date(2025, 3, 3, 15, 0, 0, 0, time.Local)
	blocked := model.BlockedDates{"2025-03-05": {Date: "2025-03-05"}}

	assert.NoError(t, CheckDate("2025-03-03", blocked, today))
	assert.NoError(t, CheckDate("2025-03-04", blocked, today))

	err := CheckDate("2025-02-28", blocked, today)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeDateUnavailable))
	assert.Equal(t, apperrors.ReasonPast, apperrors.AsAppError(err).Details["reason"])

	err = CheckDate("2025-03-08", blocked, today)
	assert.Equal(t, apperrors.ReasonWeekend, apperrors.AsAppError(err).Details["reason"])

	err = CheckDate("2025-03-05", blocked, today)
	assert.Equal(t, apperrors.ReasonBlocked, apperrors.AsAppError(err).Details["reason"])

	err = CheckDate("tomorrow", blocked, today)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

func TestOpenDays(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	blocked := model.BlockedDates{"2025-03-05": {Date: "2025-03-05"}}

	days := OpenDays(from, to, blocked)

	assert.Equal(t, []string{"2025-03-03", "2025-03-04", "2025-03-06", "2025-03-07"}, days)
}
