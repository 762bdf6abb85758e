package service

import (
	"testing"

	"roombook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 int
		want           bool
	}{
		{"identical", 540, 600, 540, 600, true},
		{"partial overlap", 540, 600, 570, 630, true},
		{"contained", 540, 660, 570, 600, true},
		{"touching end to start", 540, 600, 600, 660, false},
		{"touching start to end", 600, 660, 540, 600, false},
		{"disjoint", 540, 570, 630, 660, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			assert.Equal(t, tt.want, Overlaps(tt.s2, tt.e2, tt.s1, tt.e1), "overlap must be symmetric")
		})
	}
}

func TestFindConflict(t *testing.T) {
	bookings := []*model.Booking{
		{ID: "a", Room: "A", Date: "2025-03-03", Start: "09:00", End: "10:00", Holder: "Alice"},
		{ID: "b", Room: "A", Date: "2025-03-03", Start: "10:00", End: "11:00", Holder: "Bob"},
		{ID: "c", Room: "B", Date: "2025-03-03", Start: "09:00", End: "12:00", Holder: "Carol"},
		{ID: "d", Room: "A", Date: "2025-03-04", Start: "09:00", End: "12:00", Holder: "Dan"},
	}

	tests := []struct {
		name      string
		room      string
		date      string
		start     string
		end       string
		exclude   string
		wantFirst string
		wantAll   []string
	}{
		{"free afternoon", "A", "2025-03-03", "13:00", "14:00", "", "", nil},
		{"overlap first", "A", "2025-03-03", "09:30", "10:30", "", "a", []string{"a", "b"}},
		{"touching is free", "A", "2025-03-03", "11:00", "12:00", "", "", nil},
		{"exclude self", "A", "2025-03-03", "09:00", "10:00", "a", "", nil},
		{"exclude only self", "A", "2025-03-03", "09:00", "10:30", "a", "b", []string{"b"}},
		{"other room ignored", "B", "2025-03-03", "12:00", "13:00", "", "", nil},
		{"other date ignored", "A", "2025-03-05", "09:00", "10:00", "", "", nil},
		{"bad interval", "A", "2025-03-03", "nine", "10:00", "", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConflict(bookings, tt.room, tt.date, tt.start, tt.end, tt.exclude)
			if tt.wantFirst == "" {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, tt.wantFirst, got.ID)
			}

			var ids []string
			for _, b := range FindConflicts(bookings, tt.room, tt.date, tt.start, tt.end, tt.exclude) {
				ids = append(ids, b.ID)
			}
			assert.Equal(t, tt.wantAll, ids)
		})
	}
}

func TestFirstForeignHolder(t *testing.T) {
	conflicts := []*model.Booking{
		{ID: "a", Holder: "Alice"},
		{ID: "b", Holder: "Bob"},
	}

	assert.Equal(t, "b", FirstForeignHolder(conflicts, "Alice").ID)
	assert.Equal(t, "a", FirstForeignHolder(conflicts, "Bob").ID)
	assert.Nil(t, FirstForeignHolder(conflicts[:1], "Alice"))
	assert.Nil(t, FirstForeignHolder(nil, "Alice"))
}
