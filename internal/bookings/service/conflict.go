package service

import (
	"roombook/internal/slots"
	"roombook/pkg/model"
)

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Intervals that only
// touch at an endpoint do not.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// FindConflict returns the first booking on room and date whose interval overlaps
// [start, end), ignoring the booking with id excludeID. It returns nil when the
// interval is free.
func FindConflict(bookings []*model.Booking, room, date, start, end, excludeID string) *model.Booking {
	conflicts := scan(bookings, room, date, start, end, excludeID, true)
	if len(conflicts) == 0 {
		return nil
	}
	return conflicts[0]
}

// FindConflicts returns every booking FindConflict could have returned, in store order.
func FindConflicts(bookings []*model.Booking, room, date, start, end, excludeID string) []*model.Booking {
	return scan(bookings, room, date, start, end, excludeID, false)
}

// FirstForeignHolder picks the first conflict held by someone other than holder.
func FirstForeignHolder(conflicts []*model.Booking, holder string) *model.Booking {
	for _, c := range conflicts {
		if c.Holder != holder {
			return c
		}
	}
	return nil
}

func scan(bookings []*model.Booking, room, date, start, end, excludeID string, firstOnly bool) []*model.Booking {
	s, err := slots.ParseMinute(start)
	if err != nil {
		return nil
	}
	e, err := slots.ParseMinute(end)
	if err != nil {
		return nil
	}

	var out []*model.Booking
	for _, b := range bookings {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if !b.SameDay(room, date) {
			continue
		}
		bs, err1 := slots.ParseMinute(b.Start)
		be, err2 := slots.ParseMinute(b.End)
		if err1 != nil || err2 != nil {
			continue
		}
		if Overlaps(s, e, bs, be) {
			out = append(out, b)
			if firstOnly {
				break
			}
		}
	}
	return out
}
