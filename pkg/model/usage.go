package model

// UsageReport summarises room utilisation over a date range. Available slots
// count only open days, so weekends and blocked dates never lower the rate.
type UsageReport struct {
	From            string       `json:"from"`
	To              string       `json:"to"`
	Room            string       `json:"room,omitempty"`
	OpenDays        int          `json:"open_days"`
	TotalBookings   int          `json:"total_bookings"`
	UniqueHolders   int          `json:"unique_holders"`
	BookedSlots     int          `json:"booked_slots"`
	AvailableSlots  int          `json:"available_slots"`
	UtilizationRate float64      `json:"utilization_rate"`
	ByRoom          []RoomUsage  `json:"by_room"`
	ByDay           []DailyUsage `json:"by_day"`
}

type RoomUsage struct {
	Room            string  `json:"room"`
	Bookings        int     `json:"bookings"`
	BookedSlots     int     `json:"booked_slots"`
	AvailableSlots  int     `json:"available_slots"`
	UtilizationRate float64 `json:"utilization_rate"`
}

type DailyUsage struct {
	Date        string `json:"date"`
	Bookings    int    `json:"bookings"`
	BookedSlots int    `json:"booked_slots"`
}
