package model

// Availability describes one date across every room.
type Availability struct {
	Date   string             `json:"date"`
	Open   bool               `json:"open"`
	Reason string             `json:"reason,omitempty"`
	Rooms  []RoomAvailability `json:"rooms"`
}

type RoomAvailability struct {
	Room string `json:"room"`
	// Booked lists existing bookings in start order.
	Booked []*Booking `json:"booked"`
	// FreeSlots lists the start of every slot nobody holds.
	FreeSlots []string `json:"free_slots"`
}
