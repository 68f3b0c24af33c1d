package models

// Room represents a physical meeting room
type Room struct {
	Name         string        `json:"name"`
	MaxCapacity  int           `json:"max_capacity"`
	Equipment    EquipmentSet  `json:"equipment"`
	Reservations []Reservation `json:"reservations,omitempty"`
}

// Clone returns a deep copy of the room, reservations included
func (r *Room) Clone() *Room {
	clone := &Room{
		Name:        r.Name,
		MaxCapacity: r.MaxCapacity,
		Equipment:   r.Equipment.Clone(),
	}
	if len(r.Reservations) > 0 {
		clone.Reservations = make([]Reservation, len(r.Reservations))
		copy(clone.Reservations, r.Reservations)
	}
	return clone
}

// HasReservationAt reports whether the room already holds a reservation
// starting exactly at the given date and time
func (r *Room) HasReservationAt(date Date, start TimeOfDay) bool {
	for _, existing := range r.Reservations {
		if existing.Date == date && existing.Start == start {
			return true
		}
	}
	return false
}
