package models

import (
	"sort"
	"time"
)

// MeetingDuration is the fixed length of every meeting
const MeetingDuration = time.Hour

// Reservation is a one-hour booking of a room
type Reservation struct {
	ID         string      `json:"id"`
	Number     int         `json:"number,omitempty"` // position on a planning sheet
	Date       Date        `json:"date"`
	Start      TimeOfDay   `json:"start_time"`
	Type       MeetingType `json:"type"`
	Attendees  int         `json:"attendees"`
	ReservedBy string      `json:"reserved_by,omitempty"`
	RoomName   string      `json:"room_name"`
	CreatedAt  time.Time   `json:"created_at,omitempty"`
}

// End returns the time at which the meeting ends
func (r Reservation) End() TimeOfDay {
	return r.Start.Add(MeetingDuration)
}

// SortReservations orders reservations by date, start time and room name
func SortReservations(reservations []*Reservation) {
	sort.Slice(reservations, func(i, j int) bool {
		a, b := reservations[i], reservations[j]
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.RoomName < b.RoomName
	})
}
