// Package allocation matches a requested meeting to the best fitting meeting room.
//
// Every function in this package is pure: the room pool is read, never
// modified, and no state is kept between calls. Callers that need a booking
// to be exclusive must serialize the "select a room" and "persist the
// reservation" steps themselves.
package allocation

import (
	"sort"
	"time"

	"github.com/navikt/meetingplanner/internal/models"
)

const (
	// capacityPercent is the share of the nominal capacity a room may be booked to
	capacityPercent = 70

	// BufferBefore is how long before an existing reservation starts the room is blocked
	BufferBefore = time.Hour
	// BufferAfter is how long after an existing reservation starts the room stays blocked
	BufferAfter = 2 * time.Hour
)

// Request describes the meeting a room is searched for
type Request struct {
	Attendees int
	Type      models.MeetingType
	Date      models.Date
	Start     models.TimeOfDay
}

// BestFittingRoom returns the available room with the smallest equipment
// inventory. Ties are broken by room name. The boolean is false when no room
// qualifies.
func BestFittingRoom(req Request, rooms []*models.Room) (*models.Room, bool) {
	var best *models.Room
	for _, room := range AvailableRooms(req, rooms) {
		if best == nil || fitsBetter(room, best) {
			best = room
		}
	}
	return best, best != nil
}

// fitsBetter reports whether candidate should be preferred over current
func fitsBetter(candidate, current *models.Room) bool {
	if candidate.Equipment.Len() != current.Equipment.Len() {
		return candidate.Equipment.Len() < current.Equipment.Len()
	}
	return candidate.Name < current.Name
}

// AvailableRooms returns, in pool order, the rooms that are large enough,
// carry the equipment the meeting type requires and are free at the
// requested date and time. The result is never nil.
func AvailableRooms(req Request, rooms []*models.Room) []*models.Room {
	required := req.Type.RequiredEquipment()

	available := make([]*models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room == nil {
			continue
		}
		if !HasCapacity(room.MaxCapacity, req.Attendees) {
			continue
		}
		if !HasRequiredEquipment(room.Equipment, required) {
			continue
		}
		if !IsRoomAvailable(room, req.Date, req.Start) {
			continue
		}
		available = append(available, room)
	}
	return available
}

// HasCapacity reports whether attendees fit in 70% of maxCapacity.
// The comparison is done in integers so boundaries are exact.
func HasCapacity(maxCapacity, attendees int) bool {
	return maxCapacity*capacityPercent >= attendees*100
}

// HasRequiredEquipment reports whether the room equipment is a superset of required
func HasRequiredEquipment(equipment, required models.EquipmentSet) bool {
	return equipment.ContainsAll(required)
}

// IsRoomAvailable reports whether no existing reservation of the room
// conflicts with a meeting starting at start on date
func IsRoomAvailable(room *models.Room, date models.Date, start models.TimeOfDay) bool {
	for _, existing := range room.Reservations {
		if Conflicts(existing, date, start) {
			return false
		}
	}
	return true
}

// Conflicts reports whether a one-hour meeting starting at start on date
// overlaps the window blocked by an existing reservation. That window runs
// from BufferBefore before the reservation starts to BufferAfter after it.
// A meeting starting exactly when the reservation starts always conflicts.
func Conflicts(existing models.Reservation, date models.Date, start models.TimeOfDay) bool {
	if existing.Date != date {
		return false
	}

	end := start.Add(models.MeetingDuration)
	freeAfter := existing.Start.Add(BufferAfter)
	freeBefore := existing.Start.Add(-BufferBefore)

	overlapsAfter := start < freeAfter && end > existing.Start
	overlapsBefore := start < existing.Start && end > freeBefore
	return overlapsAfter || overlapsBefore
}

// SortByFit orders rooms the way BestFittingRoom ranks them
func SortByFit(rooms []*models.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		return fitsBetter(rooms[i], rooms[j])
	})
}
