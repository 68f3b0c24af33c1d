package api

import (
	"github.com/navikt/meetingplanner/internal/models"
)

// EquipmentDTO is the wire form of a piece of equipment
type EquipmentDTO struct {
	Name string `json:"name"`
}

// RoomDTO is the wire form of a room
type RoomDTO struct {
	Name       string         `json:"name"`
	Capacity   int            `json:"maxCapacity"`
	Equipments []EquipmentDTO `json:"equipments"`
}

// ReservationDTO is the wire form of a reservation. Dates are dd/MM/yyyy and
// times HH:mm.
type ReservationDTO struct {
	ID         string  `json:"id"`
	Number     int     `json:"meeting,omitempty"`
	Date       string  `json:"date"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Type       string  `json:"type"`
	Attendees  int     `json:"attendees"`
	ReservedBy string  `json:"reservedBy,omitempty"`
	Room       RoomDTO `json:"room"`
}

// AvailableRoomsDTO answers an availability query
type AvailableRoomsDTO struct {
	Rooms []RoomDTO `json:"rooms"`
	Best  *RoomDTO  `json:"best"`
}

// ReservationRequest is the body of a booking request
type ReservationRequest struct {
	Attendees  int    `json:"attendees"`
	Type       string `json:"type"`
	Date       string `json:"date"`      // 2006-01-02
	StartTime  string `json:"startTime"` // 15:04
	ReservedBy string `json:"reservedBy"`
}

func newRoomDTO(room *models.Room) RoomDTO {
	equipments := make([]EquipmentDTO, 0, room.Equipment.Len())
	for _, name := range room.Equipment.Names() {
		equipments = append(equipments, EquipmentDTO{Name: name})
	}
	return RoomDTO{
		Name:       room.Name,
		Capacity:   room.MaxCapacity,
		Equipments: equipments,
	}
}

func newRoomDTOs(rooms []*models.Room) []RoomDTO {
	dtos := make([]RoomDTO, 0, len(rooms))
	for _, room := range rooms {
		dtos = append(dtos, newRoomDTO(room))
	}
	return dtos
}

// roomIndex maps room names to their wire form
type roomIndex map[string]RoomDTO

func newRoomIndex(rooms []*models.Room) roomIndex {
	index := make(roomIndex, len(rooms))
	for _, room := range rooms {
		index[room.Name] = newRoomDTO(room)
	}
	return index
}

// lookup returns the room by name, or a room carrying only the name when it is unknown
func (idx roomIndex) lookup(name string) RoomDTO {
	if room, ok := idx[name]; ok {
		return room
	}
	return RoomDTO{Name: name, Equipments: []EquipmentDTO{}}
}

func newReservationDTO(reservation *models.Reservation, rooms roomIndex) ReservationDTO {
	return ReservationDTO{
		ID:         reservation.ID,
		Number:     reservation.Number,
		Date:       reservation.Date.Format(models.DisplayDateLayout),
		StartTime:  reservation.Start.String(),
		EndTime:    reservation.End().String(),
		Type:       reservation.Type.String(),
		Attendees:  reservation.Attendees,
		ReservedBy: reservation.ReservedBy,
		Room:       rooms.lookup(reservation.RoomName),
	}
}

func newReservationDTOs(reservations []*models.Reservation, rooms roomIndex) []ReservationDTO {
	dtos := make([]ReservationDTO, 0, len(reservations))
	for _, reservation := range reservations {
		dtos = append(dtos, newReservationDTO(reservation, rooms))
	}
	return dtos
}
