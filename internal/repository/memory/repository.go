// Package memory provides an in-memory implementation of the repository interface
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/navikt/meetingplanner/internal/models"
)

// ErrNotFound is returned when a requested entity is not found
var ErrNotFound = errors.New("entity not found")

// Repository implements the repository interface with in-memory storage
type Repository struct {
	rooms map[string]*models.Room // Rooms keyed by name, reservations attached
	mu    sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		rooms: make(map[string]*models.Room),
	}
}

// SaveRoom creates or replaces a room's static data.
// Reservations already recorded for the room are kept.
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := room.Clone()
	if existing, ok := r.rooms[room.Name]; ok {
		stored.Reservations = existing.Reservations
	} else {
		stored.Reservations = nil
	}
	r.rooms[room.Name] = stored

	return nil
}

// GetRoom retrieves a room by name
func (r *Repository) GetRoom(ctx context.Context, name string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[name]
	if !ok {
		return nil, ErrNotFound
	}

	return room.Clone(), nil
}

// ListRooms returns a copy of every room sorted by name
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room.Clone())
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })

	return rooms, nil
}

// SaveReservation attaches a reservation to its room
func (r *Repository) SaveReservation(ctx context.Context, reservation *models.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[reservation.RoomName]
	if !ok {
		return ErrNotFound
	}

	// Replace a reservation saved earlier under the same ID
	for i := range room.Reservations {
		if room.Reservations[i].ID == reservation.ID {
			room.Reservations[i] = *reservation
			return nil
		}
	}
	room.Reservations = append(room.Reservations, *reservation)

	return nil
}

// ListReservations returns every reservation ordered by date, start time and room
func (r *Repository) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reservations := make([]*models.Reservation, 0)
	for _, room := range r.rooms {
		for i := range room.Reservations {
			reservation := room.Reservations[i]
			reservations = append(reservations, &reservation)
		}
	}
	models.SortReservations(reservations)

	return reservations, nil
}

// Ping always succeeds for the in-memory repository
func (r *Repository) Ping(ctx context.Context) error {
	return nil
}
