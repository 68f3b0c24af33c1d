// Package repository defines interfaces for data storage
package repository

import (
	"context"

	"github.com/navikt/meetingplanner/internal/models"
)

// Repository defines the interface for storing and retrieving rooms and their reservations
type Repository interface {
	// Room operations
	SaveRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, name string) (*models.Room, error)
	// ListRooms returns an independent snapshot of every room, reservations
	// included, sorted by name
	ListRooms(ctx context.Context) ([]*models.Room, error)

	// Reservation operations
	SaveReservation(ctx context.Context, reservation *models.Reservation) error
	ListReservations(ctx context.Context) ([]*models.Reservation, error)

	// Ping checks that the storage backend is reachable
	Ping(ctx context.Context) error
}
