package api

import (
	"context"

	"github.com/navikt/meetingplanner/internal/allocation"
	"github.com/navikt/meetingplanner/internal/models"
	"github.com/navikt/meetingplanner/internal/seed"
	"github.com/navikt/meetingplanner/internal/service"
)

// ReservationServicer defines the booking operations needed by API handlers
type ReservationServicer interface {
	Book(ctx context.Context, req service.BookingRequest) (*models.Reservation, error)
	ListReservations(ctx context.Context) ([]*models.Reservation, error)
	PlanNextMonday(ctx context.Context, meetings []seed.PlannedMeeting) ([]*models.Reservation, error)

	ListRooms(ctx context.Context) ([]*models.Room, error)
	AvailableRooms(ctx context.Context, req allocation.Request) ([]*models.Room, error)

	Ping(ctx context.Context) error
}
