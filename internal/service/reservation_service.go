package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/navikt/meetingplanner/internal/allocation"
	"github.com/navikt/meetingplanner/internal/models"
	"github.com/navikt/meetingplanner/internal/repository"
	"github.com/navikt/meetingplanner/internal/seed"
	"github.com/navikt/meetingplanner/internal/utils"
)

// ErrNoRoomAvailable is returned when no room can host the requested meeting
var ErrNoRoomAvailable = errors.New("no room available for this reservation")

// ReservationUpdateCallback is a function type for reservation update callbacks
type ReservationUpdateCallback func(*models.Reservation)

// ReservationService provides the booking workflow around the allocation engine
type ReservationService struct {
	repo     repository.Repository
	location *time.Location
	now      func() time.Time

	// bookingMu serializes room selection and persistence so two bookings
	// handled by this process never pick the same free slot
	bookingMu sync.Mutex

	callbacksMu     sync.RWMutex
	updateCallbacks []ReservationUpdateCallback
}

// Option configures a ReservationService
type Option func(*ReservationService)

// WithLocation sets the timezone requested dates and times refer to
func WithLocation(loc *time.Location) Option {
	return func(s *ReservationService) {
		s.location = loc
	}
}

// WithClock replaces the wall clock, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *ReservationService) {
		s.now = now
	}
}

// NewReservationService creates a new ReservationService with the given repository
func NewReservationService(repo repository.Repository, opts ...Option) *ReservationService {
	s := &ReservationService{
		repo:            repo,
		location:        time.UTC,
		now:             time.Now,
		updateCallbacks: make([]ReservationUpdateCallback, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterUpdateCallback registers a callback function to be called when a reservation is booked
func (s *ReservationService) RegisterUpdateCallback(callback ReservationUpdateCallback) {
	s.callbacksMu.Lock()
	defer s.callbacksMu.Unlock()
	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// notifyUpdate calls all registered callbacks with the new reservation
func (s *ReservationService) notifyUpdate(reservation *models.Reservation) {
	s.callbacksMu.RLock()
	defer s.callbacksMu.RUnlock()
	for _, callback := range s.updateCallbacks {
		callback(reservation)
	}
}

// Book validates a booking request, picks the best fitting room and stores the reservation
func (s *ReservationService) Book(ctx context.Context, req BookingRequest) (*models.Reservation, error) {
	meetingType, err := Validate(req, s.now().In(s.location))
	if err != nil {
		return nil, err
	}

	request := allocation.Request{
		Attendees: req.Attendees,
		Type:      meetingType,
		Date:      req.Date,
		Start:     req.Start,
	}

	reservation, err := s.book(ctx, request, req.ReservedBy, 0)
	if err != nil {
		return nil, err
	}

	s.notifyUpdate(reservation)
	return reservation, nil
}

// book selects a room and persists the reservation while holding the booking lock
func (s *ReservationService) book(ctx context.Context, req allocation.Request, reservedBy string, number int) (*models.Reservation, error) {
	s.bookingMu.Lock()
	defer s.bookingMu.Unlock()

	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}

	room, ok := allocation.BestFittingRoom(req, rooms)
	if !ok {
		return nil, ErrNoRoomAvailable
	}

	reservation := &models.Reservation{
		ID:         uuid.NewString(),
		Number:     number,
		Date:       req.Date,
		Start:      req.Start,
		Type:       req.Type,
		Attendees:  req.Attendees,
		ReservedBy: reservedBy,
		RoomName:   room.Name,
		CreatedAt:  s.now(),
	}

	if err := s.repo.SaveReservation(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to save reservation: %w", err)
	}

	log.Printf("Booked room %s on %s at %s for %d attendees (%s) by %s",
		room.Name, req.Date, req.Start, req.Attendees, req.Type, utils.SanitizeLogString(reservedBy))

	return reservation, nil
}

// AvailableRooms lists the rooms that could host the meeting right now, in name order
func (s *ReservationService) AvailableRooms(ctx context.Context, req allocation.Request) ([]*models.Room, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	return allocation.AvailableRooms(req, rooms), nil
}

// BestRoom returns the room a booking for the meeting would get, without booking it
func (s *ReservationService) BestRoom(ctx context.Context, req allocation.Request) (*models.Room, bool, error) {
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load rooms: %w", err)
	}
	room, ok := allocation.BestFittingRoom(req, rooms)
	return room, ok, nil
}

// PlanMeetings books every planned meeting on date, in order. Calendar
// rules are not checked. Meetings that get no room are skipped; the
// successful reservations are returned.
func (s *ReservationService) PlanMeetings(ctx context.Context, date models.Date, meetings []seed.PlannedMeeting) ([]*models.Reservation, error) {
	booked := make([]*models.Reservation, 0, len(meetings))
	for _, meeting := range meetings {
		request := allocation.Request{
			Attendees: meeting.Attendees,
			Type:      meeting.Type,
			Date:      date,
			Start:     meeting.Start,
		}

		reservation, err := s.book(ctx, request, "", meeting.Number)
		if errors.Is(err, ErrNoRoomAvailable) {
			log.Printf("No room available for planned meeting %d (%s, %d attendees at %s)",
				meeting.Number, meeting.Type, meeting.Attendees, meeting.Start)
			continue
		}
		if err != nil {
			return booked, fmt.Errorf("failed to plan meeting %d: %w", meeting.Number, err)
		}

		s.notifyUpdate(reservation)
		booked = append(booked, reservation)
	}

	log.Printf("Planned %d of %d meetings on %s", len(booked), len(meetings), date)
	return booked, nil
}

// PlanNextMonday books the planned meetings on the first Monday after today
func (s *ReservationService) PlanNextMonday(ctx context.Context, meetings []seed.PlannedMeeting) ([]*models.Reservation, error) {
	return s.PlanMeetings(ctx, NextMonday(s.now().In(s.location)), meetings)
}

// NextMonday returns the first Monday strictly after the day of now
func NextMonday(now time.Time) models.Date {
	return models.DateOf(now).Next(time.Monday)
}

// ListReservations returns every stored reservation
func (s *ReservationService) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	return s.repo.ListReservations(ctx)
}

// GetRoom returns a room by name
func (s *ReservationService) GetRoom(ctx context.Context, name string) (*models.Room, error) {
	return s.repo.GetRoom(ctx, name)
}

// ListRooms returns every room with its reservations
func (s *ReservationService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return s.repo.ListRooms(ctx)
}

// Ping checks that the storage backend is reachable
func (s *ReservationService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
