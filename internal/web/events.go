// Package web streams booking activity to browsers with server-sent events
package web

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/navikt/meetingplanner/internal/models"
	"github.com/r3labs/sse/v2"
)

const (
	// StreamReservations is the SSE stream carrying newly booked reservations
	StreamReservations = "reservations"

	eventReservation = "reservation"
)

// ReservationEvent is the payload published for every booked reservation
type ReservationEvent struct {
	ID        string             `json:"id"`
	Room      string             `json:"room"`
	Date      models.Date        `json:"date"`
	StartTime models.TimeOfDay   `json:"start_time"`
	EndTime   models.TimeOfDay   `json:"end_time"`
	Type      models.MeetingType `json:"type"`
	Attendees int                `json:"attendees"`
}

// EventPublisher publishes reservation events to connected SSE clients
type EventPublisher struct {
	server *sse.Server
}

// NewEventPublisher creates a publisher with its reservation stream ready
func NewEventPublisher() *EventPublisher {
	server := sse.New()
	server.AutoReplay = false
	server.Headers = map[string]string{
		"Access-Control-Allow-Origin": "*",
		"X-Accel-Buffering":           "no", // Disable nginx proxy buffering
	}
	server.CreateStream(StreamReservations)

	return &EventPublisher{server: server}
}

// ServeHTTP serves the SSE stream. Requests without a stream parameter get
// the reservation stream.
func (p *EventPublisher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.URL.Query().Get("stream") == "" {
		r = r.Clone(r.Context())
		query := r.URL.Query()
		query.Set("stream", StreamReservations)
		r.URL.RawQuery = query.Encode()
	}

	log.Printf("SSE client connected from %s", r.RemoteAddr)
	p.server.ServeHTTP(w, r)
	log.Printf("SSE client disconnected from %s", r.RemoteAddr)
}

// NotifyReservation publishes a booked reservation to all clients
func (p *EventPublisher) NotifyReservation(reservation *models.Reservation) {
	event := ReservationEvent{
		ID:        reservation.ID,
		Room:      reservation.RoomName,
		Date:      reservation.Date,
		StartTime: reservation.Start,
		EndTime:   reservation.End(),
		Type:      reservation.Type,
		Attendees: reservation.Attendees,
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error encoding reservation event %s: %v", reservation.ID, err)
		return
	}

	p.server.Publish(StreamReservations, &sse.Event{
		ID:    []byte(reservation.ID),
		Event: []byte(eventReservation),
		Data:  data,
	})
}

// Shutdown closes every stream and disconnects the clients
func (p *EventPublisher) Shutdown() {
	p.server.Close()
}
