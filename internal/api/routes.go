package api

import (
	"net/http"

	"github.com/navikt/meetingplanner/internal/seed"
)

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(svc ReservationServicer, meetings []seed.PlannedMeeting) *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoints for Kubernetes
	mux.HandleFunc("/health/live", HealthLiveHandler)
	mux.HandleFunc("/health/ready", HealthReadyHandler(svc))

	// Booking endpoints
	reservationHandler := NewReservationHandler(svc, meetings)
	mux.Handle("/api/v1/reservations", reservationHandler)
	mux.Handle("/api/v2/reservations", reservationHandler)

	// Room endpoints
	roomHandler := NewRoomHandler(svc)
	mux.Handle("/api/rooms", roomHandler)
	mux.Handle("/api/rooms/", roomHandler)

	return mux
}
