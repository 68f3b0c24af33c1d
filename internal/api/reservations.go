package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/navikt/meetingplanner/internal/models"
	"github.com/navikt/meetingplanner/internal/seed"
	"github.com/navikt/meetingplanner/internal/service"
)

// ReservationHandler handles HTTP requests for reservations
type ReservationHandler struct {
	svc      ReservationServicer
	meetings []seed.PlannedMeeting
}

// NewReservationHandler creates a reservation handler. meetings is the
// planning sheet booked by the v2 endpoint.
func NewReservationHandler(svc ReservationServicer, meetings []seed.PlannedMeeting) *ReservationHandler {
	return &ReservationHandler{
		svc:      svc,
		meetings: meetings,
	}
}

// ServeHTTP handles HTTP requests for reservations
func (h *ReservationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/reservations" && r.Method == http.MethodGet:
		h.listReservations(w, r)
	case r.URL.Path == "/api/v1/reservations" && r.Method == http.MethodPost:
		h.createReservation(w, r)
	case r.URL.Path == "/api/v2/reservations" && r.Method == http.MethodGet:
		h.planReservations(w, r)
	case r.URL.Path == "/api/v1/reservations" || r.URL.Path == "/api/v2/reservations":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

// parseReservationRequest turns the request body into a booking request.
// Malformed dates and times are reported as validation errors.
func parseReservationRequest(body ReservationRequest) (service.BookingRequest, error) {
	req := service.BookingRequest{
		Attendees:  body.Attendees,
		Type:       body.Type,
		ReservedBy: body.ReservedBy,
	}

	if body.Date != "" {
		date, err := models.ParseDate(body.Date)
		if err != nil {
			return req, &service.ValidationError{Field: "date", Message: "must be formatted as yyyy-MM-dd"}
		}
		req.Date = date
	}

	if body.StartTime == "" {
		return req, &service.ValidationError{Field: "startTime", Message: "is required"}
	}
	start, err := models.ParseTimeOfDay(body.StartTime)
	if err != nil {
		return req, &service.ValidationError{Field: "startTime", Message: "must be formatted as HH:mm"}
	}
	req.Start = start

	return req, nil
}

// createReservation handles POST /api/v1/reservations
func (h *ReservationHandler) createReservation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var body ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Printf("Error decoding reservation request: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req, err := parseReservationRequest(body)
	if err == nil {
		var reservation *models.Reservation
		reservation, err = h.svc.Book(r.Context(), req)
		if err == nil {
			writeJSON(w, http.StatusCreated, newReservationDTO(reservation, h.rooms(r)))
			return
		}
	}

	switch {
	case service.IsValidationError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNoRoomAvailable):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		log.Printf("Error booking reservation: %v", err)
		http.Error(w, "Error booking reservation", http.StatusInternalServerError)
	}
}

// listReservations handles GET /api/v1/reservations
func (h *ReservationHandler) listReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.svc.ListReservations(r.Context())
	if err != nil {
		log.Printf("Error listing reservations: %v", err)
		http.Error(w, "Error retrieving reservations", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newReservationDTOs(reservations, h.rooms(r)))
}

// planReservations handles GET /api/v2/reservations: it books the planning
// sheet on the next Monday and returns what could be booked
func (h *ReservationHandler) planReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.svc.PlanNextMonday(r.Context(), h.meetings)
	if err != nil {
		log.Printf("Error planning meetings: %v", err)
		http.Error(w, "Error planning meetings", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newReservationDTOs(reservations, h.rooms(r)))
}

// rooms indexes the current rooms for embedding in reservation DTOs. When
// the rooms cannot be loaded the DTOs carry room names only.
func (h *ReservationHandler) rooms(r *http.Request) roomIndex {
	rooms, err := h.svc.ListRooms(r.Context())
	if err != nil {
		log.Printf("Error loading rooms for reservations: %v", err)
		return roomIndex{}
	}
	return newRoomIndex(rooms)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}
