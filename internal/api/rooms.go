package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/navikt/meetingplanner/internal/allocation"
	"github.com/navikt/meetingplanner/internal/models"
)

// RoomHandler handles HTTP requests for rooms
type RoomHandler struct {
	svc ReservationServicer
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(svc ReservationServicer) *RoomHandler {
	return &RoomHandler{svc: svc}
}

// ServeHTTP handles HTTP requests for rooms
func (h *RoomHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/api/rooms":
		h.listRooms(w, r)
	case "/api/rooms/available":
		h.availableRooms(w, r)
	default:
		http.NotFound(w, r)
	}
}

// listRooms handles GET /api/rooms
func (h *RoomHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.svc.ListRooms(r.Context())
	if err != nil {
		log.Printf("Error listing rooms: %v", err)
		http.Error(w, "Error retrieving rooms", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, newRoomDTOs(rooms))
}

// parseAvailabilityQuery reads attendees, type, date and time from the query string
func parseAvailabilityQuery(r *http.Request) (allocation.Request, string) {
	query := r.URL.Query()
	var req allocation.Request

	attendees, err := strconv.Atoi(query.Get("attendees"))
	if err != nil || attendees <= 0 {
		return req, "attendees must be a positive number"
	}
	req.Attendees = attendees

	meetingType, err := models.ParseMeetingType(query.Get("type"))
	if err != nil {
		return req, "type must be one of VC, SPEC, RC, RS"
	}
	req.Type = meetingType

	date, err := models.ParseDate(query.Get("date"))
	if err != nil {
		return req, "date must be formatted as yyyy-MM-dd"
	}
	req.Date = date

	start, err := models.ParseTimeOfDay(query.Get("time"))
	if err != nil {
		return req, "time must be formatted as HH:mm"
	}
	req.Start = start

	return req, ""
}

// availableRooms handles GET /api/rooms/available. Rooms are listed best fit first.
func (h *RoomHandler) availableRooms(w http.ResponseWriter, r *http.Request) {
	req, problem := parseAvailabilityQuery(r)
	if problem != "" {
		http.Error(w, problem, http.StatusBadRequest)
		return
	}

	rooms, err := h.svc.AvailableRooms(r.Context(), req)
	if err != nil {
		log.Printf("Error listing available rooms: %v", err)
		http.Error(w, "Error retrieving rooms", http.StatusInternalServerError)
		return
	}
	allocation.SortByFit(rooms)

	// The first room by fit is the one a booking would get
	response := AvailableRoomsDTO{Rooms: newRoomDTOs(rooms)}
	if len(response.Rooms) > 0 {
		response.Best = &response.Rooms[0]
	}

	writeJSON(w, http.StatusOK, response)
}
