package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/navikt/meetingplanner/internal/allocation"
	"github.com/navikt/meetingplanner/internal/api"
	"github.com/navikt/meetingplanner/internal/models"
	"github.com/navikt/meetingplanner/internal/repository/memory"
	"github.com/navikt/meetingplanner/internal/seed"
	"github.com/navikt/meetingplanner/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Wednesday morning; the next Monday is 2024-05-27
var now = time.Date(2024, time.May, 22, 10, 30, 0, 0, time.UTC)

// MockServicer is a mock for ReservationServicer
type MockServicer struct {
	mock.Mock
}

func (m *MockServicer) Book(ctx context.Context, req service.BookingRequest) (*models.Reservation, error) {
	args := m.Called(ctx, req)
	reservation, _ := args.Get(0).(*models.Reservation)
	return reservation, args.Error(1)
}

func (m *MockServicer) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	args := m.Called(ctx)
	reservations, _ := args.Get(0).([]*models.Reservation)
	return reservations, args.Error(1)
}

func (m *MockServicer) PlanNextMonday(ctx context.Context, meetings []seed.PlannedMeeting) ([]*models.Reservation, error) {
	args := m.Called(ctx, meetings)
	reservations, _ := args.Get(0).([]*models.Reservation)
	return reservations, args.Error(1)
}

func (m *MockServicer) ListRooms(ctx context.Context) ([]*models.Room, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]*models.Room)
	return rooms, args.Error(1)
}

func (m *MockServicer) AvailableRooms(ctx context.Context, req allocation.Request) ([]*models.Room, error) {
	args := m.Called(ctx, req)
	rooms, _ := args.Get(0).([]*models.Room)
	return rooms, args.Error(1)
}

func (m *MockServicer) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// newTestMux serves the API over the default room inventory and planning sheet
func newTestMux(t *testing.T) *http.ServeMux {
	repo := memory.NewRepository()
	rooms, err := seed.LoadRooms("")
	require.NoError(t, err)
	require.NoError(t, seed.Bootstrap(context.Background(), repo, rooms))

	meetings, err := seed.LoadMeetings("")
	require.NoError(t, err)

	svc := service.NewReservationService(repo, service.WithClock(func() time.Time { return now }))
	return api.SetupRoutes(svc, meetings)
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestCreateReservation(t *testing.T) {
	mux := newTestMux(t)

	rr := serve(mux, http.MethodPost, "/api/v1/reservations",
		`{"attendees": 4, "type": "rs", "date": "2024-05-27", "startTime": "09:00", "reservedBy": "jane"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var dto api.ReservationDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dto))
	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, api.RoomDTO{Name: "E1001", Capacity: 23, Equipments: []api.EquipmentDTO{}}, dto.Room)
	assert.Equal(t, "27/05/2024", dto.Date)
	assert.Equal(t, "09:00", dto.StartTime)
	assert.Equal(t, "10:00", dto.EndTime)
	assert.Equal(t, "RS", dto.Type)
	assert.Equal(t, 4, dto.Attendees)
	assert.Equal(t, "jane", dto.ReservedBy)

	// The booking shows up in the listing
	rr = serve(mux, http.MethodGet, "/api/v1/reservations", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var listed []api.ReservationDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, dto, listed[0])
}

func TestCreateReservationRejected(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed body", `{"attendees": `, http.StatusBadRequest},
		{"unknown type", `{"attendees": 4, "type": "BBQ", "date": "2024-05-27", "startTime": "09:00"}`, http.StatusBadRequest},
		{"no attendees", `{"attendees": 0, "type": "RS", "date": "2024-05-27", "startTime": "09:00"}`, http.StatusBadRequest},
		{"saturday", `{"attendees": 4, "type": "RS", "date": "2024-05-25", "startTime": "09:00"}`, http.StatusBadRequest},
		{"in the past", `{"attendees": 4, "type": "RS", "date": "2024-05-20", "startTime": "09:00"}`, http.StatusBadRequest},
		{"not a full hour", `{"attendees": 4, "type": "RS", "date": "2024-05-27", "startTime": "09:30"}`, http.StatusBadRequest},
		{"too late", `{"attendees": 4, "type": "RS", "date": "2024-05-27", "startTime": "21:00"}`, http.StatusBadRequest},
		{"bad date", `{"attendees": 4, "type": "RS", "date": "27/05/2024", "startTime": "09:00"}`, http.StatusBadRequest},
		{"bad time", `{"attendees": 4, "type": "RS", "date": "2024-05-27", "startTime": "9h"}`, http.StatusBadRequest},
		{"missing time", `{"attendees": 4, "type": "RS", "date": "2024-05-27"}`, http.StatusBadRequest},
		{"no room large enough", `{"attendees": 12, "type": "VC", "date": "2024-05-27", "startTime": "09:00"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(mux, http.MethodPost, "/api/v1/reservations", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.NotEmpty(t, strings.TrimSpace(rr.Body.String()))
		})
	}

	// Nothing was booked
	rr := serve(mux, http.MethodGet, "/api/v1/reservations", "")
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestPlanReservations(t *testing.T) {
	mux := newTestMux(t)

	rr := serve(mux, http.MethodGet, "/api/v2/reservations", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var planned []api.ReservationDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &planned))
	require.NotEmpty(t, planned)

	byNumber := make(map[int]api.ReservationDTO)
	for _, dto := range planned {
		assert.Equal(t, "27/05/2024", dto.Date)
		byNumber[dto.Number] = dto
	}
	require.Contains(t, byNumber, 1)
	assert.Equal(t, "E3001", byNumber[1].Room.Name)
	assert.Equal(t, 13, byNumber[1].Room.Capacity)
	assert.Equal(t, []api.EquipmentDTO{{Name: "ecran"}, {Name: "pieuvre"}, {Name: "webcam"}}, byNumber[1].Room.Equipments)
	assert.NotContains(t, byNumber, 3)
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestMux(t)

	assert.Equal(t, http.StatusMethodNotAllowed, serve(mux, http.MethodDelete, "/api/v1/reservations", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(mux, http.MethodPost, "/api/v2/reservations", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(mux, http.MethodPost, "/api/rooms", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, http.MethodGet, "/api/rooms/E1001", "").Code)
}

func TestListRooms(t *testing.T) {
	mux := newTestMux(t)

	rr := serve(mux, http.MethodGet, "/api/rooms", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var rooms []api.RoomDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rooms))
	require.Len(t, rooms, 12)

	assert.Equal(t, "E1001", rooms[0].Name)
	assert.Equal(t, 23, rooms[0].Capacity)
	assert.NotNil(t, rooms[0].Equipments)
	assert.Empty(t, rooms[0].Equipments)

	assert.Equal(t, api.RoomDTO{
		Name:       "E3001",
		Capacity:   13,
		Equipments: []api.EquipmentDTO{{Name: "ecran"}, {Name: "pieuvre"}, {Name: "webcam"}},
	}, rooms[8])
}

func TestAvailableRooms(t *testing.T) {
	mux := newTestMux(t)

	t.Run("presentation", func(t *testing.T) {
		rr := serve(mux, http.MethodGet, "/api/rooms/available?attendees=5&type=SPEC&date=2024-05-27&time=14:00", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{
			"rooms": [{"name": "E2004", "maxCapacity": 9, "equipments": [{"name": "tableau"}]}],
			"best": {"name": "E2004", "maxCapacity": 9, "equipments": [{"name": "tableau"}]}
		}`, rr.Body.String())
	})

	t.Run("best fit first", func(t *testing.T) {
		rr := serve(mux, http.MethodGet, "/api/rooms/available?attendees=2&type=RS&date=2024-05-27&time=09:00", "")
		require.Equal(t, http.StatusOK, rr.Code)

		var response api.AvailableRoomsDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		require.Len(t, response.Rooms, 12)
		require.NotNil(t, response.Best)
		assert.Equal(t, "E1001", response.Best.Name)
		assert.Equal(t, response.Best.Name, response.Rooms[0].Name)
		for _, room := range response.Rooms[:5] {
			assert.Empty(t, room.Equipments, room.Name)
		}
	})

	t.Run("no room", func(t *testing.T) {
		rr := serve(mux, http.MethodGet, "/api/rooms/available?attendees=3&type=RC&date=2024-05-27&time=09:00", "")
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"rooms": [], "best": null}`, rr.Body.String())
	})

	t.Run("invalid query", func(t *testing.T) {
		for _, query := range []string{
			"type=RS&date=2024-05-27&time=09:00",
			"attendees=-1&type=RS&date=2024-05-27&time=09:00",
			"attendees=2&type=XX&date=2024-05-27&time=09:00",
			"attendees=2&type=RS&date=tomorrow&time=09:00",
			"attendees=2&type=RS&date=2024-05-27",
		} {
			rr := serve(mux, http.MethodGet, "/api/rooms/available?"+query, "")
			assert.Equal(t, http.StatusBadRequest, rr.Code, query)
		}
	})
}

func TestAvailableRoomsSingleSnapshot(t *testing.T) {
	req := allocation.Request{
		Attendees: 3,
		Type:      models.MeetingTypeRS,
		Date:      models.NewDate(2024, time.May, 27),
		Start:     models.NewTimeOfDay(9, 0),
	}
	svc := new(MockServicer)
	svc.On("AvailableRooms", mock.Anything, req).Return([]*models.Room{
		{Name: "E1002", MaxCapacity: 10, Equipment: models.NewEquipmentSet(models.EquipmentScreen)},
		{Name: "E3002", MaxCapacity: 8},
		{Name: "E2003", MaxCapacity: 7},
	}, nil).Once()

	rr := serve(api.SetupRoutes(svc, nil), http.MethodGet, "/api/rooms/available?attendees=3&type=RS&date=2024-05-27&time=09:00", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var response api.AvailableRoomsDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))

	names := make([]string, 0, len(response.Rooms))
	for _, room := range response.Rooms {
		names = append(names, room.Name)
	}
	assert.Equal(t, []string{"E2003", "E3002", "E1002"}, names)
	require.NotNil(t, response.Best)
	assert.Equal(t, response.Rooms[0], *response.Best)

	// Best is taken from the same listing, there is no second lookup
	svc.AssertExpectations(t)
	svc.AssertNumberOfCalls(t, "AvailableRooms", 1)
}

func TestReservationRoomFallback(t *testing.T) {
	svc := new(MockServicer)
	svc.On("ListReservations", mock.Anything).Return([]*models.Reservation{{
		ID:        "res-1",
		Date:      models.NewDate(2024, time.May, 27),
		Start:     models.NewTimeOfDay(9, 0),
		Type:      models.MeetingTypeRS,
		Attendees: 2,
		RoomName:  "E1001",
	}}, nil)
	svc.On("ListRooms", mock.Anything).Return(nil, errors.New("boom"))

	rr := serve(api.SetupRoutes(svc, nil), http.MethodGet, "/api/v1/reservations", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{
		"id": "res-1",
		"date": "27/05/2024",
		"startTime": "09:00",
		"endTime": "10:00",
		"type": "RS",
		"attendees": 2,
		"room": {"name": "E1001", "maxCapacity": 0, "equipments": []}
	}]`, rr.Body.String())
	svc.AssertExpectations(t)
}

func TestServiceFailures(t *testing.T) {
	boom := errors.New("boom")
	svc := new(MockServicer)
	svc.On("Book", mock.Anything, mock.AnythingOfType("service.BookingRequest")).Return(nil, boom)
	svc.On("ListReservations", mock.Anything).Return(nil, boom)
	svc.On("PlanNextMonday", mock.Anything, mock.Anything).Return(nil, boom)
	svc.On("ListRooms", mock.Anything).Return(nil, boom)
	svc.On("AvailableRooms", mock.Anything, mock.AnythingOfType("allocation.Request")).Return(nil, boom)

	mux := api.SetupRoutes(svc, nil)

	assert.Equal(t, http.StatusInternalServerError, serve(mux, http.MethodPost, "/api/v1/reservations",
		`{"attendees": 4, "type": "RS", "date": "2024-05-27", "startTime": "09:00"}`).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(mux, http.MethodGet, "/api/v1/reservations", "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(mux, http.MethodGet, "/api/v2/reservations", "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(mux, http.MethodGet, "/api/rooms", "").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(mux, http.MethodGet,
		"/api/rooms/available?attendees=2&type=RS&date=2024-05-27&time=09:00", "").Code)

	svc.AssertExpectations(t)
}
