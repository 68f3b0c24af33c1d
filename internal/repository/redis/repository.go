// Package redis provides a Redis/Valkey implementation of the repository interface
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/navikt/meetingplanner/internal/config"
	"github.com/navikt/meetingplanner/internal/models"
	"github.com/redis/go-redis/v9"
)

// Common errors
var (
	ErrNotFound = errors.New("entity not found")
)

// roomState is the internal model for storing a room's static data in Redis
type roomState struct {
	Name        string
	MaxCapacity int
	Equipment   []string
}

// Repository implements the repository interface with Redis storage
type Repository struct {
	client    *redis.Client
	keyPrefix string
	// ttl is how long a reservation is kept after it has ended (0 keeps it forever)
	ttl time.Duration
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		// Use DB from config if not specified in the URI
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}

		// Use password from config if not in URI
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.ReservationTTL,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// Ping checks the Redis connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// roomIndexKey returns the Redis key of the set holding every room name
func (r *Repository) roomIndexKey() string {
	return r.keyPrefix + "rooms"
}

// roomKey returns the Redis key for a room
func (r *Repository) roomKey(name string) string {
	return fmt.Sprintf("%srooms:%s", r.keyPrefix, name)
}

// reservationsKey returns the Redis key of the hash holding a room's reservations
func (r *Repository) reservationsKey(roomName string) string {
	return fmt.Sprintf("%srooms:%s:reservations", r.keyPrefix, roomName)
}

// SaveRoom saves a room's static data and registers it in the room index
func (r *Repository) SaveRoom(ctx context.Context, room *models.Room) error {
	state := roomState{
		Name:        room.Name,
		MaxCapacity: room.MaxCapacity,
		Equipment:   room.Equipment.Names(),
	}

	data, err := json.Marshal(&state)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.roomKey(room.Name), data, 0)
	pipe.SAdd(ctx, r.roomIndexKey(), room.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	return nil
}

// GetRoom retrieves a room by name together with its reservations
func (r *Repository) GetRoom(ctx context.Context, name string) (*models.Room, error) {
	data, err := r.client.Get(ctx, r.roomKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room, err := decodeRoom(data)
	if err != nil {
		return nil, err
	}

	reservations, err := r.roomReservations(ctx, name)
	if err != nil {
		return nil, err
	}
	room.Reservations = r.pruneExpired(ctx, name, reservations, time.Now())

	return room, nil
}

// ListRooms returns every room with its reservations, sorted by name
func (r *Repository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	names, err := r.client.SMembers(ctx, r.roomIndexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	if len(names) == 0 {
		return []*models.Room{}, nil
	}
	sort.Strings(names)

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = r.roomKey(name)
	}

	// Use MGET to retrieve all room data in a single roundtrip
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get room data: %w", err)
	}

	// Fetch every reservation hash in one pipeline
	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringSliceCmd, len(names))
	for i, name := range names {
		cmds[i] = pipe.HVals(ctx, r.reservationsKey(name))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get reservations: %w", err)
	}

	now := time.Now()
	rooms := make([]*models.Room, 0, len(values))
	for i, v := range values {
		strData, ok := v.(string)
		if !ok {
			log.Printf("Room %s is indexed but has no data, skipping", names[i])
			continue
		}

		room, err := decodeRoom([]byte(strData))
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", names[i], err)
		}

		reservations, err := decodeReservations(cmds[i].Val())
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", names[i], err)
		}
		room.Reservations = r.pruneExpired(ctx, names[i], reservations, now)

		rooms = append(rooms, room)
	}

	return rooms, nil
}

// SaveReservation stores a reservation in its room's reservation hash
func (r *Repository) SaveReservation(ctx context.Context, reservation *models.Reservation) error {
	exists, err := r.client.Exists(ctx, r.roomKey(reservation.RoomName)).Result()
	if err != nil {
		return fmt.Errorf("failed to check if room exists: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	data, err := json.Marshal(reservation)
	if err != nil {
		return fmt.Errorf("failed to marshal reservation: %w", err)
	}

	key := r.reservationsKey(reservation.RoomName)
	if err := r.client.HSet(ctx, key, reservation.ID, data).Err(); err != nil {
		return fmt.Errorf("failed to save reservation: %w", err)
	}

	return nil
}

// expired reports whether a reservation ended more than the retention period
// before now. Reservation wall-clock times are read as UTC.
func (r *Repository) expired(reservation models.Reservation, now time.Time) bool {
	if r.ttl <= 0 {
		return false
	}
	end := reservation.End().On(reservation.Date, time.UTC)
	return now.After(end.Add(r.ttl))
}

// pruneExpired returns the reservations still within retention and removes
// the others from the room's reservation hash. Upcoming reservations are
// never removed.
func (r *Repository) pruneExpired(ctx context.Context, roomName string, reservations []models.Reservation, now time.Time) []models.Reservation {
	if r.ttl <= 0 || len(reservations) == 0 {
		return reservations
	}

	kept := reservations[:0]
	var expiredIDs []string
	for _, reservation := range reservations {
		if r.expired(reservation, now) {
			expiredIDs = append(expiredIDs, reservation.ID)
			continue
		}
		kept = append(kept, reservation)
	}

	if len(expiredIDs) > 0 {
		if err := r.client.HDel(ctx, r.reservationsKey(roomName), expiredIDs...).Err(); err != nil {
			// The entries are filtered out anyway and will be retried on the next read
			log.Printf("Error removing %d expired reservations of room %s: %v", len(expiredIDs), roomName, err)
		}
	}

	if len(kept) == 0 {
		return nil
	}
	return kept
}

// ListReservations returns every reservation ordered by date, start time and room
func (r *Repository) ListReservations(ctx context.Context) ([]*models.Reservation, error) {
	rooms, err := r.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	reservations := make([]*models.Reservation, 0)
	for _, room := range rooms {
		for i := range room.Reservations {
			reservation := room.Reservations[i]
			reservations = append(reservations, &reservation)
		}
	}

	models.SortReservations(reservations)

	return reservations, nil
}

// roomReservations loads the reservations stored for a room
func (r *Repository) roomReservations(ctx context.Context, roomName string) ([]models.Reservation, error) {
	values, err := r.client.HVals(ctx, r.reservationsKey(roomName)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get reservations: %w", err)
	}
	return decodeReservations(values)
}

func decodeRoom(data []byte) (*models.Room, error) {
	var state roomState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	equipment := make([]models.Equipment, 0, len(state.Equipment))
	for _, name := range state.Equipment {
		item, err := models.ParseEquipment(name)
		if err != nil {
			continue
		}
		equipment = append(equipment, item)
	}

	return &models.Room{
		Name:        state.Name,
		MaxCapacity: state.MaxCapacity,
		Equipment:   models.NewEquipmentSet(equipment...),
	}, nil
}

func decodeReservations(values []string) ([]models.Reservation, error) {
	if len(values) == 0 {
		return nil, nil
	}

	reservations := make([]models.Reservation, 0, len(values))
	for _, v := range values {
		var reservation models.Reservation
		if err := json.Unmarshal([]byte(v), &reservation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reservation: %w", err)
		}
		reservations = append(reservations, reservation)
	}

	// Hash values come back in no particular order
	sort.Slice(reservations, func(i, j int) bool {
		if reservations[i].Date != reservations[j].Date {
			return reservations[i].Date.Before(reservations[j].Date)
		}
		return reservations[i].Start < reservations[j].Start
	})

	return reservations, nil
}
