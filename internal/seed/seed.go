// Package seed loads the room inventory and the planning sheet used to
// bootstrap the application
package seed

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/navikt/meetingplanner/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.json
var defaults embed.FS

// Format is the encoding of a seed file
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFor picks the format from a file extension
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// RoomRecord is one entry of the room inventory
type RoomRecord struct {
	Name       string   `json:"name" yaml:"name"`
	Capacity   int      `json:"capacity" yaml:"capacity"`
	Equipments []string `json:"equipments" yaml:"equipments"`
}

// MeetingRecord is one entry of the planning sheet
type MeetingRecord struct {
	Meeting   int    `json:"meeting" yaml:"meeting"`
	Time      string `json:"time" yaml:"time"`
	Type      string `json:"type" yaml:"type"`
	Attendees int    `json:"attendees" yaml:"attendees"`
}

// PlannedMeeting is a planning sheet entry ready to be booked
type PlannedMeeting struct {
	Number    int
	Start     models.TimeOfDay
	Type      models.MeetingType
	Attendees int
}

func decode(data []byte, format Format, v interface{}) error {
	if format == FormatYAML {
		return yaml.Unmarshal(data, v)
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	return decoder.Decode(v)
}

// ParseRooms decodes a room inventory. Equipment names are matched against
// the known equipment ignoring case; unknown names are skipped.
func ParseRooms(data []byte, format Format) ([]*models.Room, error) {
	var records []RoomRecord
	if err := decode(data, format, &records); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}

	rooms := make([]*models.Room, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, record := range records {
		if record.Name == "" {
			return nil, fmt.Errorf("room %d has no name", i)
		}
		if record.Capacity <= 0 {
			return nil, fmt.Errorf("room %s has invalid capacity %d", record.Name, record.Capacity)
		}
		if _, dup := seen[record.Name]; dup {
			return nil, fmt.Errorf("room %s is declared twice", record.Name)
		}
		seen[record.Name] = struct{}{}

		equipment := make([]models.Equipment, 0, len(record.Equipments))
		for _, name := range record.Equipments {
			item, err := models.ParseEquipment(name)
			if err != nil {
				log.Printf("Ignoring unknown equipment %q for room %s", name, record.Name)
				continue
			}
			equipment = append(equipment, item)
		}

		rooms = append(rooms, &models.Room{
			Name:        record.Name,
			MaxCapacity: record.Capacity,
			Equipment:   models.NewEquipmentSet(equipment...),
		})
	}

	return rooms, nil
}

// ParseMeetings decodes a planning sheet
func ParseMeetings(data []byte, format Format) ([]PlannedMeeting, error) {
	var records []MeetingRecord
	if err := decode(data, format, &records); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}

	meetings := make([]PlannedMeeting, 0, len(records))
	for _, record := range records {
		start, err := models.ParseTimeOfDay(record.Time)
		if err != nil {
			return nil, fmt.Errorf("meeting %d: %w", record.Meeting, err)
		}

		// Unknown types are kept and simply require no equipment
		meetingType, _ := models.ParseMeetingType(record.Type)

		meetings = append(meetings, PlannedMeeting{
			Number:    record.Meeting,
			Start:     start,
			Type:      meetingType,
			Attendees: record.Attendees,
		})
	}

	return meetings, nil
}

// LoadRooms reads the room inventory from path, or the embedded default when path is empty
func LoadRooms(path string) ([]*models.Room, error) {
	data, format, err := read(path, "data/rooms.json")
	if err != nil {
		return nil, err
	}
	return ParseRooms(data, format)
}

// LoadMeetings reads the planning sheet from path, or the embedded default when path is empty
func LoadMeetings(path string) ([]PlannedMeeting, error) {
	data, format, err := read(path, "data/meetings.json")
	if err != nil {
		return nil, err
	}
	return ParseMeetings(data, format)
}

func read(path, fallback string) ([]byte, Format, error) {
	if path == "" {
		data, err := defaults.ReadFile(fallback)
		if err != nil {
			return nil, FormatJSON, fmt.Errorf("failed to read embedded %s: %w", fallback, err)
		}
		return data, FormatJSON, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FormatJSON, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, FormatFor(path), nil
}

// RoomSaver is the part of the repository needed to provision rooms
type RoomSaver interface {
	SaveRoom(ctx context.Context, room *models.Room) error
}

// Bootstrap saves every room to the repository
func Bootstrap(ctx context.Context, repo RoomSaver, rooms []*models.Room) error {
	for _, room := range rooms {
		if err := repo.SaveRoom(ctx, room); err != nil {
			return fmt.Errorf("failed to provision room %s: %w", room.Name, err)
		}
	}
	log.Printf("Provisioned %d rooms", len(rooms))
	return nil
}
