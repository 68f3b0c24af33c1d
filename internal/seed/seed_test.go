package seed_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/navikt/meetingplanner/internal/models"
	"github.com/navikt/meetingplanner/internal/repository/memory"
	"github.com/navikt/meetingplanner/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultRooms(t *testing.T) {
	rooms, err := seed.LoadRooms("")
	require.NoError(t, err)
	require.Len(t, rooms, 12)

	assert.Equal(t, "E1001", rooms[0].Name)
	assert.Equal(t, 23, rooms[0].MaxCapacity)
	assert.Equal(t, 0, rooms[0].Equipment.Len())

	assert.Equal(t, "E3001", rooms[8].Name)
	assert.Equal(t, []string{"ecran", "pieuvre", "webcam"}, rooms[8].Equipment.Names())
}

func TestLoadDefaultMeetings(t *testing.T) {
	meetings, err := seed.LoadMeetings("")
	require.NoError(t, err)
	require.Len(t, meetings, 20)

	assert.Equal(t, 1, meetings[0].Number)
	assert.Equal(t, models.NewTimeOfDay(9, 0), meetings[0].Start)
	assert.Equal(t, models.MeetingTypeVC, meetings[0].Type)
	assert.Equal(t, 8, meetings[0].Attendees)
}

func TestParseRooms(t *testing.T) {
	t.Run("equipment is case insensitive and unknown items are skipped", func(t *testing.T) {
		data := `[{"name": "A", "capacity": 5, "equipments": ["WEBCAM", "Hologram", "webcam"]}]`
		rooms, err := seed.ParseRooms([]byte(data), seed.FormatJSON)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, []string{"webcam"}, rooms[0].Equipment.Names())
	})

	t.Run("missing equipment list", func(t *testing.T) {
		rooms, err := seed.ParseRooms([]byte(`[{"name": "A", "capacity": 5}]`), seed.FormatJSON)
		require.NoError(t, err)
		assert.Equal(t, 0, rooms[0].Equipment.Len())
	})

	t.Run("yaml", func(t *testing.T) {
		data := "- name: B\n  capacity: 9\n  equipments: [Tableau]\n"
		rooms, err := seed.ParseRooms([]byte(data), seed.FormatYAML)
		require.NoError(t, err)
		require.Len(t, rooms, 1)
		assert.Equal(t, "B", rooms[0].Name)
		assert.True(t, rooms[0].Equipment.Contains(models.EquipmentBoard))
	})

	invalid := map[string]string{
		"malformed":        `{`,
		"no name":          `[{"capacity": 5}]`,
		"invalid capacity": `[{"name": "A", "capacity": 0}]`,
		"duplicate":        `[{"name": "A", "capacity": 5}, {"name": "A", "capacity": 6}]`,
	}
	for name, data := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := seed.ParseRooms([]byte(data), seed.FormatJSON)
			assert.Error(t, err)
		})
	}
}

func TestParseMeetings(t *testing.T) {
	data := "- meeting: 1\n  time: \"10:00\"\n  type: vc\n  attendees: 3\n- meeting: 2\n  time: \"11:00\"\n  type: XX\n  attendees: 1\n"
	meetings, err := seed.ParseMeetings([]byte(data), seed.FormatYAML)
	require.NoError(t, err)
	require.Len(t, meetings, 2)
	assert.Equal(t, models.MeetingTypeVC, meetings[0].Type)
	assert.Equal(t, models.MeetingTypeUnknown, meetings[1].Type)

	_, err = seed.ParseMeetings([]byte(`[{"meeting": 1, "time": "noon"}]`), seed.FormatJSON)
	assert.Error(t, err)
}

func TestLoadRoomsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rooms.yml")
	require.NoError(t, os.WriteFile(path, []byte("- name: C\n  capacity: 3\n"), 0o600))

	rooms, err := seed.LoadRooms(path)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "C", rooms[0].Name)

	_, err = seed.LoadRooms(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, seed.FormatYAML, seed.FormatFor("rooms.YAML"))
	assert.Equal(t, seed.FormatYAML, seed.FormatFor("rooms.yml"))
	assert.Equal(t, seed.FormatJSON, seed.FormatFor("rooms.json"))
	assert.Equal(t, seed.FormatJSON, seed.FormatFor("rooms"))
}

type failingSaver struct{}

func (failingSaver) SaveRoom(ctx context.Context, room *models.Room) error {
	return errors.New("boom")
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	rooms, err := seed.LoadRooms("")
	require.NoError(t, err)

	repo := memory.NewRepository()
	require.NoError(t, seed.Bootstrap(ctx, repo, rooms))

	stored, err := repo.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 12)

	assert.Error(t, seed.Bootstrap(ctx, failingSaver{}, rooms))
}
