package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Equipment is a piece of equipment a meeting room can be fitted with
type Equipment string

const (
	EquipmentScreen  Equipment = "ecran"
	EquipmentWebcam  Equipment = "webcam"
	EquipmentBoard   Equipment = "tableau"
	EquipmentOctopus Equipment = "pieuvre"
)

// KnownEquipment lists every equipment item that can be provisioned in a room
var KnownEquipment = []Equipment{
	EquipmentScreen,
	EquipmentWebcam,
	EquipmentBoard,
	EquipmentOctopus,
}

// ParseEquipment parses an equipment name, ignoring case and surrounding spaces
func ParseEquipment(name string) (Equipment, error) {
	candidate := Equipment(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range KnownEquipment {
		if candidate == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown equipment %q", name)
}

// EquipmentSet holds the equipment of a room with set semantics
type EquipmentSet map[Equipment]struct{}

// NewEquipmentSet creates a set from the given items, dropping duplicates
func NewEquipmentSet(items ...Equipment) EquipmentSet {
	set := make(EquipmentSet, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given item
func (s EquipmentSet) Contains(item Equipment) bool {
	_, ok := s[item]
	return ok
}

// ContainsAll reports whether s is a superset of required
func (s EquipmentSet) ContainsAll(required EquipmentSet) bool {
	for item := range required {
		if !s.Contains(item) {
			return false
		}
	}
	return true
}

// Len returns the number of distinct items in the set
func (s EquipmentSet) Len() int {
	return len(s)
}

// Items returns the set content sorted by name
func (s EquipmentSet) Items() []Equipment {
	items := make([]Equipment, 0, len(s))
	for item := range s {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items
}

// Names returns the equipment names sorted alphabetically
func (s EquipmentSet) Names() []string {
	names := make([]string, 0, len(s))
	for _, item := range s.Items() {
		names = append(names, string(item))
	}
	return names
}

// Clone returns an independent copy of the set
func (s EquipmentSet) Clone() EquipmentSet {
	return NewEquipmentSet(s.Items()...)
}

// MarshalJSON encodes the set as a sorted array of names
func (s EquipmentSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes an array of names into the set. Names outside the
// catalogue are ignored, as they are when rooms are seeded.
func (s *EquipmentSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	set := make(EquipmentSet, len(names))
	for _, name := range names {
		item, err := ParseEquipment(name)
		if err != nil {
			continue
		}
		set[item] = struct{}{}
	}
	*s = set
	return nil
}
