package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MeetingType is the kind of meeting a reservation is made for
type MeetingType int

const (
	MeetingTypeUnknown MeetingType = iota
	MeetingTypeVC                  // visioconference
	MeetingTypeSPEC                // presentation
	MeetingTypeRC                  // shared meeting
	MeetingTypeRS                  // simple meeting
)

var meetingTypeCodes = [...]string{"", "VC", "SPEC", "RC", "RS"}

// MeetingTypes lists every bookable meeting type
var MeetingTypes = []MeetingType{MeetingTypeVC, MeetingTypeSPEC, MeetingTypeRC, MeetingTypeRS}

// ParseMeetingType parses a meeting type code, ignoring case
func ParseMeetingType(code string) (MeetingType, error) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	for _, t := range MeetingTypes {
		if meetingTypeCodes[t] == upper {
			return t, nil
		}
	}
	return MeetingTypeUnknown, fmt.Errorf("unknown meeting type %q", code)
}

// String returns the meeting type code
func (t MeetingType) String() string {
	if t < 0 || int(t) >= len(meetingTypeCodes) {
		return ""
	}
	return meetingTypeCodes[t]
}

// IsKnown reports whether t is one of the bookable meeting types
func (t MeetingType) IsKnown() bool {
	return t > MeetingTypeUnknown && int(t) < len(meetingTypeCodes)
}

// RequiredEquipment returns the equipment a room needs to host this kind of meeting.
// Unknown types require nothing.
func (t MeetingType) RequiredEquipment() EquipmentSet {
	switch t {
	case MeetingTypeVC:
		return NewEquipmentSet(EquipmentScreen, EquipmentOctopus, EquipmentWebcam)
	case MeetingTypeSPEC:
		return NewEquipmentSet(EquipmentBoard)
	case MeetingTypeRC:
		return NewEquipmentSet(EquipmentBoard, EquipmentScreen, EquipmentOctopus)
	default:
		return NewEquipmentSet()
	}
}

// MarshalJSON encodes the meeting type as its code
func (t MeetingType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a meeting type code. Unrecognised codes decode to
// MeetingTypeUnknown so stored legacy values stay readable.
func (t *MeetingType) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	parsed, err := ParseMeetingType(code)
	if err != nil {
		*t = MeetingTypeUnknown
		return nil
	}
	*t = parsed
	return nil
}
