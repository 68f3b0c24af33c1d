package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/navikt/meetingplanner/internal/models"
)

const (
	// FirstBookableHour and LastBookableHour bound the start of a bookable meeting
	FirstBookableHour = 8
	LastBookableHour  = 20
)

// BookingRequest is a request for a new reservation as received from a caller
type BookingRequest struct {
	Attendees  int
	Type       string
	Date       models.Date
	Start      models.TimeOfDay
	ReservedBy string
}

// ValidationError describes why a booking request was rejected
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is or wraps a ValidationError
func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks a booking request against the calendar rules of the
// booking desk and returns the parsed meeting type. now must be expressed in
// the location the requested date and time refer to.
func Validate(req BookingRequest, now time.Time) (models.MeetingType, error) {
	meetingType, err := models.ParseMeetingType(req.Type)
	if err != nil {
		return models.MeetingTypeUnknown, invalid("type", "meeting type must be one of VC, SPEC, RC, RS")
	}

	if req.Attendees <= 0 {
		return meetingType, invalid("attendees", "at least one attendee is required")
	}

	if req.Date.IsZero() {
		return meetingType, invalid("date", "date is required")
	}

	if !isAfter(req.Date, req.Start, now) {
		return meetingType, invalid("date", "the meeting must start after the current date and time")
	}

	if weekday := req.Date.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
		return meetingType, invalid("date", "meetings cannot be booked on weekends")
	}

	if req.Start.Minute() != 0 {
		return meetingType, invalid("startTime", "meetings must start on a full hour")
	}

	if hour := req.Start.Hour(); hour < FirstBookableHour || hour > LastBookableHour {
		return meetingType, invalid("startTime", "meetings can only start between %02d:00 and %02d:00", FirstBookableHour, LastBookableHour)
	}

	return meetingType, nil
}

// isAfter reports whether the slot lies strictly after now
func isAfter(date models.Date, start models.TimeOfDay, now time.Time) bool {
	today := models.DateOf(now)
	if date != today {
		return date.After(today)
	}
	// now is truncated to the minute, so a slot starting in the current minute is past
	return start > models.TimeOfDayOf(now)
}
