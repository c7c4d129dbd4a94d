package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// localLayouts are the zone-less date-time forms the backend emits for LocalDateTime fields.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Time is a JSON timestamp tolerant of both RFC 3339 and zone-less ISO-8601 values.
// Zone-less values are interpreted in the local time zone.
type Time struct {
	time.Time
}

// NewTime wraps t.
func NewTime(t time.Time) *Time {
	return &Time{Time: t}
}

// ParseTime parses a timestamp in any of the accepted forms.
func ParseTime(s string) (Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Time{Time: t}, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Time{Time: t}, nil
		}
	}
	return Time{}, fmt.Errorf("%w: unrecognized timestamp %q", ErrInvalidArgument, s)
}

// MarshalJSON emits RFC 3339.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts null, empty strings and the layouts listed in ParseTime.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Time{}
		return nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// LocalLayout is the zone-less form the backend accepts for LocalDateTime fields.
const LocalLayout = "2006-01-02T15:04:05"

// LocalTime is a timestamp sent to the backend. It is written as a zone-less
// local date-time and only decodes from that form; offsets are rejected.
type LocalTime struct {
	time.Time
}

// NewLocalTime wraps t.
func NewLocalTime(t time.Time) *LocalTime {
	return &LocalTime{Time: t}
}

// ParseLocalTime parses a zone-less date-time in the local time zone.
func ParseLocalTime(s string) (LocalTime, error) {
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return LocalTime{Time: t}, nil
		}
	}
	return LocalTime{}, fmt.Errorf("%w: %q is not a local date-time", ErrInvalidArgument, s)
}

// AsTime converts to the response timestamp type. Nil stays nil.
func (t *LocalTime) AsTime() *Time {
	if t == nil {
		return nil
	}
	return &Time{Time: t.Time}
}

// MarshalJSON emits the wall-clock time in time.Local without an offset.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.In(time.Local).Format(LocalLayout))
}

// UnmarshalJSON accepts null and zone-less date-times only.
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = LocalTime{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
