// internal/httpx/datetime.go
package httpx

import (
	"bytes"
	"fmt"
	"time"
)

// DateTimeLayout is the wire format of local date-times.
const DateTimeLayout = "2006-01-02T15:04:05"

// DateTime is a naive local date-time on the wire, kept as a wall clock
// reading in UTC. Fractional seconds are accepted. A zone suffix such as Z or
// +02:00 is rejected.
type DateTime time.Time

func (d DateTime) Time() time.Time { return time.Time(d) }

func (d DateTime) IsZero() bool { return time.Time(d).IsZero() }

func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(d).Format(DateTimeLayout) + `"`), nil
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = DateTime{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date-time must be a string, got %s", data)
	}
	t, err := ParseDateTime(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = DateTime(t)
	return nil
}

// ParseDateTime parses the wire format.
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date-time %q: %w", s, err)
	}
	return t, nil
}

// NewDateTime wraps t, or returns nil for the zero time.
func NewDateTime(t time.Time) *DateTime {
	if t.IsZero() {
		return nil
	}
	d := DateTime(t)
	return &d
}
