package utils

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wire format for booking timestamps (no zone, server local time)
const DateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime marshals as "2006-01-02T15:04:05" and also accepts RFC3339 on input
type LocalDateTime struct {
	time.Time
}

func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime{Time: t}
}

func (d LocalDateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.In(time.Local).Format(DateTimeLayout) + `"`), nil
}

func (d *LocalDateTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return fmt.Errorf("empty date-time")
	}

	if t, err := time.ParseInLocation(DateTimeLayout, s, time.Local); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid date-time %q, expected %s", s, DateTimeLayout)
	}
	d.Time = t
	return nil
}
