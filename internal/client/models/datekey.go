package models

import (
	"fmt"
	"time"
)

// DateKey is a diary's creation timestamp truncated to a calendar day in
// the viewer's location, e.g. "2024-05-01". The empty key means "no filter".
type DateKey string

const dateKeyLayout = "2006-01-02"

// DateKeyOf truncates t to a calendar day in loc. A nil loc means the
// process-local zone.
func DateKeyOf(t time.Time, loc *time.Location) DateKey {
	if loc == nil {
		loc = time.Local
	}
	return DateKey(t.In(loc).Format(dateKeyLayout))
}

// ParseDateKey validates user-supplied input against the key layout.
func ParseDateKey(s string) (DateKey, error) {
	if _, err := time.Parse(dateKeyLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", s, err)
	}
	return DateKey(s), nil
}
