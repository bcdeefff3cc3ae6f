package types

import (
	"fmt"
	"regexp"
	"strings"
)

// TimeSlot is a wall-clock reservation time in "HH:MM" form.
// Stored as text so slots compare and sort lexicographically.
type TimeSlot string

var timeSlotRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ParseTimeSlot validates and normalizes an "HH:MM" string.
// Single-digit hours are zero-padded ("9:30" -> "09:30").
func ParseTimeSlot(s string) (TimeSlot, error) {
	s = strings.TrimSpace(s)
	if h, m, ok := strings.Cut(s, ":"); ok && len(h) == 1 {
		s = "0" + h + ":" + m
	}
	if !timeSlotRe.MatchString(s) {
		return "", fmt.Errorf("invalid time slot %q, expected HH:MM", s)
	}
	return TimeSlot(s), nil
}

// String returns the slot in "HH:MM" form.
func (t TimeSlot) String() string { return string(t) }

// IsZero reports whether the slot is unset.
func (t TimeSlot) IsZero() bool { return t == "" }
