package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Time is a time of day. DisplayTime is a precomputed label; comparisons must go through
// MinuteOfDay.
type Time struct {
	Hours       int    `json:"hours"`
	Minutes     int    `json:"minutes"`
	DisplayTime string `json:"displayTime"`
}

// NewTime builds a Time with its 12 hour display label.
func NewTime(hours, minutes int) Time {
	return Time{Hours: hours, Minutes: minutes, DisplayTime: FormatClock(hours, minutes)}
}

// ParseClock parses a 24 hour "HH:MM" feed value. Blank and "TBA" values become midnight
// labelled "TBD".
func ParseClock(raw string) (Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "TBA") {
		return Time{DisplayTime: "TBD"}, nil
	}
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return Time{}, fmt.Errorf("invalid clock value %q", raw)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Time{}, fmt.Errorf("invalid hours in %q: %w", raw, err)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Time{}, fmt.Errorf("invalid minutes in %q: %w", raw, err)
	}
	t := NewTime(hours, minutes)
	if !t.Valid() {
		return Time{}, fmt.Errorf("clock value %q out of range", raw)
	}
	return t, nil
}

// FormatClock renders hours and minutes as "h:MM AM".
func FormatClock(hours, minutes int) string {
	suffix := "AM"
	if hours >= 12 {
		suffix = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minutes, suffix)
}

// MinuteOfDay returns minutes since midnight.
func (t Time) MinuteOfDay() int {
	return t.Hours*60 + t.Minutes
}

// Valid reports whether the fields are within a 24 hour clock.
func (t Time) Valid() bool {
	return t.Hours >= 0 && t.Hours <= 23 && t.Minutes >= 0 && t.Minutes <= 59
}

// Before reports whether t is strictly earlier than other.
func (t Time) Before(other Time) bool {
	return t.MinuteOfDay() < other.MinuteOfDay()
}

// After reports whether t is strictly later than other.
func (t Time) After(other Time) bool {
	return t.MinuteOfDay() > other.MinuteOfDay()
}

// Equal compares clock positions, ignoring the display label.
func (t Time) Equal(other Time) bool {
	return t.MinuteOfDay() == other.MinuteOfDay()
}

// Label returns DisplayTime, or a freshly formatted label when the feed left it blank.
func (t Time) Label() string {
	if t.DisplayTime != "" {
		return t.DisplayTime
	}
	return FormatClock(t.Hours, t.Minutes)
}
