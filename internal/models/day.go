package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DayOfWeek is a meeting day code as used by the catalog feed.
type DayOfWeek string

const (
	Monday    DayOfWeek = "mon"
	Tuesday   DayOfWeek = "tue"
	Wednesday DayOfWeek = "wed"
	Thursday  DayOfWeek = "thu"
	Friday    DayOfWeek = "fri"
	Saturday  DayOfWeek = "sat"
	Sunday    DayOfWeek = "sun"
)

// Week lists every day in calendar order starting on Monday.
var Week = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = map[DayOfWeek]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// ParseDay accepts day codes or full names in any case.
func ParseDay(raw string) (DayOfWeek, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if len(value) >= 3 {
		value = value[:3]
	}
	day := DayOfWeek(value)
	if _, ok := dayNames[day]; !ok {
		return "", false
	}
	return day, true
}

// FullName returns the English day name, or the raw code when unknown.
func (d DayOfWeek) FullName() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return string(d)
}

func (d DayOfWeek) bit() DaySet {
	for i, day := range Week {
		if day == d {
			return 1 << uint(i)
		}
	}
	return 0
}

// DaySet is an unordered set of meeting days.
type DaySet uint8

// NewDaySet builds a set from the given days. Unknown codes are ignored.
func NewDaySet(days ...DayOfWeek) DaySet {
	var set DaySet
	for _, day := range days {
		set = set.With(day)
	}
	return set
}

// With returns a copy of the set including day.
func (s DaySet) With(day DayOfWeek) DaySet {
	return s | day.bit()
}

// Has reports membership.
func (s DaySet) Has(day DayOfWeek) bool {
	bit := day.bit()
	return bit != 0 && s&bit != 0
}

// Len returns the number of days in the set.
func (s DaySet) Len() int {
	count := 0
	for v := s; v != 0; v &= v - 1 {
		count++
	}
	return count
}

// IsEmpty reports whether no day is set.
func (s DaySet) IsEmpty() bool {
	return s == 0
}

// Intersect returns the days present in both sets.
func (s DaySet) Intersect(other DaySet) DaySet {
	return s & other
}

// Days lists members in calendar order.
func (s DaySet) Days() []DayOfWeek {
	days := make([]DayOfWeek, 0, s.Len())
	for _, day := range Week {
		if s.Has(day) {
			days = append(days, day)
		}
	}
	return days
}

// String joins the day codes with ", ".
func (s DaySet) String() string {
	codes := make([]string, 0, s.Len())
	for _, day := range s.Days() {
		codes = append(codes, string(day))
	}
	return strings.Join(codes, ", ")
}

// MarshalJSON encodes the set as an array of day codes.
func (s DaySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Days())
}

// UnmarshalJSON decodes an array of day codes. Duplicates collapse.
func (s *DaySet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode day set: %w", err)
	}
	var set DaySet
	for _, value := range raw {
		day, ok := ParseDay(value)
		if !ok {
			return fmt.Errorf("unknown day %q", value)
		}
		set = set.With(day)
	}
	*s = set
	return nil
}
