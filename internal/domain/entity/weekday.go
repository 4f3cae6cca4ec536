package entity

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Weekday is a three-letter day tag as providers declare them: Mon, Tue, ... Sun.
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// weekdayOrder lists tags Monday first; WeekdaySet bits follow this order.
var weekdayOrder = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var ErrUnknownWeekday = errors.New("unknown weekday")

// ParseWeekday accepts a three-letter tag, case-insensitive and trimmed.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, d := range weekdayOrder {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// WeekdayOf maps a calendar date to its tag.
func WeekdayOf(date time.Time) Weekday {
	// time.Weekday starts at Sunday = 0
	return weekdayOrder[(int(date.Weekday())+6)%7]
}

func (d Weekday) index() int {
	for i, w := range weekdayOrder {
		if w == d {
			return i
		}
	}
	return -1
}

// WeekdaySet is a membership-only set of working days.
// It is stored as a comma separated list ("Mon,Tue,Wed").
type WeekdaySet uint8

// NewWeekdaySet builds a set from tags. Unknown tags are ignored.
func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		if i := d.index(); i >= 0 {
			s |= 1 << uint(i)
		}
	}
	return s
}

// ParseWeekdaySet parses a comma separated list. Empty input is an empty set.
func ParseWeekdaySet(raw string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseWeekday(part)
		if err != nil {
			return 0, err
		}
		s |= NewWeekdaySet(d)
	}
	return s, nil
}

func (s WeekdaySet) Contains(d Weekday) bool {
	i := d.index()
	return i >= 0 && s&(1<<uint(i)) != 0
}

func (s WeekdaySet) IsEmpty() bool {
	return s == 0
}

// Days returns the members Monday first.
func (s WeekdaySet) Days() []Weekday {
	days := make([]Weekday, 0, 7)
	for _, d := range weekdayOrder {
		if s.Contains(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekdaySet) String() string {
	days := s.Days()
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

// Value implements driver.Valuer
func (s WeekdaySet) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner
func (s *WeekdaySet) Scan(value interface{}) error {
	if value == nil {
		*s = 0
		return nil
	}
	var raw string
	switch v := value.(type) {
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("failed to scan weekday set: %v", value)
	}
	parsed, err := ParseWeekdaySet(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
