package entity

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

var (
	ErrInvalidDate  = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidClock = errors.New("invalid time format, use HH:MM")
)

// ParseDate parses a YYYY-MM-DD calendar date. The result is midnight UTC;
// dates carry no zone and are read as the provider's local date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// ParseClock parses an HH:MM time of day.
func ParseClock(s string) (datatypes.Time, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return datatypes.NewTime(t.Hour(), t.Minute(), 0, 0), nil
}

// FormatClock renders a time of day as HH:MM.
func FormatClock(t datatypes.Time) string {
	d := time.Duration(t)
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

// FormatDate renders a stored date as YYYY-MM-DD.
func FormatDate(d datatypes.Date) string {
	return time.Time(d).Format(DateLayout)
}

// DateOf truncates a timestamp to its calendar date, keeping the wall clock date.
func DateOf(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
