package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// FormatLabel renders a minute-of-day offset as a zero-padded HH:MM label.
func FormatLabel(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// LabelOf returns the HH:MM label of t in its own location.
func LabelOf(t time.Time) string {
	return FormatLabel(t.Hour()*60 + t.Minute())
}

// ParseLabel parses an "H:MM" or "HH:MM" label into minutes since midnight.
func ParseLabel(label string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(label), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time label %q", label)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in time label %q", label)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid minutes in time label %q", label)
	}
	return h*60 + m, nil
}

// NormalizeLabel turns "9:00" into "09:00".
func NormalizeLabel(label string) (string, error) {
	minutes, err := ParseLabel(label)
	if err != nil {
		return "", err
	}
	return FormatLabel(minutes), nil
}

func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// DayBounds returns the [start, end) instants of the calendar day date in loc.
func DayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return start, start.AddDate(0, 0, 1), nil
}

// SlotStart returns the instant the label reads on the wall clock of date
// in loc, which differs from midnight plus elapsed minutes on DST days.
func SlotStart(date, label string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	minutes, err := ParseLabel(label)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc), nil
}
