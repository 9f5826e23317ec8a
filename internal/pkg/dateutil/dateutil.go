package dateutil

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-day key format used across the
// attendance and deal domains. Keys are timezone-less: a key plus a
// location is always needed to recover an instant.
const DateLayout = "2006-01-02"

// ParseDateKey parses a YYYY-MM-DD key into a UTC midnight timestamp.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// DateKey formats a timestamp as a YYYY-MM-DD key in its own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// LocalDateKey returns the calendar-day key of an instant as observed in loc.
func LocalDateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// MondayOf returns the Monday of the ISO week containing t, at midnight
// in t's location.
func MondayOf(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -offset)
}

// IsMonday reports whether key parses to a Monday.
func IsMonday(key string) bool {
	t, err := ParseDateKey(key)
	if err != nil {
		return false
	}
	return t.Weekday() == time.Monday
}

// AddDays shifts a date key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return DateKey(t.AddDate(0, 0, n)), nil
}

// WeekdayKeys enumerates the five weekday keys (Mon..Fri) of the week
// anchored at weekStart. weekStart must be a Monday key.
func WeekdayKeys(weekStart string) ([5]string, error) {
	var days [5]string
	start, err := ParseDateKey(weekStart)
	if err != nil {
		return days, err
	}
	if start.Weekday() != time.Monday {
		return days, fmt.Errorf("week start %q is not a Monday", weekStart)
	}
	for i := 0; i < 5; i++ {
		days[i] = DateKey(start.AddDate(0, 0, i))
	}
	return days, nil
}

// WeekStarts returns n Monday keys ending at the week containing end,
// oldest first. end must be a Monday key.
func WeekStarts(end string, n int) ([]string, error) {
	anchor, err := ParseDateKey(end)
	if err != nil {
		return nil, err
	}
	if anchor.Weekday() != time.Monday {
		return nil, fmt.Errorf("week start %q is not a Monday", end)
	}
	starts := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		starts = append(starts, DateKey(anchor.AddDate(0, 0, -7*i)))
	}
	return starts, nil
}

// Weekday returns the weekday of a date key.
func Weekday(key string) (time.Weekday, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return 0, err
	}
	return t.Weekday(), nil
}
