// Package civil provides calendar types with no time-zone component: a clock
// time without a date, and helpers over date-only time.Time values. All dates
// in the system are civil dates on a single calendar; the database stores
// clock times as minutes since midnight.
package civil

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeOfDay is a clock time expressed as minutes since midnight, 0..1439.
type TimeOfDay int16

// NewTimeOfDay builds a TimeOfDay from an hour and minute.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return NewTimeOfDay(h, m), nil
}

// Hour returns the hour component, 0..23.
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component, 0..59.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Minutes returns the total minutes since midnight.
func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Sub returns the elapsed duration from u to t. Negative when t is earlier.
func (t TimeOfDay) Sub(u TimeOfDay) time.Duration {
	return time.Duration(int(t)-int(u)) * time.Minute
}

// MarshalJSON encodes the time as an "HH:MM" string.
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts an "HH:MM" string or null.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Elapsed returns the duration between two optional clock times. The second
// return is false when either time is absent. Ordering is not validated; a
// non-positive result is the caller's responsibility to reject.
func Elapsed(start, end *TimeOfDay) (time.Duration, bool) {
	if start == nil || end == nil {
		return 0, false
	}
	return end.Sub(*start), true
}

// DateOf truncates t to midnight UTC, the canonical form for civil dates.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a civil date from its components.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WeekdayIndex maps time.Weekday to the 0=Monday..6=Sunday convention used
// throughout the schedule domain.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// MondayOf returns the Monday of the week containing the given date.
func MondayOf(t time.Time) time.Time {
	d := DateOf(t)
	return d.AddDate(0, 0, -WeekdayIndex(d.Weekday()))
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
