// Package civil provides timezone-naive calendar dates and times of day.
//
// All attendance arithmetic is civil-time based: a shift that starts at
// 09:00 starts at 09:00 on the wall clock of the deployment zone, never at
// a UTC instant. Dates and times are parsed/formatted as strings only at
// the storage boundary; everywhere else they are compared as values.
package civil

import (
	"fmt"
	"time"
)

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04:05"
)

// Date is a calendar date without a timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the civil date from t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// In returns midnight of d in the given location.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days after d. n may be negative.
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) After(other Date) bool {
	return other.Before(d)
}

// TimeOfDay is a wall-clock time without a date or timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// TimeOf extracts the civil time of day from t in t's location.
func TimeOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// ParseTimeOfDay parses a "HH:MM:SS" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOf(t), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

func (t TimeOfDay) IsZero() bool {
	return t == TimeOfDay{}
}

// Seconds returns the time of day as seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Seconds() < other.Seconds()
}

func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.Seconds() > other.Seconds()
}

// AtOrAfter reports whether t >= other.
func (t TimeOfDay) AtOrAfter(other TimeOfDay) bool {
	return t.Seconds() >= other.Seconds()
}

// Add returns the time of day shifted by dur, wrapping around midnight.
func (t TimeOfDay) Add(dur time.Duration) TimeOfDay {
	secs := (t.Seconds() + int(dur/time.Second)) % 86400
	if secs < 0 {
		secs += 86400
	}
	return TimeOfDay{Hour: secs / 3600, Minute: secs % 3600 / 60, Second: secs % 60}
}

// HoursBetween returns the elapsed hours from check-in to check-out,
// crediting a full day when out is numerically earlier than in (the
// check-out happened after midnight).
func HoursBetween(in, out TimeOfDay) float64 {
	diff := out.Seconds() - in.Seconds()
	if diff < 0 {
		diff += 86400
	}
	return float64(diff) / 3600.0
}
