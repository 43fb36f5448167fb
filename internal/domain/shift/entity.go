package shift

import "github.com/hrkit/attendance-engine/internal/pkg/civil"

// Category classifies a shift by its time of day.
type Category string

const (
	CategoryDay        Category = "day"
	CategoryNight      Category = "night"
	CategoryAfternoon  Category = "afternoon"
	CategoryRotational Category = "rotational"
)

// Shift is an immutable shift definition. A shift whose end time is
// numerically earlier than its start time crosses midnight (22:00-06:00).
type Shift struct {
	ID           string
	Category     Category
	StartTime    civil.TimeOfDay
	EndTime      civil.TimeOfDay
	LateMarkTime civil.TimeOfDay
}

// CrossesMidnight reports whether the shift spans the day boundary.
func (s *Shift) CrossesMidnight() bool {
	return s.EndTime.Before(s.StartTime)
}

// EffectiveLateMark returns the late-mark time, falling back to the
// category default when none is configured: half past the second hour of
// the shift for rotational shifts, fixed times otherwise.
func (s *Shift) EffectiveLateMark() civil.TimeOfDay {
	if !s.LateMarkTime.IsZero() {
		return s.LateMarkTime
	}
	switch s.Category {
	case CategoryNight:
		return civil.TimeOfDay{Hour: 22, Minute: 30}
	case CategoryAfternoon:
		return civil.TimeOfDay{Hour: 15, Minute: 30}
	case CategoryRotational:
		return civil.TimeOfDay{Hour: (s.StartTime.Hour + 2) % 24, Minute: 30}
	default:
		return civil.TimeOfDay{Hour: 10, Minute: 30}
	}
}
