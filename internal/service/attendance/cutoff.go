package attendance

import (
	"time"

	"github.com/hrkit/attendance-engine/internal/domain/shift"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
)

// CutoffPolicy computes the time of day after which a pending record may
// be marked absent: the shift end time minus a fixed offset. Before the
// cutoff an employee must never be marked absent for the current day.
type CutoffPolicy struct {
	offset time.Duration
}

func NewCutoffPolicy(offset time.Duration) *CutoffPolicy {
	return &CutoffPolicy{offset: offset}
}

// Cutoff returns the absence cutoff for the shift. The second return is
// false when the policy is inapplicable (no shift or no end time).
func (p *CutoffPolicy) Cutoff(s *shift.Shift) (civil.TimeOfDay, bool) {
	if s == nil || s.EndTime.IsZero() {
		return civil.TimeOfDay{}, false
	}
	return s.EndTime.Add(-p.offset), true
}

// Reached reports whether now has passed the shift's cutoff.
//
// For a shift that crosses midnight (end < start, e.g. 22:00-06:00 with
// cutoff 04:00) the comparison must account for day wrap: a cutoff in the
// early morning is only reached once now is also in the morning hours.
// An evening "now" on the same shift is still before the cutoff no matter
// how the raw clock values compare.
func (p *CutoffPolicy) Reached(s *shift.Shift, now civil.TimeOfDay) bool {
	cutoff, ok := p.Cutoff(s)
	if !ok {
		return false
	}

	if s.CrossesMidnight() && cutoff.Hour < 12 {
		if now.Hour >= 12 {
			// Still in the previous evening, cutoff is after midnight.
			return false
		}
		return now.AtOrAfter(cutoff)
	}

	return now.AtOrAfter(cutoff)
}
