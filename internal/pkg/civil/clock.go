package civil

import "time"

// Clock supplies the current wall-clock time in the deployment's civil
// timezone. It is the only source of "now" the engine consults.
type Clock interface {
	Now() time.Time
}

// ZoneClock reads the system clock in a fixed location.
type ZoneClock struct {
	loc *time.Location
}

func NewZoneClock(loc *time.Location) *ZoneClock {
	return &ZoneClock{loc: loc}
}

func (c *ZoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Today returns the current civil date on the given clock.
func Today(clock Clock) Date {
	return DateOf(clock.Now())
}
