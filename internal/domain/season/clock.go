package season

import "time"

// Season identifies the TV season every league scores against.
type Season struct {
	Number       int
	Name         string
	PremiereDate time.Time
}

// Clock derives the current fantasy week from wall-clock time. Week 0 is the
// draft week; once the premiere's first weekly lock boundary passes, the week
// number is the count of boundaries passed. The week is never stored; every
// caller computes it from now, so concurrent readers cannot drift.
type Clock struct {
	Premiere    time.Time
	LockWeekday time.Weekday
	LockHour    int
	Location    *time.Location
}

// NewClock builds a clock with the deployment's weekly lock boundary.
// A nil location falls back to UTC.
func NewClock(premiere time.Time, lockWeekday time.Weekday, lockHour int, loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{
		Premiere:    premiere.In(loc),
		LockWeekday: lockWeekday,
		LockHour:    lockHour,
		Location:    loc,
	}
}

// CurrentWeek returns the fantasy week at the given instant. Monotonically
// non-decreasing in now for a fixed premiere.
func (c Clock) CurrentWeek(now time.Time) int {
	now = now.In(c.loc())

	week := 0
	boundary := c.firstLock()
	for now.After(boundary) {
		week++
		boundary = boundary.AddDate(0, 0, 7)
	}
	return week
}

// NextLockTime returns the next weekly roster lock boundary after now.
func (c Clock) NextLockTime(now time.Time) time.Time {
	now = now.In(c.loc())

	boundary := c.firstLock()
	for now.After(boundary) {
		boundary = boundary.AddDate(0, 0, 7)
	}
	return boundary
}

// firstLock is the first lock boundary at or after the premiere: the lock
// time-of-day on the premiere's weekday if it is the lock weekday, otherwise
// the next occurrence of the lock weekday. Boundaries advance by calendar
// days so the lock stays at the same local time across DST transitions.
func (c Clock) firstLock() time.Time {
	premiere := c.Premiere.In(c.loc())
	lock := time.Date(premiere.Year(), premiere.Month(), premiere.Day(), c.LockHour, 0, 0, 0, c.loc())
	for lock.Weekday() != c.LockWeekday || lock.Before(premiere) {
		lock = lock.AddDate(0, 0, 1)
	}
	return lock
}

func (c Clock) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}
