package clock

import "time"

// Clock supplies the current civil timestamp. It is injected everywhere the
// core needs "now" so that time-window behavior stays deterministic in tests.
type Clock interface {
	Now() time.Time
}

// FixedZoneClock returns wall time shifted into a single fixed UTC offset.
// The gate runs on Indian Standard Time (UTC+5:30); timestamps are stored
// and exchanged as naive local civil time, so there is no DST or cross-zone
// arithmetic anywhere downstream.
type FixedZoneClock struct {
	loc *time.Location
}

// NewFixedZoneClock creates a clock for the given zone name and offset in
// seconds east of UTC.
func NewFixedZoneClock(name string, offsetSeconds int) *FixedZoneClock {
	return &FixedZoneClock{loc: time.FixedZone(name, offsetSeconds)}
}

// NewISTClock is the production default (UTC+5:30).
func NewISTClock() *FixedZoneClock {
	return NewFixedZoneClock("IST", 5*3600+30*60)
}

func (c *FixedZoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Manual is a hand-advanced clock for tests.
type Manual struct {
	now time.Time
}

func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() time.Time {
	return m.now
}

// Advance moves the clock forward and returns the new time.
func (m *Manual) Advance(d time.Duration) time.Time {
	m.now = m.now.Add(d)
	return m.now
}

// Set pins the clock to an absolute time.
func (m *Manual) Set(t time.Time) {
	m.now = t
}
