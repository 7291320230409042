// Package calendar provides trading-session arithmetic for bar settlement.
//
// Settlement must decide whether the bar that just ended belongs to an open
// exchange session. For intraday bars that is a point check; daily and
// weekly bars can end after the close (or on a weekend) and still cover open
// session time, which Covers accounts for.
package calendar

import "time"

// Session describes the weekly trading hours of an exchange. Saturdays and
// Sundays are always closed.
type Session struct {
	open  time.Duration // offset from local midnight
	close time.Duration
	loc   *time.Location
}

// New creates a session open every weekday between the two offsets from
// local midnight in the given location.
func New(open, close time.Duration, loc *time.Location) Session {
	if loc == nil {
		loc = time.UTC
	}
	return Session{open: open, close: close, loc: loc}
}

// AllDay is a round-the-clock weekday session in UTC, the permissive default
// when no exchange calendar is known.
var AllDay = New(0, 24*time.Hour, time.UTC)

// IsOpen reports whether the session is open at the given instant.
func (s Session) IsOpen(t time.Time) bool {
	lt := t.In(s.loc)
	if wd := lt.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	midnight := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, s.loc)
	off := lt.Sub(midnight)
	return off >= s.open && off < s.close
}

// Covers reports whether a bar of the given period ending at end includes
// any open session time. A daily bar ending Saturday midnight covers
// Friday's session; a weekly bar over a normal week always covers one.
func (s Session) Covers(end time.Time, p Period) bool {
	start := end.AddDate(0, 0, -p.Days())
	for i := 0; i <= p.Days(); i++ {
		day := end.In(s.loc).AddDate(0, 0, -i)
		sessionOpen := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.loc).Add(s.open)
		if !sessionOpen.Before(end) || sessionOpen.Before(start) {
			continue
		}
		if s.IsOpen(sessionOpen) {
			return true
		}
	}
	return false
}
