// Package streaks tracks consecutive days on which a user commented on a figure.
package streaks

import (
	"time"
	_ "time/tzdata" // zones for configured streak timezones
)

// DateLayout is how streak dates are stored.
const DateLayout = "2006-01-02"

// Advance returns the streak after a comment on today given the previous
// streak value and the date of the previous comment. An empty lastDate means
// no prior comment.
func Advance(prev int, lastDate, today string) int {
	if lastDate == "" || prev <= 0 {
		return 1
	}
	switch lastDate {
	case today:
		return prev
	case Yesterday(today):
		return prev + 1
	default:
		return 1
	}
}

// Display returns the streak to show on today. A streak whose last comment is
// older than yesterday is already broken.
func Display(current int, lastDate, today string) int {
	if lastDate == today || lastDate == Yesterday(today) {
		return current
	}
	return 0
}

// Yesterday returns the calendar day before date, or "" when date is malformed.
func Yesterday(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}

// Clock turns instants into calendar days in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock returns a clock for the named IANA zone. Empty means UTC.
func NewClock(timezone string) (*Clock, error) {
	loc := time.UTC
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return nil, err
		}
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// Location returns the clock's time zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Day formats t as a calendar day in the clock's zone.
func (c *Clock) Day(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// Today returns the current calendar day.
func (c *Clock) Today() string {
	return c.Day(c.now())
}
