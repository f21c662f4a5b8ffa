package engine

import (
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

// Calendar provides date arithmetic so policies never reach for wall-clock
// time or locale state on their own.
type Calendar interface {
	DaysBetween(from, to time.Time) int
}

// UTCCalendar counts whole days between UTC dates.
type UTCCalendar struct{}

// DaysBetween returns the number of whole days from one instant to another.
func (UTCCalendar) DaysBetween(from, to time.Time) int {
	return int(to.UTC().Sub(from.UTC()).Hours() / 24)
}

// Context bundles everything a policy evaluation needs besides the lift
// itself: who is training, what they are training, and when "now" is.
type Context struct {
	Profile  models.UserProfile
	Exercise models.Exercise
	Date     time.Time
	Cal      Calendar
}

// NewContext builds a Context with the default UTC calendar.
func NewContext(profile models.UserProfile, exercise models.Exercise, date time.Time) Context {
	return Context{Profile: profile, Exercise: exercise, Date: date, Cal: UTCCalendar{}}
}

func (c Context) calendar() Calendar {
	if c.Cal != nil {
		return c.Cal
	}
	return UTCCalendar{}
}
