package session

import (
	"fmt"
	"time"
)

// Clock answers whether the engine is inside its daily activation window and
// how much window time remains. Pure function of wall-clock time.
type Clock struct {
	loc              *time.Location
	openHH, openMM   int
	closeHH, closeMM int
}

// NewClock builds a Clock for a fixed daily HH:MM window in the given
// IANA timezone.
func NewClock(timezone, open, close string) (*Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	ot, err := time.Parse("15:04", open)
	if err != nil {
		return nil, fmt.Errorf("parse open time: %w", err)
	}
	ct, err := time.Parse("15:04", close)
	if err != nil {
		return nil, fmt.Errorf("parse close time: %w", err)
	}
	c := &Clock{
		loc:     loc,
		openHH:  ot.Hour(),
		openMM:  ot.Minute(),
		closeHH: ct.Hour(),
		closeMM: ct.Minute(),
	}
	if !c.openOn(time.Now()).Before(c.closeOn(time.Now())) {
		return nil, fmt.Errorf("session open %s must precede close %s", open, close)
	}
	return c, nil
}

func (c *Clock) openOn(now time.Time) time.Time {
	n := now.In(c.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), c.openHH, c.openMM, 0, 0, c.loc)
}

func (c *Clock) closeOn(now time.Time) time.Time {
	n := now.In(c.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), c.closeHH, c.closeMM, 0, 0, c.loc)
}

// IsActive reports whether now falls inside [open, close).
func (c *Clock) IsActive(now time.Time) bool {
	n := now.In(c.loc)
	return !n.Before(c.openOn(now)) && n.Before(c.closeOn(now))
}

// TimeRemaining returns the duration until the window closes, zero once the
// window has ended or before it opens.
func (c *Clock) TimeRemaining(now time.Time) time.Duration {
	if !c.IsActive(now) {
		return 0
	}
	return c.closeOn(now).Sub(now.In(c.loc))
}

// Location exposes the exchange timezone for callers that log local times.
func (c *Clock) Location() *time.Location {
	return c.loc
}
