package systems

import (
	"time"

	"github.com/pthm-cable/habitat/config"
)

// DayPart classifies an hour for display.
type DayPart uint8

const (
	Night DayPart = iota
	Dawn
	Day
	Dusk
)

func (d DayPart) String() string {
	switch d {
	case Dawn:
		return "dawn"
	case Day:
		return "day"
	case Dusk:
		return "dusk"
	}
	return "night"
}

// Clock is the simulated calendar. It advances one hour per fox tick.
type Clock struct {
	start time.Time
	now   time.Time
	ticks int64
	cfg   config.ClockConfig
}

// NewClock starts a clock at midnight of the configured date, in UTC.
func NewClock(cfg config.ClockConfig) *Clock {
	start := time.Date(cfg.StartYear, time.Month(cfg.StartMonth), cfg.StartDay, 0, 0, 0, 0, time.UTC)
	return &Clock{start: start, now: start, cfg: cfg}
}

// Now returns the current simulated instant.
func (c *Clock) Now() time.Time { return c.now }

// Start returns the first simulated instant.
func (c *Clock) Start() time.Time { return c.start }

// Ticks returns the number of hours advanced so far.
func (c *Clock) Ticks() int64 { return c.ticks }

// Advance moves the clock forward one hour and returns the new instant.
func (c *Clock) Advance() time.Time {
	c.now = c.now.Add(time.Hour)
	c.ticks++
	return c.now
}

// Day returns the number of whole days since the start.
func (c *Clock) Day() int {
	return int(c.now.Sub(c.start) / (24 * time.Hour))
}

// NewDay reports whether the current hour is midnight.
func (c *Clock) NewDay() bool { return c.now.Hour() == 0 }

// NewMonth reports whether the current instant is the first hour of a month.
func (c *Clock) NewMonth() bool { return c.now.Day() == 1 && c.now.Hour() == 0 }

// Part classifies the current hour against sunrise and sunset.
func (c *Clock) Part() DayPart {
	h := c.now.Hour()
	switch {
	case h == c.cfg.SunriseHour:
		return Dawn
	case h == c.cfg.SunsetHour:
		return Dusk
	case h > c.cfg.SunriseHour && h < c.cfg.SunsetHour:
		return Day
	}
	return Night
}
