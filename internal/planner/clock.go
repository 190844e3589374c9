package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a time of day in minutes after midnight.
type Clock int

// ParseClock accepts "HH:MM" (single-digit hours are fine).
func ParseClock(s string) (Clock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || len(m) != 2 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock(hour*60 + minute), nil
}

// MustClock is ParseClock for constants.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

// On returns the instant at clock c on the calendar day of d.
func (c Clock) On(d time.Time) time.Time {
	y, mo, day := d.Date()
	return time.Date(y, mo, day, int(c)/60, int(c)%60, 0, 0, d.Location())
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil counts whole calendar days from the day of from to the day of to.
func DaysUntil(from, to time.Time) int {
	a := startOfDay(from)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, a.Location())
	return int(b.Sub(a).Round(time.Hour).Hours() / 24)
}
