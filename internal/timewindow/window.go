// Package timewindow evaluates membership of a point in time within
// clock-of-day windows, including windows that wrap past midnight.
package timewindow

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unset marks an absent window bound. Windows with an unset bound never match.
const Unset = -1

// InRange reports whether the decimal hour cur falls inside [start, end).
// A window whose end precedes its start wraps around midnight: membership
// then means cur >= start OR cur < end.
func InRange(cur, start, end float64) bool {
	if start < 0 || end < 0 {
		return false
	}
	if end < start {
		return cur >= start || cur < end
	}
	return cur >= start && cur < end
}

// InRangeMinutes is InRange at minute-of-day resolution.
func InRangeMinutes(cur, start, end int) bool {
	if start < 0 || end < 0 {
		return false
	}
	if end < start {
		return cur >= start || cur < end
	}
	return cur >= start && cur < end
}

// DecimalHour converts a wall-clock instant to hours + minutes/60.
func DecimalHour(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60
}

// MinutesOfDay converts a wall-clock instant to minutes since midnight.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", clock)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q: %w", clock, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q: %w", clock, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", clock)
	}
	return h*60 + m, nil
}

// ClockMinutes parses "HH:MM" into minutes since midnight, returning Unset
// for empty or malformed input. Used where a missing bound means "no window".
func ClockMinutes(clock string) int {
	if clock == "" {
		return Unset
	}
	m, err := ParseClock(clock)
	if err != nil {
		return Unset
	}
	return m
}
