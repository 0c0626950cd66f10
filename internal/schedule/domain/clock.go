// Package domain holds the business-day arithmetic behind shift scheduling:
// clock parsing, business windows, shift validation and the shared entity
// and view types. Nothing here touches storage or the network.
package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// MinutesPerDay is the length of one calendar day in minutes.
const MinutesPerDay = 24 * 60

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ClockTime is a wall-clock time of day with no date or zone.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock accepts "H:MM" or "HH:MM" with hour 0-23 and minute 0-59.
func ParseClock(s string) (ClockTime, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return ClockTime{}, false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return ClockTime{}, false
	}
	return ClockTime{Hour: hour, Minute: minute}, true
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// String renders the canonical zero-padded "HH:MM" form.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// BusinessMinute re-anchors a wall-clock time onto the business day that opens
// at windowStartMinute. Times earlier than the opening belong to the tail of
// the business day and are pushed past midnight.
func BusinessMinute(hour, minute, windowStartMinute int) int {
	raw := hour*60 + minute
	if raw < windowStartMinute {
		raw += MinutesPerDay
	}
	return raw
}

// NormalizeClock returns s in "HH:MM" form, or s unchanged when it does not parse.
func NormalizeClock(s string) string {
	c, ok := ParseClock(s)
	if !ok {
		return s
	}
	return c.String()
}
