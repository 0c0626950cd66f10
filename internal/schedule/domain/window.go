package domain

import "fmt"

// Default operating hours applied when a corporation has none configured.
const (
	DefaultStartHour = 8
	DefaultEndHour   = 24
)

// BusinessWindow is a corporation's operating day. EndHour may exceed 24 when
// the day runs past midnight.
type BusinessWindow struct {
	StartHour   int `json:"start_hour"`
	EndHour     int `json:"end_hour"`
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// NewBusinessWindow normalizes raw hours: start is clamped to [0,23], an end
// at or before the start moves to the next day, and the end is clamped to [1,48].
func NewBusinessWindow(startHour, endHour int) BusinessWindow {
	start := clamp(startHour, 0, 23)

	end := endHour
	if end <= start {
		end += 24
	}
	end = clamp(end, 1, 48)

	return BusinessWindow{
		StartHour:   start,
		EndHour:     end,
		StartMinute: start * 60,
		EndMinute:   end * 60,
	}
}

// DefaultWindow is the 08:00-24:00 window.
func DefaultWindow() BusinessWindow {
	return NewBusinessWindow(DefaultStartHour, DefaultEndHour)
}

// WindowFromHours builds a window from optional stored hours, substituting the
// default for whichever is nil.
func WindowFromHours(startHour, endHour *int) BusinessWindow {
	start, end := DefaultStartHour, DefaultEndHour
	if startHour != nil {
		start = *startHour
	}
	if endHour != nil {
		end = *endHour
	}
	return NewBusinessWindow(start, end)
}

// CrossesMidnight reports whether the window closes on the following calendar day.
func (w BusinessWindow) CrossesMidnight() bool {
	return w.EndHour > 24
}

// Contains reports whether minute falls inside [StartMinute, EndMinute).
func (w BusinessWindow) Contains(minute int) bool {
	return minute >= w.StartMinute && minute < w.EndMinute
}

// StartLabel renders the opening hour, e.g. "08:00".
func (w BusinessWindow) StartLabel() string {
	return hourLabel(w.StartHour)
}

// EndLabel renders the closing hour, e.g. "24:00" or "04:00 (next day)".
func (w BusinessWindow) EndLabel() string {
	return hourLabel(w.EndHour)
}

// String renders the window as "08:00-04:00 (next day)".
func (w BusinessWindow) String() string {
	return w.StartLabel() + "-" + w.EndLabel()
}

func hourLabel(hour int) string {
	if hour > 24 {
		return fmt.Sprintf("%02d:00 (next day)", hour-24)
	}
	return fmt.Sprintf("%02d:00", hour)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
