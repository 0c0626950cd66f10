package domain

import "fmt"

// Interval is a half-open [StartMinute, EndMinute) range in business minutes.
type Interval struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

// Overlaps reports whether two half-open intervals share any minute.
// Back-to-back intervals do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.StartMinute < o.EndMinute && o.StartMinute < i.EndMinute
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() int {
	return i.EndMinute - i.StartMinute
}

// TimeRejection explains why a start/end pair does not fit a window.
// StartMinute and EndMinute are zero for ReasonInvalidTimeFormat.
type TimeRejection struct {
	Reason      Reason
	StartTime   string
	EndTime     string
	StartMinute int
	EndMinute   int
	Window      BusinessWindow
}

func (r *TimeRejection) Error() string {
	switch r.Reason {
	case ReasonInvalidTimeFormat:
		return fmt.Sprintf("times must be HH:MM, got start %q end %q", r.StartTime, r.EndTime)
	case ReasonStartOutsideWindow:
		return fmt.Sprintf("start %s is outside business hours %s", r.StartTime, r.Window)
	case ReasonEndOutsideWindow:
		return fmt.Sprintf("end %s is outside business hours %s", r.EndTime, r.Window)
	case ReasonEndNotAfterStart:
		return fmt.Sprintf("end %s must be after start %s", r.EndTime, r.StartTime)
	default:
		return string(r.Reason)
	}
}

// ValidateShiftTimes maps start and end onto w's business minutes and checks
// that the shift starts in [open, close), ends in [open, close] and has a
// positive length. A shift may end exactly at close but never start there.
func ValidateShiftTimes(start, end string, w BusinessWindow) (Interval, error) {
	reject := func(reason Reason, s, e int) (Interval, error) {
		return Interval{}, &TimeRejection{
			Reason:      reason,
			StartTime:   start,
			EndTime:     end,
			StartMinute: s,
			EndMinute:   e,
			Window:      w,
		}
	}

	sc, okStart := ParseClock(start)
	ec, okEnd := ParseClock(end)
	if !okStart || !okEnd {
		return reject(ReasonInvalidTimeFormat, 0, 0)
	}

	s := BusinessMinute(sc.Hour, sc.Minute, w.StartMinute)
	e := BusinessMinute(ec.Hour, ec.Minute, w.StartMinute)

	if s < w.StartMinute || s >= w.EndMinute {
		return reject(ReasonStartOutsideWindow, s, e)
	}
	if e < w.StartMinute || e > w.EndMinute {
		return reject(ReasonEndOutsideWindow, s, e)
	}
	if e <= s {
		return reject(ReasonEndNotAfterStart, s, e)
	}

	return Interval{StartMinute: s, EndMinute: e}, nil
}

// FirstConflict returns the first shift in existing whose interval overlaps
// candidate under w. Shifts with id excludeID are skipped, as are shifts that
// no longer validate against w (e.g. saved before the hours changed).
func FirstConflict(existing []Shift, candidate Interval, w BusinessWindow, excludeID string) *Shift {
	for i := range existing {
		s := &existing[i]
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		iv, err := ValidateShiftTimes(s.StartTime, s.EndTime, w)
		if err != nil {
			continue
		}
		if iv.Overlaps(candidate) {
			return s
		}
	}
	return nil
}
