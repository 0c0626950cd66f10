package domain

// Reason is a machine-readable outcome code for a rejected schedule write.
type Reason string

const (
	ReasonMissingFields      Reason = "MISSING_FIELDS"
	ReasonInvalidTimeFormat  Reason = "INVALID_TIME_FORMAT"
	ReasonStartOutsideWindow Reason = "START_OUTSIDE_WINDOW"
	ReasonEndOutsideWindow   Reason = "END_OUTSIDE_WINDOW"
	ReasonEndNotAfterStart   Reason = "END_NOT_AFTER_START"
	ReasonConflictDetected   Reason = "CONFLICT_DETECTED"
	ReasonNotFound           Reason = "NOT_FOUND"
)

// Code returns the reason as a plain string for error payloads.
func (r Reason) Code() string {
	return string(r)
}
