package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventShiftCreated    = "schedule.shift.created"
	EventShiftUpdated    = "schedule.shift.updated"
	EventShiftDeleted    = "schedule.shift.deleted"
	EventDayReplaced     = "schedule.shift.day_replaced"
	EventApprovalChanged = "schedule.shift.approval_changed"
)

// Exchange names
const (
	ExchangeScheduleEvents = "schedule.events"
	ExchangeDeadLetter     = "dlx.events"
)

// Event is the envelope every message travels in
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent wraps data in an Event envelope
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// Schedule Events

// ShiftEvent is published when a shift entry is created or updated.
type ShiftEvent struct {
	ShiftID     string  `json:"shift_id"`
	EmployeeID  string  `json:"employee_id"`
	CategoryTag string  `json:"category_tag,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Approved    bool    `json:"approved"`
	ActorID     *string `json:"actor_id,omitempty"`
}

// ShiftDeletedEvent is published when a single shift entry is removed.
type ShiftDeletedEvent struct {
	ShiftID    string  `json:"shift_id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	ActorID    *string `json:"actor_id,omitempty"`
}

// DayReplacedEvent is published after a bulk delete or a day replacement.
// ShiftIDs lists the entries now present for the day, empty after a bulk delete.
type DayReplacedEvent struct {
	EmployeeID string   `json:"employee_id"`
	Date       string   `json:"date"`
	Removed    int64    `json:"removed"`
	ShiftIDs   []string `json:"shift_ids"`
	ActorID    *string  `json:"actor_id,omitempty"`
}

// ApprovalChangedEvent is consumed to flip the approval flag on a shift entry.
type ApprovalChangedEvent struct {
	ShiftID    string `json:"shift_id"`
	Approved   bool   `json:"approved"`
	ReviewerID string `json:"reviewer_id,omitempty"`
}
