// Package lock serializes schedule writes per (employee, date) so the
// conflict check and the insert that follows it cannot interleave with a
// competing write for the same day.
package lock

import (
	"context"
	"errors"
)

// ErrNotAcquired is returned when the lock could not be taken before the wait expired.
var ErrNotAcquired = errors.New("schedule lock not acquired")

// Locker hands out exclusive locks by key. The returned release func is safe
// to call more than once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// DayKey is the lock key for one employee's business date.
func DayKey(employeeID, date string) string {
	return "schedule:lock:" + employeeID + ":" + date
}
