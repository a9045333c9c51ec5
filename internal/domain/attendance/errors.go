package attendance

import (
	"errors"
	"fmt"
	"time"
)

// Attendance domain errors
var (
	// Toggle outcomes
	ErrInvalidInput         = errors.New("invalid attendance input")
	ErrInvalidClockSequence = fmt.Errorf("%w: check-out time precedes check-in time", ErrInvalidInput)
	ErrCooldownActive       = errors.New("scan rejected, cooldown still active")
	ErrCycleComplete        = errors.New("attendance already completed for today")
	ErrStorageUnavailable   = errors.New("attendance storage unavailable")

	// Record store errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceConflict = errors.New("attendance record was modified concurrently")
)

// CooldownError carries the wait left before the employee may scan again.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: retry in %s", ErrCooldownActive.Error(), e.Remaining.Round(time.Second))
}

func (e *CooldownError) Unwrap() error {
	return ErrCooldownActive
}

// RemainingSeconds rounds the remaining wait up to whole seconds.
func (e *CooldownError) RemainingSeconds() int {
	secs := int(e.Remaining / time.Second)
	if e.Remaining%time.Second > 0 {
		secs++
	}
	return secs
}
