package attendance

import (
	"time"
)

// Attendance is the single record of one employee for one calendar day.
// ClockOut is never set without ClockIn; a record with both is terminal.
type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time // calendar day at 00:00 UTC, derived from the operating timezone
	ClockIn       *time.Time
	ClockOut      *time.Time
	TotalHours    *float64
	OvertimeHours *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	EmployeeName       *string
	EmployeeDepartment *string
}

// State is the position of a daily record in the check-in/check-out cycle.
type State string

const (
	StateNone      State = "none"
	StateCheckedIn State = "checked_in"
	StateCompleted State = "completed"
)

// Action is the outcome of an accepted scan.
type Action string

const (
	ActionCheckIn  Action = "check-in"
	ActionCheckOut Action = "check-out"
)

// StateOf reports the cycle state of a possibly absent record.
func StateOf(att *Attendance) State {
	switch {
	case att == nil || att.ClockIn == nil:
		return StateNone
	case att.ClockOut == nil:
		return StateCheckedIn
	default:
		return StateCompleted
	}
}

// DayOf returns the calendar day of t in loc, normalized to midnight UTC so it
// compares equal to values scanned from a DATE column.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
