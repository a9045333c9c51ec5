package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the daily record store.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when the employee has no record for date.
	// Inside a transaction the row is locked until commit.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Create inserts a record; a second record for the same (employee, date)
	// fails with ErrAttendanceConflict.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Update writes the check-out fields of an open record. It fails with
	// ErrAttendanceConflict when the record was already closed.
	Update(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves a record joined with its employee
	GetByID(ctx context.Context, id string) (Attendance, error)

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListOpenBefore returns records dated before date that still lack a check-out.
	ListOpenBefore(ctx context.Context, date time.Time) ([]Attendance, error)
}

// Transactor runs fn so that every repository call made with the ctx it
// receives observes and writes one consistent snapshot.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
