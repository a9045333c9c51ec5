package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Toggle resolves a scan to an employee and records a check-in or check-out
	Toggle(ctx context.Context, req ToggleRequest) (ToggleResponse, error)

	// GetStatus reports today's cycle state for an employee
	GetStatus(ctx context.Context, employeeID string) (StatusResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
