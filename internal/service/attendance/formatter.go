package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
)

// FormatToggleResult assembles the kiosk payload for an accepted scan.
// Hours are reported as 0 until the record is checked out.
func FormatToggleResult(emp employee.Employee, action attendance.Action, record attendance.Attendance) attendance.ToggleResponse {
	resp := attendance.ToggleResponse{
		Employee: employee.ToResponse(emp),
		Action:   action,
		Record:   mapAttendanceToResponse(record),
	}
	if record.TotalHours != nil {
		resp.HoursWorked = *record.TotalHours
	}
	if record.OvertimeHours != nil {
		resp.OvertimeHours = *record.OvertimeHours
	}
	return resp
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:                 att.ID,
		EmployeeID:         att.EmployeeID,
		EmployeeName:       att.EmployeeName,
		EmployeeDepartment: att.EmployeeDepartment,
		Date:               att.Date.Format("2006-01-02"),
		CheckInTime:        timePtrToString(att.ClockIn),
		CheckOutTime:       timePtrToString(att.ClockOut),
		TotalHours:         att.TotalHours,
		OvertimeHours:      att.OvertimeHours,
		Status:             attendance.StateOf(&att),
	}
	if !att.CreatedAt.IsZero() {
		resp.CreatedAt = att.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if !att.UpdatedAt.IsZero() {
		resp.UpdatedAt = att.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}
