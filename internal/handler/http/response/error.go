package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock/internal/domain/report"
	"github.com/cmlabs-hris/timeclock/internal/pkg/validator"
)

// Error codes the kiosk client switches on.
const (
	CodeInvalidInput     = "INVALID_INPUT"
	CodeEmployeeNotFound = "EMPLOYEE_NOT_FOUND"
	CodeInactiveEmployee = "INACTIVE_EMPLOYEE"
	CodeCooldownActive   = "COOLDOWN_ACTIVE"
	CodeCycleComplete    = "CYCLE_COMPLETE"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Storage outages win over whatever the underlying cause looks like.
	if errors.Is(err, attendance.ErrStorageUnavailable) {
		ServiceUnavailable(w, "Attendance storage is unavailable, please try again")
		return
	}

	// Invalid scan input carries its field errors but is a 400, not a 422.
	if errors.Is(err, attendance.ErrInvalidInput) {
		var details map[string]string
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			details = validationErrs.ToMap()
		}
		writeError(w, http.StatusBadRequest, CodeInvalidInput, invalidInputMessage(err), details)
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var cooldownErr *attendance.CooldownError
	if errors.As(err, &cooldownErr) {
		ConflictWithCode(w, CodeCooldownActive, "Please wait before scanning again", map[string]string{
			"remaining_seconds": strconv.Itoa(cooldownErr.RemainingSeconds()),
		})
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		writeError(w, http.StatusNotFound, CodeEmployeeNotFound, "Employee not found", nil)
	case errors.Is(err, employee.ErrInactiveEmployee):
		writeError(w, http.StatusNotFound, CodeInactiveEmployee, "Employee is inactive", nil)
	case errors.Is(err, employee.ErrBarcodeExists):
		Conflict(w, "Barcode already assigned to another employee")
	case errors.Is(err, employee.ErrIDExists):
		Conflict(w, "Employee ID already exists")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrCooldownActive):
		ConflictWithCode(w, CodeCooldownActive, "Please wait before scanning again", nil)
	case errors.Is(err, attendance.ErrCycleComplete):
		ConflictWithCode(w, CodeCycleComplete, "Attendance already completed for today", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Report domain errors
	case errors.Is(err, report.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

func invalidInputMessage(err error) string {
	if errors.Is(err, attendance.ErrInvalidClockSequence) {
		return "Check-out time precedes check-in time"
	}
	return "Invalid scan input"
}
