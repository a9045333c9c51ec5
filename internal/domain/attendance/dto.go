package attendance

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock/internal/pkg/validator"
)

// ========================================
// TOGGLE DTOs
// ========================================

// ToggleRequest carries exactly one of a scanned barcode or an employee id.
// employeeId is accepted alongside employee_id for kiosk frontends.
type ToggleRequest struct {
	Barcode         *string `json:"barcode,omitempty"`
	EmployeeID      *string `json:"employee_id,omitempty"`
	EmployeeIDCamel *string `json:"employeeId,omitempty"`
}

// Identifier returns the tagged lookup key. Call Validate first.
func (r *ToggleRequest) Identifier() employee.Identifier {
	if r.Barcode != nil {
		return employee.ByBarcode(strings.TrimSpace(*r.Barcode))
	}
	return employee.ByID(strings.TrimSpace(*r.employeeID()))
}

func (r *ToggleRequest) employeeID() *string {
	if r.EmployeeID != nil {
		return r.EmployeeID
	}
	return r.EmployeeIDCamel
}

// Validate checks the request shape. minLength is the shortest identifier the
// scanner layer would ever emit; anything shorter is noise.
func (r *ToggleRequest) Validate(minLength int) error {
	var errs validator.ValidationErrors

	id := r.employeeID()
	switch {
	case r.Barcode == nil && id == nil:
		errs = append(errs, validator.ValidationError{
			Field:   "barcode",
			Message: "one of barcode or employee_id is required",
		})
	case r.Barcode != nil && id != nil:
		errs = append(errs, validator.ValidationError{
			Field:   "barcode",
			Message: "only one of barcode or employee_id may be given",
		})
	case r.Barcode != nil:
		if len(strings.TrimSpace(*r.Barcode)) < minLength {
			errs = append(errs, validator.ValidationError{
				Field:   "barcode",
				Message: fmt.Sprintf("barcode must be at least %d characters", minLength),
			})
		}
	default:
		if validator.IsEmpty(*id) {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_id",
				Message: "employee_id must not be empty",
			})
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errs)
	}

	return nil
}

// ToggleResponse is the kiosk payload for an accepted scan.
type ToggleResponse struct {
	Employee      employee.EmployeeResponse `json:"employee"`
	Action        Action                    `json:"action"`
	Record        AttendanceResponse        `json:"record"`
	HoursWorked   float64                   `json:"hours_worked"`
	OvertimeHours float64                   `json:"overtime_hours"`
}

// StatusResponse describes where an employee stands in today's cycle.
type StatusResponse struct {
	EmployeeID  string              `json:"employee_id"`
	Date        string              `json:"date"`
	State       State               `json:"state"`
	NextAction  *Action             `json:"next_action,omitempty"`
	CanToggle   bool                `json:"can_toggle"`
	CanToggleAt *string             `json:"can_toggle_at,omitempty"`
	Record      *AttendanceResponse `json:"record,omitempty"`
}

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID                 string   `json:"id"`
	EmployeeID         string   `json:"employee_id"`
	EmployeeName       *string  `json:"employee_name,omitempty"`
	EmployeeDepartment *string  `json:"employee_department,omitempty"`
	Date               string   `json:"date"`
	CheckInTime        *string  `json:"check_in_time,omitempty"`
	CheckOutTime       *string  `json:"check_out_time,omitempty"`
	TotalHours         *float64 `json:"total_hours,omitempty"`
	OvertimeHours      *float64 `json:"overtime_hours,omitempty"`
	Status             State    `json:"status"`
	CreatedAt          string   `json:"created_at,omitempty"`
	UpdatedAt          string   `json:"updated_at,omitempty"`
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`     // checked_in, completed

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, clock_in_time, clock_out_time, total_hours
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 1000",
		})
	}

	// Status validation
	if f.Status != nil {
		validStatuses := []string{string(StateCheckedIn), string(StateCompleted)}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: checked_in, completed",
			})
		}
	}

	// Date validation
	for field, value := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.StartDate != nil && f.EndDate != nil {
		start, okStart := validator.IsValidDate(*f.StartDate)
		end, okEnd := validator.IsValidDate(*f.EndDate)
		if okStart && okEnd && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"date", "clock_in_time", "clock_out_time", "total_hours"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, clock_in_time, clock_out_time, total_hours",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}
