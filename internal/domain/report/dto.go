package report

import (
	"fmt"

	"github.com/cmlabs-hris/timeclock/internal/pkg/validator"
)

// MaxExportDays bounds the period of one export.
const MaxExportDays = 366

// ========================================
// ATTENDANCE EXPORT
// ========================================

type ExportAttendanceRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  string  `json:"start_date"` // YYYY-MM-DD
	EndDate    string  `json:"end_date"`   // YYYY-MM-DD
}

func (r *ExportAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	start, okStart := validator.IsValidDate(r.StartDate)
	if !okStart {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required in YYYY-MM-DD format",
		})
	}

	end, okEnd := validator.IsValidDate(r.EndDate)
	if !okEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required in YYYY-MM-DD format",
		})
	}

	if okStart && okEnd {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: ErrInvalidDateRange.Error(),
			})
		} else if end.Sub(start).Hours()/24 >= MaxExportDays {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: fmt.Sprintf("export period must not exceed %d days", MaxExportDays),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ExportFile is a generated document ready to be served as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
