package employee

import (
	"strings"

	"github.com/cmlabs-hris/timeclock/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	ID         *string `json:"id,omitempty"`
	Barcode    *string `json:"barcode,omitempty"`
	FullName   string  `json:"full_name"`
	Department string  `json:"department"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	} else if len(r.FullName) > 150 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 150 characters",
		})
	}

	if r.ID != nil && !validator.IsValidIdentifier(*r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be 3-64 characters of letters, digits, '-' or '_'",
		})
	}

	if r.Barcode != nil && !validator.IsValidIdentifier(*r.Barcode) {
		errs = append(errs, validator.ValidationError{
			Field:   "barcode",
			Message: "barcode must be 3-64 characters of letters, digits, '-' or '_'",
		})
	}

	if len(r.Department) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateEmployeeRequest struct {
	ID         string  `json:"-"`
	Barcode    *string `json:"barcode,omitempty"`
	FullName   *string `json:"full_name,omitempty"`
	Department *string `json:"department,omitempty"`
	IsActive   *bool   `json:"is_active,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not be empty",
		})
	}

	if r.Barcode != nil && !validator.IsValidIdentifier(*r.Barcode) {
		errs = append(errs, validator.ValidationError{
			Field:   "barcode",
			Message: "barcode must be 3-64 characters of letters, digits, '-' or '_'",
		})
	}

	if r.Department != nil && len(*r.Department) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "department",
			Message: "department must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeFilter struct {
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // full_name, created_at
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.SortBy != "" {
		if !validator.IsInSlice(f.SortBy, []string{"full_name", "created_at"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: full_name, created_at",
			})
		}
	} else {
		f.SortBy = "full_name"
	}

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "asc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EmployeeResponse is also the employee snapshot embedded in toggle results.
type EmployeeResponse struct {
	ID         string `json:"id"`
	Barcode    string `json:"barcode"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}

// ToResponse maps the entity to its API representation.
func ToResponse(emp Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:         emp.ID,
		Barcode:    emp.Barcode,
		FullName:   emp.FullName,
		Department: emp.Department,
		IsActive:   emp.IsActive,
	}
	if !emp.CreatedAt.IsZero() {
		resp.CreatedAt = emp.CreatedAt.Format("2006-01-02 15:04:05")
	}
	if !emp.UpdatedAt.IsZero() {
		resp.UpdatedAt = emp.UpdatedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}
