package employee

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
	"github.com/google/uuid"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
	}
}

// Lookup implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Lookup(ctx context.Context, identifier employee.Identifier) (employee.Employee, error) {
	value := strings.TrimSpace(identifier.Value)
	if value == "" {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	var (
		emp employee.Employee
		err error
	)
	switch identifier.Kind {
	case employee.KindBarcode:
		emp, err = s.employeeRepo.GetByBarcode(ctx, value)
	case employee.KindID:
		emp, err = s.employeeRepo.GetByID(ctx, value)
	default:
		return employee.Employee{}, fmt.Errorf("%w: %q", employee.ErrUnknownIdentifierKind, identifier.Kind)
	}
	if err != nil {
		return employee.Employee{}, err
	}

	if !emp.IsActive {
		return employee.Employee{}, employee.ErrInactiveEmployee
	}

	return emp, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	newEmployee := employee.Employee{
		FullName:   strings.TrimSpace(req.FullName),
		Department: strings.TrimSpace(req.Department),
		IsActive:   true,
	}

	if req.ID != nil {
		newEmployee.ID = *req.ID
	} else {
		id, err := uuid.NewV7()
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
		}
		newEmployee.ID = id.String()
	}

	// The barcode falls back to the employee id.
	newEmployee.Barcode = newEmployee.ID
	if req.Barcode != nil {
		newEmployee.Barcode = *req.Barcode
	}

	if req.IsActive != nil {
		newEmployee.IsActive = *req.IsActive
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "employee_id", created.ID, "barcode", created.Barcode)
	return employee.ToResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Barcode != nil {
		emp.Barcode = *req.Barcode
	}
	if req.FullName != nil {
		emp.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Department != nil {
		emp.Department = strings.TrimSpace(*req.Department)
	}
	if req.IsActive != nil {
		emp.IsActive = *req.IsActive
	}

	updated, err := s.employeeRepo.Update(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee updated", "employee_id", updated.ID, "is_active", updated.IsActive)
	return employee.ToResponse(updated), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, employee.ToResponse(emp))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Employees:  responses,
	}, nil
}
