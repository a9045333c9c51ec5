package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepository{store: store}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	emp, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *employeeRepository) GetByBarcode(ctx context.Context, barcode string) (employee.Employee, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.barcodes[barcode]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return r.store.employees[id], nil
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.employees[newEmployee.ID]; exists {
		return employee.Employee{}, employee.ErrIDExists
	}
	if _, taken := r.store.barcodes[newEmployee.Barcode]; taken {
		return employee.Employee{}, employee.ErrBarcodeExists
	}

	now := r.store.now()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now
	r.store.employees[newEmployee.ID] = newEmployee
	r.store.barcodes[newEmployee.Barcode] = newEmployee.ID
	return newEmployee, nil
}

func (r *employeeRepository) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.employees[emp.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if owner, taken := r.store.barcodes[emp.Barcode]; taken && owner != emp.ID {
		return employee.Employee{}, employee.ErrBarcodeExists
	}

	delete(r.store.barcodes, current.Barcode)
	emp.CreatedAt = current.CreatedAt
	emp.UpdatedAt = r.store.now()
	r.store.employees[emp.ID] = emp
	r.store.barcodes[emp.Barcode] = emp.ID
	return emp, nil
}

func (r *employeeRepository) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []employee.Employee
	for _, emp := range r.store.employees {
		if filter.IsActive != nil && emp.IsActive != *filter.IsActive {
			continue
		}
		if filter.Search != nil && *filter.Search != "" {
			needle := strings.ToLower(*filter.Search)
			if !strings.Contains(strings.ToLower(emp.FullName), needle) &&
				!strings.Contains(strings.ToLower(emp.Barcode), needle) &&
				!strings.Contains(strings.ToLower(emp.ID), needle) {
				continue
			}
		}
		matched = append(matched, emp)
	}

	desc := strings.ToLower(filter.SortOrder) == "desc"
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		var less, equal bool
		if filter.SortBy == "created_at" {
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		} else {
			less, equal = a.FullName < b.FullName, a.FullName == b.FullName
		}
		if equal {
			return a.ID < b.ID
		}
		if desc {
			return !less
		}
		return less
	})

	return paginate(matched, filter.Page, filter.Limit), int64(len(matched)), nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
