package employee

import "context"

// EmployeeRepository is the record store for employees. Implementations must
// enforce barcode uniqueness and return ErrEmployeeNotFound for missing rows.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByBarcode(ctx context.Context, barcode string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
}
