package employee

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrInactiveEmployee      = errors.New("employee is inactive")
	ErrBarcodeExists         = errors.New("barcode already assigned to another employee")
	ErrIDExists              = errors.New("employee id already exists")
	ErrUnknownIdentifierKind = errors.New("unknown identifier kind")
)
