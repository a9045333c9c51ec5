package employee

import (
	"time"
)

// Employee is the identity a scan resolves to. Barcode defaults to ID.
type Employee struct {
	ID         string
	Barcode    string
	FullName   string
	Department string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IdentifierKind tags how a scan value should be resolved.
type IdentifierKind string

const (
	KindBarcode IdentifierKind = "barcode"
	KindID      IdentifierKind = "id"
)

// Identifier is a scan value already tagged by the caller, so lookups never
// guess between barcode and employee id.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

func ByBarcode(value string) Identifier {
	return Identifier{Kind: KindBarcode, Value: value}
}

func ByID(value string) Identifier {
	return Identifier{Kind: KindID, Value: value}
}
