package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "employees_barcode_key"}
	wrapped := fmt.Errorf("failed to create employee: %w", pgErr)

	assert.True(t, IsUniqueViolation(wrapped, ""))
	assert.True(t, IsUniqueViolation(wrapped, "employees_barcode_key"))
	assert.False(t, IsUniqueViolation(wrapped, "employees_pkey"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("boom"), ""))
}

func TestTxFromContext_Empty(t *testing.T) {
	_, ok := TxFromContext(context.Background())
	assert.False(t, ok)
}
