// Package memory holds process-local repositories for STORAGE_TYPE=memory
// and for tests. All repositories created from one Store share its data.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock/internal/domain/settings"
)

type dayKey struct {
	employeeID string
	date       string
}

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	employees   map[string]employee.Employee
	barcodes    map[string]string // barcode -> employee id
	attendances map[string]attendance.Attendance
	days        map[dayKey]string // (employee, date) -> attendance id
	settings    *settings.Settings

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		employees:   make(map[string]employee.Employee),
		barcodes:    make(map[string]string),
		attendances: make(map[string]attendance.Attendance),
		days:        make(map[dayKey]string),
		now:         time.Now,
	}
}

type txKey struct{}

// WithinTransaction serializes fn against every other transaction on the
// store. Writes are not rolled back when fn fails.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
