package kiosk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/pkg/scanner"
)

// Toggler submits a scanned barcode.
type Toggler interface {
	Toggle(ctx context.Context, barcode string) (attendance.ToggleResponse, error)
}

// Kiosk wires an input source through the classifier to the server and
// prints one line per scan.
type Kiosk struct {
	classifier *scanner.Classifier
	toggler    Toggler
	out        io.Writer
}

func New(classifier *scanner.Classifier, toggler Toggler, out io.Writer) *Kiosk {
	return &Kiosk{classifier: classifier, toggler: toggler, out: out}
}

// Run blocks until the source ends or ctx is cancelled. Scans are submitted
// one at a time, in the order they were read.
func (k *Kiosk) Run(ctx context.Context, src scanner.Source) error {
	err := k.classifier.Run(ctx, src, func(candidate string) {
		k.submit(ctx, candidate)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (k *Kiosk) submit(ctx context.Context, barcode string) {
	result, err := k.toggler.Toggle(ctx, barcode)
	if err != nil {
		slog.Info("Scan rejected", "barcode", barcode, "error", err)
		k.println(Describe(err))
		return
	}

	slog.Info("Scan accepted", "barcode", barcode, "employee_id", result.Employee.ID, "action", result.Action)
	switch result.Action {
	case attendance.ActionCheckIn:
		k.println(fmt.Sprintf("%s checked in. Welcome!", result.Employee.FullName))
	default:
		k.println(fmt.Sprintf("%s checked out after %.2f hours.", result.Employee.FullName, result.HoursWorked))
	}
}

// Raw mode disables output post-processing, so lines end in CRLF.
func (k *Kiosk) println(line string) {
	fmt.Fprint(k.out, line+"\r\n")
}

// Describe renders a toggle failure for the kiosk display.
func Describe(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "Cannot reach the timeclock server. Please try again."
	}

	switch apiErr.Code {
	case "EMPLOYEE_NOT_FOUND":
		return "Card not recognised."
	case "INACTIVE_EMPLOYEE":
		return "This card is no longer active."
	case "COOLDOWN_ACTIVE":
		if s, ok := apiErr.Details["remaining_seconds"]; ok {
			return fmt.Sprintf("Already scanned. Try again in %ss.", s)
		}
		return "Already scanned. Please wait."
	case "CYCLE_COMPLETE":
		return "Attendance already completed for today."
	case "INVALID_INPUT":
		return "Scan not understood. Please scan again."
	}
	return apiErr.Message
}
