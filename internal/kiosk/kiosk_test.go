package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock/internal/pkg/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toggleServer(t *testing.T, handler func(barcode string) (int, any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/attendance-toggle", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req attendance.ToggleRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) || !assert.NotNil(t, req.Barcode) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		status, body := handler(*req.Barcode)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ToggleSuccess(t *testing.T) {
	srv := toggleServer(t, func(barcode string) (int, any) {
		return http.StatusOK, map[string]any{
			"success": true,
			"message": "Checked out",
			"data": attendance.ToggleResponse{
				Employee:    employee.EmployeeResponse{ID: "EMP-001", Barcode: barcode, FullName: "Budi Santoso"},
				Action:      attendance.ActionCheckOut,
				HoursWorked: 8,
			},
		}
	})

	client := NewClient(srv.URL+"/", time.Second)
	result, err := client.Toggle(context.Background(), "MOJV040815")
	require.NoError(t, err)
	assert.Equal(t, "EMP-001", result.Employee.ID)
	assert.Equal(t, "MOJV040815", result.Employee.Barcode)
	assert.Equal(t, attendance.ActionCheckOut, result.Action)
	assert.Equal(t, 8.0, result.HoursWorked)
}

func TestClient_ToggleRejected(t *testing.T) {
	srv := toggleServer(t, func(string) (int, any) {
		return http.StatusConflict, map[string]any{
			"success": false,
			"message": "Please wait before scanning again",
			"error": map[string]any{
				"code":    "COOLDOWN_ACTIVE",
				"message": "Please wait before scanning again",
				"details": map[string]string{"remaining_seconds": "55"},
			},
		}
	})

	_, err := NewClient(srv.URL, time.Second).Toggle(context.Background(), "MOJV040815")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "COOLDOWN_ACTIVE", apiErr.Code)
	assert.Equal(t, "Already scanned. Try again in 55s.", Describe(err))
}

func TestClient_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Toggle(context.Background(), "MOJV040815")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "MALFORMED_RESPONSE", apiErr.Code)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&APIError{Code: "EMPLOYEE_NOT_FOUND"}, "Card not recognised."},
		{&APIError{Code: "INACTIVE_EMPLOYEE"}, "This card is no longer active."},
		{&APIError{Code: "COOLDOWN_ACTIVE"}, "Already scanned. Please wait."},
		{&APIError{Code: "CYCLE_COMPLETE"}, "Attendance already completed for today."},
		{&APIError{Code: "SOMETHING_ELSE", Message: "Teapot"}, "Teapot"},
		{errors.New("dial tcp: connection refused"), "Cannot reach the timeclock server. Please try again."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.err))
	}
}

type recordingToggler struct {
	mu       sync.Mutex
	barcodes []string
}

func (r *recordingToggler) Toggle(ctx context.Context, barcode string) (attendance.ToggleResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.barcodes = append(r.barcodes, barcode)
	if barcode == "UNKNOWN" {
		return attendance.ToggleResponse{}, &APIError{Status: http.StatusNotFound, Code: "EMPLOYEE_NOT_FOUND"}
	}
	return attendance.ToggleResponse{
		Employee: employee.EmployeeResponse{ID: barcode, FullName: "Budi Santoso"},
		Action:   attendance.ActionCheckIn,
	}, nil
}

func sendString(src *scanner.ChanSource, s string, start time.Time, gap time.Duration) time.Time {
	at := start
	for _, r := range s {
		src.Send(scanner.Event{Rune: r, At: at})
		at = at.Add(gap)
	}
	src.Send(scanner.Event{Terminator: true, At: at})
	return at
}

func TestKiosk_Run(t *testing.T) {
	src := scanner.NewChanSource(64)
	toggler := &recordingToggler{}
	var out bytes.Buffer

	k := New(scanner.NewClassifier(scanner.DefaultOptions()), toggler, &out)

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	at := sendString(src, "MOJV040815", start, 20*time.Millisecond)
	// Typed slowly by a human: never submitted.
	at = sendString(src, "EMP-001", at.Add(time.Second), 300*time.Millisecond)
	sendString(src, "UNKNOWN", at.Add(time.Second), 20*time.Millisecond)
	src.Close()

	require.NoError(t, k.Run(context.Background(), src))

	assert.Equal(t, []string{"MOJV040815", "UNKNOWN"}, toggler.barcodes)
	lines := strings.Split(strings.TrimSpace(out.String()), "\r\n")
	assert.Equal(t, []string{"Budi Santoso checked in. Welcome!", "Card not recognised."}, lines)
}

func TestReadKeys(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	input := io.MultiReader(strings.NewReader("AB\r"), strings.NewReader("é\n"), strings.NewReader("\x03ignored"))

	events := make(chan scanner.Event, 16)
	readKeys(context.Background(), input, func() time.Time { return now }, events)
	close(events)

	var got []scanner.Event
	for ev := range events {
		got = append(got, ev)
	}
	require.Len(t, got, 5)
	assert.Equal(t, 'A', got[0].Rune)
	assert.Equal(t, 'B', got[1].Rune)
	assert.True(t, got[2].Terminator)
	assert.Equal(t, 'é', got[3].Rune)
	assert.True(t, got[4].Terminator)
	assert.Equal(t, now, got[0].At)
}
