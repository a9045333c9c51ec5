// Package kiosk is the scanner-side half of the timeclock: it reads raw
// keystrokes, classifies barcode bursts and submits them to the server.
package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
)

// Client talks to the attendance toggle endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a rejection reported by the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("timeclock API error [%d] %s: %s", e.Status, e.Code, e.Message)
}

type envelope struct {
	Success bool                       `json:"success"`
	Message string                     `json:"message"`
	Data    *attendance.ToggleResponse `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

// Toggle submits one scanned barcode.
func (c *Client) Toggle(ctx context.Context, barcode string) (attendance.ToggleResponse, error) {
	body, err := json.Marshal(attendance.ToggleRequest{Barcode: &barcode})
	if err != nil {
		return attendance.ToggleResponse{}, fmt.Errorf("failed to encode toggle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/attendance-toggle", bytes.NewReader(body))
	if err != nil {
		return attendance.ToggleResponse{}, fmt.Errorf("failed to build toggle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return attendance.ToggleResponse{}, fmt.Errorf("failed to reach timeclock server: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return attendance.ToggleResponse{}, &APIError{
			Status:  resp.StatusCode,
			Code:    "MALFORMED_RESPONSE",
			Message: err.Error(),
		}
	}

	if resp.StatusCode != http.StatusOK || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: env.Message}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return attendance.ToggleResponse{}, apiErr
	}
	if env.Data == nil {
		return attendance.ToggleResponse{}, errors.New("toggle response has no data")
	}

	return *env.Data, nil
}
