// Package spendguard talks to the external spending-analysis service that
// pre-checks expenses. The caller decides what a failed check means; this
// client only reports verdicts and errors.
package spendguard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rupeeready/internal/money"
)

// Verdict statuses returned by the analysis service.
const (
	StatusBlocked = "BLOCKED"
	StatusAllowed = "ALLOWED"
	StatusWarning = "WARNING"
)

// Verdict is the analysis service's decision for one prospective expense.
type Verdict struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Blocked reports whether the verdict forbids the expense.
func (v *Verdict) Blocked() bool { return v.Status == StatusBlocked }

// The service expects the amount as a JSON number in rupees.
type checkRequest struct {
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	UserID   string  `json:"user_id"`
}

// Client is an HTTP client for the spending-analysis service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a spendguard client. The timeout bounds the whole check
// round trip.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Check submits a prospective expense for analysis. Amount is in paise and is
// sent to the service in rupees.
func (c *Client) Check(ctx context.Context, userID, category string, amount int64) (*Verdict, error) {
	body, err := json.Marshal(checkRequest{
		Amount:   money.Rupees(amount).InexactFloat64(),
		Category: category,
		UserID:   userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode check request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze-spending", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spending check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spending check returned status %d", resp.StatusCode)
	}

	var verdict Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return nil, fmt.Errorf("failed to decode spending check response: %w", err)
	}
	return &verdict, nil
}
