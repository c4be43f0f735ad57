package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Health calls GET /health.
func (c *HTTPClient) Health(ctx context.Context) error {
	body, status, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	var h struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(body, &h); err != nil || !h.OK {
		return fmt.Errorf("%w: unexpected body %q", ErrUnhealthy, body)
	}
	return nil
}

// Submit posts one run and returns what the service stored.
func (c *HTTPClient) Submit(ctx context.Context, run Result) (SubmitResponse, error) {
	payload, err := json.Marshal(run)
	if err != nil {
		return SubmitResponse{}, fmt.Errorf("failed to marshal run: %w", err)
	}
	body, status, err := c.do(ctx, http.MethodPost, "/submit_result", payload)
	if err != nil {
		return SubmitResponse{}, err
	}
	if status != http.StatusOK {
		return SubmitResponse{}, fmt.Errorf("submit returned status %d: %s", status, body)
	}
	var resp SubmitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return SubmitResponse{}, fmt.Errorf("failed to decode submit response: %w", err)
	}
	return resp, nil
}

// Leaderboard fetches GET /api/leaderboard.
func (c *HTTPClient) Leaderboard(ctx context.Context) ([]Entry, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/api/leaderboard", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("leaderboard returned status %d: %s", status, body)
	}
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return entries, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
