package chart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"policyexplorer/internal/logging"

	"github.com/google/uuid"
)

// AgeChartPath is the endpoint serving per-age impacts of a reform.
const AgeChartPath = "/age-chart"

// maxErrorBody bounds how much of a failed response is kept for display.
const maxErrorBody = 512

// StatusError is a non-2xx response from the simulation API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("age chart request failed: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("age chart request failed: %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// Client calls the simulation API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchAgeChart posts the reform submission and decodes the age chart.
func (c *Client) FetchAgeChart(ctx context.Context, payload any) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+AgeChartPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := logging.Get(logging.CategoryChart).With("request_id", requestID)
	log.Debug("POST %s (%d bytes)", req.URL, len(body))

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("age chart transport error: %v", err)
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("age chart returned %d", resp.StatusCode)
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var envelope struct {
		AgeChart *Figure `json:"age_chart"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode age chart: %w", err)
	}
	if envelope.AgeChart == nil {
		return nil, fmt.Errorf("decode age chart: response has no age_chart")
	}
	log.Debug("age chart decoded with %d series", len(envelope.AgeChart.Data))
	return &Result{AgeChart: *envelope.AgeChart}, nil
}
