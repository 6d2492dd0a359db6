// Package countapi implements the CountSource port against the venue's
// people-counting REST service.
package countapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/exhibitops/floorwatch/internal/domain/model"
	"github.com/exhibitops/floorwatch/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CountSource = (*Client)(nil)

// Client implements the driven.CountSource port over HTTP. Responses are
// cached through httpcache so an unchanged upstream answer costs a
// conditional request instead of a full body transfer.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a count API client for the given base URL. The token is
// optional; when set it is sent as a bearer Authorization header.
func NewClient(baseURL, token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: httpcache.NewMemoryCacheTransport(),
			Timeout:   30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing with an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// countRecord is the upstream wire format for one observed count.
type countRecord struct {
	AreaID    int64     `json:"area_id"`
	Visitors  int       `json:"amount_visitors"`
	Timestamp time.Time `json:"timestamp"`
}

// FetchCounts retrieves the visitor counts observed inside the given time
// window. A zero window asks the upstream service for its latest counts
// without a time limit.
func (c *Client) FetchCounts(ctx context.Context, window time.Duration) ([]model.VisitorSample, error) {
	endpoint := c.baseURL + "/v1/counts"
	if window > 0 {
		minutes := int(window / time.Minute)
		endpoint += "?" + url.Values{"window_minutes": {strconv.Itoa(minutes)}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build counts request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch counts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read a bounded slice of the body for the error message.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch counts: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var records []countRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode counts response: %w", err)
	}

	samples := make([]model.VisitorSample, 0, len(records))
	for _, rec := range records {
		samples = append(samples, model.VisitorSample{
			AreaID:     rec.AreaID,
			Count:      rec.Visitors,
			ObservedAt: rec.Timestamp,
		})
	}

	return samples, nil
}
