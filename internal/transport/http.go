package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"furitingoasis/envmon/internal/monitor"
)

// HTTPPoster sends upload records as JSON to a collector endpoint.
type HTTPPoster struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// Option configures an HTTPPoster.
type Option func(*HTTPPoster)

func NewHTTPPoster(url string, opts ...Option) *HTTPPoster {
	p := &HTTPPoster{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithTimeout bounds every request, connection setup included.
func WithTimeout(timeout time.Duration) Option {
	return func(p *HTTPPoster) {
		p.httpClient.Timeout = timeout
	}
}

// WithAPIKey sends key in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(p *HTTPPoster) {
		p.apiKey = key
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *HTTPPoster) {
		p.httpClient = c
	}
}

// PostRecord POSTs rec and treats any 2xx response as success.
func (p *HTTPPoster) PostRecord(ctx context.Context, rec monitor.UploadRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("server error (status %d): %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Connect probes the endpoint. Any HTTP answer below 500 counts as reachable;
// the collector may well reject a GET on its POST route.
func (p *HTTPPoster) Connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create probe: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}
	defer resp.Body.Close()
	io.CopyN(io.Discard, resp.Body, 64)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("probe: bad status %d", resp.StatusCode)
	}
	return nil
}
