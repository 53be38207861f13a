// Package client talks to the rental REST API. Every call returns either the
// decoded payload or one of the typed failures in errors.go.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vehicle-rental-admin/internal/logger"

	"github.com/google/uuid"
)

const serviceName = "rental-api"

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cacheBust  bool
	now        func() time.Time
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every call. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithCacheBust toggles the _t query parameter on vehicle reads.
func WithCacheBust(enabled bool) Option {
	return func(c *Client) { c.cacheBust = enabled }
}

func withClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		cacheBust:  true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// fresh appends the cache-busting timestamp to a read path.
func (c *Client) fresh(path string) string {
	if !c.cacheBust {
		return path
	}
	q := url.Values{}
	q.Set("_t", strconv.FormatInt(c.now().UnixMilli(), 10))
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// do sends one request and decodes a successful JSON body into out. out may
// be nil when the caller does not need the payload.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	operation := method + " " + path
	requestID := uuid.NewString()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", operation, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.ExternalServiceCall(serviceName, operation, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = &TransportError{Op: operation, Err: err}
		logger.ExternalServiceResult(serviceName, operation, err, "request_id", requestID)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		err = &TransportError{Op: operation, Err: fmt.Errorf("read body: %w", err)}
		logger.ExternalServiceResult(serviceName, operation, err, "request_id", requestID)
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := newAPIError(resp.StatusCode, resp.Header.Get("Content-Type"), raw)
		logger.ExternalServiceResult(serviceName, operation, err, "request_id", requestID, "status", resp.StatusCode)
		return err
	}

	if out != nil {
		if err := decodeJSON(resp.Header.Get("Content-Type"), raw, out); err != nil {
			err = &TransportError{Op: operation, Err: err}
			logger.ExternalServiceResult(serviceName, operation, err, "request_id", requestID, "status", resp.StatusCode)
			return err
		}
	}

	logger.ExternalServiceResult(serviceName, operation, nil, "request_id", requestID, "status", resp.StatusCode)
	return nil
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

func decodeJSON(contentType string, raw []byte, out any) error {
	if !isJSON(contentType) {
		return fmt.Errorf("unexpected content type %q", contentType)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
