// Package backend is the HTTP client for the transfer backend's REST API.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/erazemk/transferhub/internal/metrics"
)

// Backend endpoints.
const (
	TokenPath     = "/api/v1/token"
	TransfersPath = "/api/v1/transfers"
)

// Content types.
const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// StatusError is returned when the backend answers with a non-2xx status.
// The response body is not interpreted.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: backend returned %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Client talks to the transfer backend. All requests share one set of default
// headers; SetToken is the only way the Authorization header changes.
type Client struct {
	baseURL string
	http    *http.Client
	metrics *metrics.Metrics
	tracer  trace.Tracer

	mu      sync.RWMutex
	headers http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithMetrics records every backend call in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracer injects an OpenTelemetry tracer. By default the global tracer
// provider is used.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		headers: http.Header{},
	}
	c.headers.Set("Content-Type", contentTypeJSON)

	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer("transferhub/backend")
	}
	return c
}

// SetToken updates the default headers after a session change: a non-empty
// token is attached as a bearer token to every later request, an empty one
// removes the header. Requests already in flight keep the headers they were
// issued with.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token == "" {
		c.headers.Del("Authorization")
		return
	}
	c.headers.Set("Authorization", "Bearer "+token)
}

// DefaultHeaders returns a copy of the headers sent with every request.
func (c *Client) DefaultHeaders() http.Header {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headers.Clone()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", method, path, err)
	}

	c.mu.RLock()
	for k, v := range c.headers {
		req.Header[k] = slices.Clone(v)
	}
	c.mu.RUnlock()

	intercept(req, path)
	return req, nil
}

// intercept adjusts a request just before it is sent. The token endpoint
// expects form-encoded credentials; everything else is JSON.
func intercept(req *http.Request, path string) {
	if path == TokenPath {
		req.Header.Set("Content-Type", contentTypeForm)
	}
}

// do sends a request and decodes a 2xx JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "backend."+op, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
	start := time.Now()
	code := 0
	defer func() {
		c.metrics.ObserveBackendRequest(op, code, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	code = resp.StatusCode
	span.SetAttributes(attribute.Int("http.status_code", code))

	if code < 200 || code > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return &StatusError{Method: method, Path: path, StatusCode: code}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}
