// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package apiclient is the single shared HTTP client for the business API.
// It keeps a set of default outgoing headers that the session layer mutates to
// attach or detach the session token; every request made through the client,
// by any command, carries whatever that set holds at send time.
//
// The package also knows the credential endpoints (/auth/login, /auth/register)
// and provides JSON helpers that the resource commands use.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"bizdesk/cli/internal/logging"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// TokenHeader carries the raw session token; the API does not use a Bearer scheme.
const TokenHeader = "x-auth-token"

// RequestIDHeader correlates a CLI request with API logs.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout bounds every request unless overridden with WithTimeout.
const DefaultTimeout = 10 * time.Second

// UnauthorizedFunc is invoked when an authenticated call is rejected with 401.
type UnauthorizedFunc func(ctx context.Context, err *APIError)

// Client implements calls to the business API over REST.
type Client struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:5000/api")
	baseURL string
	// endpoints contains the URL paths for the API resources
	endpoints Endpoints
	// client is the underlying HTTP client with configured timeout
	client    *http.Client
	userAgent string
	logger    *pterm.Logger

	mu             sync.RWMutex
	headers        http.Header
	onUnauthorized UnauthorizedFunc
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the overall per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithEndpoints overrides API paths; empty fields keep their defaults.
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) { c.endpoints = e.withDefaults() }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the structured logger used for request tracing.
func WithLogger(l *pterm.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates the API client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   NormalizeBaseURL(baseURL),
		endpoints: DefaultEndpoints(),
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: "bizdesk-cli/1.0",
		logger:    logging.Discard(),
		headers:   make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Endpoints returns the effective endpoint paths.
func (c *Client) Endpoints() Endpoints { return c.endpoints }

// SetDefaultHeader sets a header sent with every subsequent request.
func (c *Client) SetDefaultHeader(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Set(name, value)
}

// DeleteDefaultHeader stops sending name with subsequent requests.
func (c *Client) DeleteDefaultHeader(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers.Del(name)
}

// DefaultHeader returns the current default value for name.
func (c *Client) DefaultHeader(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vals := c.headers.Values(name)
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// OnUnauthorized registers fn to run when an authenticated, non-credential call
// returns 401. Passing nil removes the hook.
func (c *Client) OnUnauthorized(fn UnauthorizedFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// Get performs GET path and decodes the JSON response into out (may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs POST path with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put performs PUT path with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete performs DELETE path.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	// Snapshot defaults at send time so a concurrent logout never leaks half a header set.
	c.mu.RLock()
	for k, vals := range c.headers {
		req.Header[k] = append([]string(nil), vals...)
	}
	hook := c.onUnauthorized
	c.mu.RUnlock()
	hadToken := req.Header.Get(TokenHeader) != ""

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", c.logger.Args(
			"method", method, "path", path, "request_id", requestID, "error", logging.Mask(err.Error()),
		))
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", c.logger.Args(
		"method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(start).Round(time.Millisecond),
	))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		msg, source := extractMessage(b)
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Source:     source,
			Method:     method,
			Path:       path,
		}
		if resp.StatusCode == http.StatusUnauthorized && hadToken && hook != nil && !c.endpoints.IsAuthPath(path) {
			hook(ctx, apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
