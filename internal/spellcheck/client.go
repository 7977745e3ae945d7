// Package spellcheck is a client for the remote spellcheck API.
package spellcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 8 << 20 // 8MiB

// RequestDecorator modifies an outgoing request before it is sent, for
// example to attach credentials.
type RequestDecorator func(*http.Request) error

// TokenSource returns the current bearer token. An empty token means the
// request is sent without an Authorization header.
type TokenSource func() string

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("spellcheck api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("spellcheck api: status %d: %s", e.StatusCode, e.Detail)
}

// Client talks to the spellcheck API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	decorators []RequestDecorator
	group      singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithRequestDecorator appends a decorator that runs on every request.
func WithRequestDecorator(d RequestDecorator) Option {
	return func(c *Client) {
		c.decorators = append(c.decorators, d)
	}
}

// WithBearerToken attaches "Authorization: Bearer <token>" to every request
// for which tokens returns a non-empty token.
func WithBearerToken(tokens TokenSource) Option {
	return WithRequestDecorator(BearerDecorator(tokens))
}

// BearerDecorator returns a RequestDecorator that sets the bearer token.
func BearerDecorator(tokens TokenSource) RequestDecorator {
	return func(req *http.Request) error {
		if token := tokens(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// StaticToken returns a TokenSource that always returns token.
func StaticToken(token string) TokenSource {
	return func() string { return token }
}

// SwappableToken is a TokenSource whose token can be replaced while requests
// are in flight.
type SwappableToken struct {
	token atomic.Value
}

// NewSwappableToken creates a SwappableToken holding token.
func NewSwappableToken(token string) *SwappableToken {
	st := &SwappableToken{}
	st.token.Store(token)
	return st
}

// Set replaces the current token.
func (st *SwappableToken) Set(token string) {
	st.token.Store(token)
}

// Token returns the current token.
func (st *SwappableToken) Token() string {
	token, _ := st.token.Load().(string)
	return token
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Check sends text to the API and returns its suggestions. Concurrent calls
// with identical text share a single request. The shared request is detached
// from any one caller, so a caller that gives up only stops its own wait.
func (c *Client) Check(ctx context.Context, text string) (Result, error) {
	ch := c.group.DoChan(text, func() (any, error) {
		flightCtx, cancel := c.flightContext(ctx)
		defer cancel()
		return c.check(flightCtx, text)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return Result{}, res.Err
	}

	// Suggestions are copied so that callers sharing a flight never alias.
	result := res.Val.(Result)
	result.Suggestions = append([]Suggestion(nil), result.Suggestions...)
	if result.Suggestions == nil {
		result.Suggestions = []Suggestion{}
	}

	return result, nil
}

// flightContext keeps the values of ctx but not its cancellation, bounded by
// the client timeout.
func (c *Client) flightContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.httpClient.Timeout > 0 {
		return context.WithTimeout(detached, c.httpClient.Timeout)
	}
	return context.WithCancel(detached)
}

func (c *Client) check(ctx context.Context, text string) (Result, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Result{}, fmt.Errorf("failed to encode spellcheck request: %w", err)
	}

	var result Result
	if err := c.post(ctx, "/spellcheck", body, &result); err != nil {
		return Result{}, err
	}

	return result, nil
}

// post sends a JSON body to path and decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	for _, decorate := range c.decorators {
		if err := decorate(req); err != nil {
			return fmt.Errorf("failed to decorate request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spellcheck request failed: %w", err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read spellcheck response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode spellcheck response: %w", err)
	}

	return nil
}

// errorDetail extracts a message from an error response. The API reports
// errors as {"detail": "..."}; anything else is returned as trimmed text.
func errorDetail(data []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}

	if err := json.Unmarshal(data, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}

	return strings.TrimSpace(string(data))
}
