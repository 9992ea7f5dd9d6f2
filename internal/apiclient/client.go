// Package apiclient is the MediaLog Resource Client. It turns logical
// operations into calls against the REST API and normalizes every failure
// into a single displayable message.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/mmynk/medialog/internal/errors"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRPS     = 10.0
	defaultBurst   = 5
	userAgent      = "MediaLog/1.0"
)

// TokenSource supplies the bearer token for outgoing requests.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is a rate-limited MediaLog API client.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	tokens  TokenSource
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client is used as
// is; WithTimeout does not modify it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client. It has
// no effect when WithHTTPClient supplies the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithTokenSource attaches bearer tokens from src to every request.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) { c.tokens = src }
}

// WithRateLimit paces outbound requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c
}

// do executes a request and decodes a successful body into out.
// It reports whether out was populated: a 2xx response with an empty or
// unparsable body is "null data", not an error.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, apperrors.Wrap(err, apperrors.CodeNetwork, err.Error())
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return false, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("api request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.CodeNetwork, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.CodeNetwork, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := responseError(resp.StatusCode, raw)
		c.logger.Debug("api request failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"error", apiErr.Message,
		)
		return false, apiErr
	}

	if out == nil {
		return false, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		c.logger.Debug("api response not parsable, treating as null", "path", path, "error", err)
		return false, nil
	}
	return true, nil
}
