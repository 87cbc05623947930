// Package client is a Go SDK for the SimilACTrail HTTP API.
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

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/turtacn/SimilACTrail/pkg/errors"
	"github.com/turtacn/SimilACTrail/pkg/types/common"
)

const Version = "0.1.0"

// ErrInvalidConfig is returned by NewClient for an unusable base URL.
var ErrInvalidConfig = errors.New(errors.ErrCodeBadRequest, "invalid client configuration")

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Infof(string, ...interface{})  {}
func (noopLogger) Errorf(string, ...interface{}) {}

// Client talks to one SimilACTrail API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     Logger
	retry      retryPolicy
}

// retryPolicy allows max retries after the first attempt, waiting
// exponentially from minWait up to maxWait with 25% jitter.
type retryPolicy struct {
	max     int
	minWait time.Duration
	maxWait time.Duration
}

func (p retryPolicy) newBackOff() *hintedBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.minWait
	b.MaxInterval = p.maxWait
	b.RandomizationFactor = 0.25
	b.MaxElapsedTime = 0
	b.Reset()
	return &hintedBackOff{BackOff: backoff.WithMaxRetries(b, uint64(p.max))}
}

// hintedBackOff substitutes a server Retry-After hint for the next computed
// wait, provided retries remain.
type hintedBackOff struct {
	backoff.BackOff
	hint    time.Duration
	hasHint bool
}

func (h *hintedBackOff) NextBackOff() time.Duration {
	next := h.BackOff.NextBackOff()
	if next == backoff.Stop || !h.hasHint {
		return next
	}
	h.hasHint = false
	return h.hint
}

// APIError is an error response from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Detail     string
	RequestID  string
	// RetryAfter is the server's Retry-After hint; see HasRetryAfter.
	RetryAfter    time.Duration
	HasRetryAfter bool
}

func (e *APIError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return fmt.Sprintf("similactrail: %s (HTTP %d): %s [request_id=%s]", e.Code, e.StatusCode, msg, e.RequestID)
}

func (e *APIError) IsNotFound() bool    { return e.StatusCode == http.StatusNotFound }
func (e *APIError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }
func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 && e.StatusCode < 600 }

// IsClientError reports a rejected request (bad columns, parameters, data).
func (e *APIError) IsClientError() bool { return e.StatusCode >= 400 && e.StatusCode < 500 }

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrInvalidConfig
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid baseURL: %v", ErrInvalidConfig, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: baseURL scheme must be http or https", ErrInvalidConfig)
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		userAgent:  "similactrail-go-sdk/" + Version,
		logger:     noopLogger{},
		retry:      retryPolicy{max: 3, minWait: 500 * time.Millisecond, maxWait: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server address without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// body produces a fresh request body for every attempt.
type body func() (io.Reader, string, error)

type response struct {
	status int
	header http.Header
	data   []byte
}

// do performs a request with retries on network errors, 5xx and 429.
func (c *Client) do(ctx context.Context, method, path string, newBody body) (*response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	fullURL := c.baseURL + path

	var out *response
	attempt := 0
	policy := c.retry.newBackOff()
	op := func() error {
		attempt++
		var reader io.Reader
		contentType := ""
		if newBody != nil {
			r, ct, err := newBody()
			if err != nil {
				return backoff.Permanent(fmt.Errorf("failed to encode request body: %w", err))
			}
			reader, contentType = r, ct
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		requestID := uuid.NewString()
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("X-Request-ID", requestID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			c.logger.Errorf("request failed: %v", err)
			return err
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}
		c.logger.Debugf("%s %s %d (%v)", method, path, resp.StatusCode, time.Since(start))

		if resp.StatusCode >= 400 {
			apiErr := decodeError(resp.StatusCode, resp.Header, data, requestID)
			if !shouldRetry(resp.StatusCode) {
				return backoff.Permanent(apiErr)
			}
			policy.hint, policy.hasHint = apiErr.RetryAfter, apiErr.IsRateLimited() && apiErr.HasRetryAfter
			return apiErr
		}
		out = &response{status: resp.StatusCode, header: resp.Header, data: data}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Debugf("retry attempt %d after %v", attempt, wait)
	}
	if err := backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeError(status int, header http.Header, data []byte, requestID string) *APIError {
	apiErr := &APIError{StatusCode: status, RequestID: requestID}
	if id := header.Get("X-Request-ID"); id != "" {
		apiErr.RequestID = id
	}
	apiErr.RetryAfter, apiErr.HasRetryAfter = parseRetryAfter(header.Get("Retry-After"))

	var env common.APIResponse[json.RawMessage]
	if err := json.Unmarshal(data, &env); err == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Detail = env.Error.Detail
		return apiErr
	}
	apiErr.Code = http.StatusText(status)
	apiErr.Message = strings.TrimSpace(string(data))
	return apiErr
}

// parseRetryAfter accepts the delay-seconds form only.
func parseRetryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds < 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

func shouldRetry(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

func decodeData[T any](resp *response) (*T, error) {
	var env common.APIResponse[T]
	if err := json.NewDecoder(bytes.NewReader(resp.data)).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &env.Data, nil
}

//Personal.AI order the ending
