package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SimilACTrail/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithRetryWait(time.Millisecond, 2*time.Millisecond)}, opts...)
	c, err := NewClient(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewClient("ftp://example.com")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))

	_, err = NewClient("://bad")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.BaseURL())
	assert.Equal(t, "similactrail-go-sdk/"+Version, c.userAgent)
	assert.Equal(t, 3, c.retry.max)
}

func TestOptions(t *testing.T) {
	hc := &http.Client{}
	c, err := NewClient("https://api.example.com",
		WithHTTPClient(hc),
		WithUserAgent("custom/1.0"),
		WithRetryMax(0),
		WithRetryWait(time.Second, 2*time.Second),
		WithLogger(nil),
	)
	require.NoError(t, err)
	assert.Same(t, hc, c.httpClient)
	assert.Equal(t, "custom/1.0", c.userAgent)
	assert.Equal(t, 0, c.retry.max)
	assert.Equal(t, time.Second, c.retry.minWait)
	assert.Equal(t, 2*time.Second, c.retry.maxWait)
	assert.IsType(t, noopLogger{}, c.logger)

	c, err = NewClient("https://api.example.com", WithRetryMax(-1), WithRetryWait(time.Second, time.Millisecond), WithTimeout(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, c.retry.max)
	assert.Equal(t, 5*time.Second, c.retry.maxWait)
	assert.Equal(t, time.Minute, c.httpClient.Timeout)
}

func TestDo_SetsHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "similactrail-go-sdk/"+Version, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.Ready(context.Background()))
}

func TestDo_RetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.Ready(context.Background()))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDo_GivesUpAfterRetryMax(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("X-Request-ID", "req-1")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"EXT_001","message":"remote fetch failed","detail":"https://x"},"request_id":"req-1"}`))
	}, WithRetryMax(2))

	err := c.Ready(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "EXT_001", apiErr.Code)
	assert.Equal(t, "remote fetch failed", apiErr.Message)
	assert.Equal(t, "https://x", apiErr.Detail)
	assert.Equal(t, "req-1", apiErr.RequestID)
	assert.True(t, apiErr.IsServerError())
	assert.Contains(t, apiErr.Error(), "EXT_001 (HTTP 502)")
}

func TestDo_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"DAT_002","message":"column not found"}}`))
	})

	_, err := c.Options(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, apiErr.IsClientError())
	assert.False(t, apiErr.IsNotFound())
	assert.Equal(t, "DAT_002", apiErr.Code)
}

func TestDo_NonJSONError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	err := c.Ready(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
	assert.Equal(t, "Not Found", apiErr.Code)
	assert.Equal(t, "gone", apiErr.Message)
}

func TestDo_RateLimitHonoursRetryAfter(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"COMMON_012","message":"too many requests"}}`))
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	require.NoError(t, c.Ready(context.Background()))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestDo_RateLimitExhausted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"COMMON_012","message":"too many requests"}}`))
	}, WithRetryMax(1))

	err := c.Ready(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsRateLimited())
	assert.True(t, apiErr.HasRetryAfter)
	assert.Equal(t, time.Duration(0), apiErr.RetryAfter)
	assert.Equal(t, "COMMON_012", apiErr.Code)
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, WithRetryWait(time.Hour, time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.Ready(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseRetryAfter(t *testing.T) {
	d, ok := parseRetryAfter("3")
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, d)

	_, ok = parseRetryAfter("soon")
	assert.False(t, ok)
	_, ok = parseRetryAfter("")
	assert.False(t, ok)
	_, ok = parseRetryAfter("-1")
	assert.False(t, ok)
}

func TestRetryPolicy_Backoff(t *testing.T) {
	p := retryPolicy{max: 70, minWait: 100 * time.Millisecond, maxWait: time.Second}
	b := p.newBackOff()
	for attempt := 1; attempt <= 70; attempt++ {
		d := b.NextBackOff()
		assert.GreaterOrEqual(t, d, 75*time.Millisecond)
		assert.LessOrEqual(t, d, time.Second+time.Second/4)
	}
	assert.Equal(t, backoff.Stop, b.NextBackOff())
}

func TestRetryPolicy_RetryAfterHint(t *testing.T) {
	b := retryPolicy{max: 2, minWait: time.Millisecond, maxWait: time.Millisecond}.newBackOff()
	b.hint, b.hasHint = 3*time.Second, true
	assert.Equal(t, 3*time.Second, b.NextBackOff())
	assert.LessOrEqual(t, b.NextBackOff(), 2*time.Millisecond)
	assert.Equal(t, backoff.Stop, b.NextBackOff())
}

//Personal.AI order the ending
