package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

func fastConfig() Config {
	return Config{RetryMax: 2, RetryWaitMin: time.Millisecond, RetryWaitMax: 2 * time.Millisecond}
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("ID,SMILES,pIC50\n"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(fastConfig(), logging.NewNopLogger())
	body, err := f.Fetch(context.Background(), srv.URL+"/sample.csv")
	require.NoError(t, err)
	assert.Equal(t, "ID,SMILES,pIC50\n", string(body))
}

func TestFetch_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := NewHTTPFetcher(fastConfig(), nil).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestFetch_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(fastConfig(), nil).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalFetchFailed))
	var ae *errors.AppError
	require.True(t, errors.As(err, &ae))
	assert.Contains(t, ae.Cause.Error(), "404")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.MaxBytes = 10
	_, err := NewHTTPFetcher(cfg, nil).Fetch(context.Background(), srv.URL)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalFetchFailed))
}

func TestFetch_InvalidURL(t *testing.T) {
	f := NewHTTPFetcher(fastConfig(), nil)
	for _, u := range []string{"", "ftp://example.com/x", "/local/path", "http://"} {
		_, err := f.Fetch(context.Background(), u)
		assert.True(t, errors.IsCode(err, errors.ErrCodeExternalFetchFailed), u)
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := fastConfig()
	cfg.RetryWaitMin = time.Second
	_, err := NewHTTPFetcher(cfg, nil).Fetch(ctx, srv.URL)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalFetchFailed))
}

func TestRetryPolicy_Bounded(t *testing.T) {
	f := NewHTTPFetcher(Config{RetryMax: 4, RetryWaitMin: 10 * time.Millisecond, RetryWaitMax: 40 * time.Millisecond}, nil).(*httpFetcher)
	b := f.retryPolicy(context.Background())
	for i := 0; i < 4; i++ {
		d := b.NextBackOff()
		assert.GreaterOrEqual(t, d, 7*time.Millisecond)
		assert.LessOrEqual(t, d, 50*time.Millisecond)
	}
	assert.Equal(t, backoff.Stop, b.NextBackOff())
}

func TestRetryPolicy_StopsWhenContextDone(t *testing.T) {
	f := NewHTTPFetcher(fastConfig(), nil).(*httpFetcher)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, backoff.Stop, f.retryPolicy(ctx).NextBackOff())
}

func TestFetch_GivesUpAfterRetryMax(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(fastConfig(), nil).Fetch(context.Background(), srv.URL)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExternalFetchFailed))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

//Personal.AI order the ending
