// Package fetch downloads remote assets (the sample dataset and the map logo)
// over HTTP with bounded retries.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SimilACTrail/pkg/errors"
)

const userAgent = "similactrail-fetch/1.0"

// Fetcher downloads a URL into memory.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Config holds HTTP fetcher settings.
type Config struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxBytes     int64         `mapstructure:"max_bytes"`
	RetryMax     int           `mapstructure:"retry_max"`
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
}

func (c *Config) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 32 << 20
	}
	if c.RetryMax < 0 {
		c.RetryMax = 0
	}
	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = 500 * time.Millisecond
	}
	if c.RetryWaitMax < c.RetryWaitMin {
		c.RetryWaitMax = 5 * time.Second
	}
}

type httpFetcher struct {
	client *http.Client
	cfg    Config
	logger logging.Logger
}

// Option customises the fetcher.
type Option func(*httpFetcher)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *httpFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// NewHTTPFetcher creates a Fetcher for http and https URLs.
func NewHTTPFetcher(cfg Config, logger logging.Logger, opts ...Option) Fetcher {
	cfg.applyDefaults()
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	f := &httpFetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger.Named("fetch"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *httpFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.New(errors.ErrCodeExternalFetchFailed, "URL must be absolute http or https").
			WithDetail(fmt.Sprintf("url=%q", rawURL))
	}

	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		b, retry, err := f.once(ctx, rawURL)
		if err != nil && !retry {
			return backoff.Permanent(err)
		}
		body = b
		return err
	}
	notify := func(err error, wait time.Duration) {
		f.logger.Debug("retrying fetch", logging.String("url", rawURL), logging.Int("attempt", attempt),
			logging.Duration("backoff", wait), logging.Err(err))
	}
	if err := backoff.RetryNotify(op, f.retryPolicy(ctx), notify); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalFetchFailed, "fetch remote asset").
			WithDetail(fmt.Sprintf("url=%q", rawURL))
	}
	return body, nil
}

// retryPolicy allows RetryMax retries with jittered exponential waits between
// RetryWaitMin and RetryWaitMax, and stops early when ctx is done.
func (f *httpFetcher) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.cfg.RetryWaitMin
	b.MaxInterval = f.cfg.RetryWaitMax
	b.RandomizationFactor = 0.25
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(f.cfg.RetryMax)), ctx)
}

// once performs one request and reports whether a failure is worth retrying.
func (f *httpFetcher) once(ctx context.Context, rawURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.New().String())

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("fetch failed", logging.String("url", rawURL), logging.Err(err))
		return nil, true, err
	}
	defer resp.Body.Close()
	f.logger.Debug("fetched", logging.String("url", rawURL), logging.Int("status", resp.StatusCode), logging.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 400 {
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, true, err
	}
	if int64(len(body)) > f.cfg.MaxBytes {
		return nil, false, fmt.Errorf("response exceeds %d bytes", f.cfg.MaxBytes)
	}
	return body, false, nil
}

//Personal.AI order the ending
