// Package fetcher retrieves background image bytes by URL. A fetch is a
// single best-effort attempt; retries belong to the caller.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	ErrUnsupportedScheme = errors.New("fetcher: unsupported url scheme")
	ErrTooLarge          = errors.New("fetcher: response exceeds size limit")
	ErrEmptyBody         = errors.New("fetcher: empty response body")
)

// Fetcher returns the bytes stored at url.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Config configures the HTTP fetcher.
type Config struct {
	Timeout   time.Duration // Default: 30s.
	MaxBytes  int64         // Default: 10MB.
	UserAgent string
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxBytes <= 0 {
		c.MaxBytes = 10 * 1024 * 1024
	}
	if c.UserAgent == "" {
		c.UserAgent = "emojiart-be/1.0"
	}
}

// HTTPFetcher fetches http and https URLs.
type HTTPFetcher struct {
	client *resty.Client
	config Config
}

func New(cfg Config) *HTTPFetcher {
	cfg.defaults()
	c := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "image/*").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &HTTPFetcher{client: c, config: cfg}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	// The body limit stops reading once MaxBytes is passed, so an oversized
	// response is never held in memory.
	resp, err := f.client.R().
		SetContext(ctx).
		SetResponseBodyLimit(int(f.config.MaxBytes)).
		Get(u.String())
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, fmt.Errorf("%w: over %d bytes", ErrTooLarge, f.config.MaxBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("http status %d", resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	return body, nil
}
