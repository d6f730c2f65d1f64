// Package catalog talks to the Open Library HTTP API.
//
// The Client is the only place that does network I/O for book data. It
// issues GET requests, decodes JSON and surfaces transport, status and parse
// failures as wrapped errors. Callers decide what a failure means for them.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Open Library endpoint.
const DefaultBaseURL = "https://openlibrary.org"

const (
	defaultTimeout    = 10 * time.Second
	defaultRate       = 2.0
	defaultMaxRetries = 2
	maxRetryAfter     = 30 * time.Second
	maxBodyBytes      = 8 << 20
)

// retryBackoffs is indexed by attempt. Tests shrink it.
var retryBackoffs = []time.Duration{500 * time.Millisecond, 1 * time.Second, 2 * time.Second, 4 * time.Second}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int // negative disables retries
}

// Client is a throttled Open Library client. Safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "booksearch/0.1 (https://github.com/abelbrown/booksearch)"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRate
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	burst := int(opts.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		client:     &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst),
		maxRetries: opts.MaxRetries,
	}
}

// BaseURL returns the catalog root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// getJSON fetches url and decodes a 200 response body into v.
// Retries on 429 and 5xx, honouring Retry-After on 429. Transport errors are
// returned immediately.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("catalog: rate limiter wait failed: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("catalog: failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("catalog: request cancelled: %w", ctx.Err())
			}
			return fmt.Errorf("catalog: request failed: %w", err)
		}

		if resp.StatusCode == http.StatusOK {
			err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(v)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("catalog: failed to parse response: %w", err)
			}
			return nil
		}

		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		lastErr = fmt.Errorf("catalog: %s returned status %d: %s", url, resp.StatusCode, string(body))

		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		if !retryable || attempt == c.maxRetries {
			break
		}

		delay := backoff(attempt)
		if resp.StatusCode == http.StatusTooManyRequests {
			if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
				delay = time.Duration(secs) * time.Second
				if delay > maxRetryAfter {
					delay = maxRetryAfter
				}
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("catalog: request cancelled during retry: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return lastErr
}

func backoff(attempt int) time.Duration {
	if attempt >= len(retryBackoffs) {
		return retryBackoffs[len(retryBackoffs)-1]
	}
	return retryBackoffs[attempt]
}
