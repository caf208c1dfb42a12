// Package ddragon provides a minimal client for Riot's Data Dragon static
// data CDN, used to build the icon dictionary.
package ddragon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the root of the Data Dragon CDN.
const DefaultBaseURL = "https://ddragon.leagueoflegends.com"

const (
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second
)

// Client is a rate-limited Data Dragon client.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	backoff time.Duration
	log     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server or mirror.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithRateLimit allows one request per interval.
func WithRateLimit(interval time.Duration) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(interval), 1) }
}

// WithBackoff sets the first retry delay; it doubles per attempt.
func WithBackoff(d time.Duration) Option { return func(c *Client) { c.backoff = d } }

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.log = l } }

// NewClient returns a client with a 10 req/s limit.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: requestTimeout},
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		backoff: initialBackoff,
		log:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// StatusError is a non-retryable HTTP failure.
type StatusError struct {
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.Path, e.Status)
}

// get performs a GET against the CDN and JSON-decodes the body into out.
// Network errors, 429 and 5xx responses are retried with exponential backoff.
func (c *Client) get(ctx context.Context, path string, out any) error {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.log.Debug("retrying data dragon request", "path", path, "attempt", attempt, "err", lastErr)
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			backoff = min(backoff*2, maxBackoff)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("GET %s: %w", path, err)
			continue
		}

		retry, err := decode(resp, path, out)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// decode reads one response. retry reports whether the failure is transient.
func decode(resp *http.Response, path string, out any) (retry bool, err error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decode %s: %w", path, err)
		}
		return false, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		_, _ = io.Copy(io.Discard, resp.Body)
		return true, &StatusError{Path: path, Status: resp.StatusCode}
	default:
		return false, &StatusError{Path: path, Status: resp.StatusCode}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
