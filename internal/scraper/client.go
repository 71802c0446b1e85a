// Package scraper builds figure drafts from Wikipedia and FamousBirthdays.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/wikistars5/wikistars5/internal/config"
	"github.com/wikistars5/wikistars5/internal/retry"
)

var (
	ErrNoMatch  = errors.New("no matching page found")
	ErrNotFound = errors.New("page not found")
)

const maxBodyBytes = 4 << 20

// Client is the HTTP client shared by every source. It sets the User-Agent,
// waits on a token bucket before each request, retries transient failures
// and caches successful bodies.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *Cache
	userAgent  string
	policy     retry.Policy
	logger     zerolog.Logger
}

// NewClient creates a client from scraper configuration.
func NewClient(cfg config.ScraperConfig, logger zerolog.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		cache:      NewCache(CacheConfig{TTL: time.Duration(cfg.CacheTTLMinutes) * time.Minute}),
		userAgent:  cfg.UserAgent,
		policy:     retry.DefaultPolicy(),
		logger:     logger.With().Str("component", "scraper").Logger(),
	}
}

// Close stops the cache sweep.
func (c *Client) Close() {
	c.cache.Stop()
}

// Get fetches url and returns its body. A 404 is ErrNotFound.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	if body, ok := c.cache.Get(url); ok {
		return body, nil
	}

	var body []byte
	err := retry.Do(ctx, "scrape "+url, c.policy, c.logger, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		var err error
		body, err = c.fetch(ctx, url)
		return err
	})
	if err != nil {
		var statusErr *retry.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}

	c.cache.Set(url, body)
	return body, nil
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
