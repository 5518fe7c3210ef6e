package ical

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/escapehouses/backend/internal/domain"
)

// userAgent identifies this service to third-party calendar hosts.
const userAgent = "EscapeHouses-Calendar-Sync/1.0"

// DefaultCacheTTL is how long a fetched feed body is reused before the host
// is contacted again. A politeness measure toward external calendar hosts,
// not a correctness requirement.
const DefaultCacheTTL = 5 * time.Minute

// fetchTimeout bounds a single feed fetch so a hanging third-party host can
// never hang the booking flow.
const fetchTimeout = 10 * time.Second

// maxFeedBytes caps how much feed body is read; real exports are a few KB.
const maxFeedBytes = 2 << 20

// FeedFetchError reports a failed feed retrieval. StatusCode is set for HTTP
// failures; Err carries the underlying cause for transport failures.
type FeedFetchError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *FeedFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch feed %s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch feed %s: %v", e.URL, e.Err)
}

func (e *FeedFetchError) Unwrap() error {
	return e.Err
}

// Client retrieves and parses iCal feeds over HTTP with a short-lived body
// cache. The zero value is not usable; construct with NewClient.
type Client struct {
	httpClient *http.Client
	cache      Cache
	ttl        time.Duration
}

// NewClient constructs a feed client using the given cache backend.
// A ttl of zero falls back to DefaultCacheTTL.
func NewClient(cache Cache, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Client{
		httpClient: &http.Client{Timeout: fetchTimeout},
		cache:      cache,
		ttl:        ttl,
	}
}

// Fetch retrieves the feed at url and returns its parsed events.
// A cached body within the TTL window is reused without touching the host.
// Non-2xx responses and transport failures return a *FeedFetchError.
func (c *Client) Fetch(ctx context.Context, url string) ([]domain.CalendarEvent, error) {
	if body, ok := c.cache.Get(ctx, url); ok {
		return Parse(body), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FeedFetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FeedFetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FeedFetchError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, &FeedFetchError{URL: url, Err: err}
	}

	body := string(raw)
	c.cache.Set(ctx, url, body, c.ttl)

	return Parse(body), nil
}
