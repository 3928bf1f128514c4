// Package feed reads the remote fallback equipment feed: a plain JSON
// document used when the primary store is unreachable.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/are3ej/heavytrade/internal/equipment"
	"github.com/are3ej/heavytrade/internal/model"
)

// maxFeedSize bounds the response body read from the remote feed.
const maxFeedSize = 2 << 20

// DefaultTTL is how long a fetched feed is served from cache.
const DefaultTTL = 5 * time.Minute

// ErrNoFeed is returned when no feed source is configured.
var ErrNoFeed = errors.New("no feed configured")

const cacheKey = "equipment"

// trailingCommas matches commas immediately preceding a closing brace or
// bracket. The feed is hand-edited and routinely carries them.
var trailingCommas = regexp.MustCompile(`,(\s*[}\]])`)

// Client fetches and caches the fallback feed.
type Client struct {
	url       string
	client    *http.Client
	sanitizer *equipment.Sanitizer
	cache     *gocache.Cache
}

// NewClient creates a feed client. A non-positive ttl falls back to
// DefaultTTL.
func NewClient(url string, sanitizer *equipment.Sanitizer, ttl time.Duration) *Client {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		url:       url,
		client:    &http.Client{Timeout: 15 * time.Second},
		sanitizer: sanitizer,
		cache:     gocache.New(ttl, 2*ttl),
	}
}

// Fetch returns the available (not sold) records from the feed, sanitized
// for display. Responses are served from a TTL cache between fetches.
func (c *Client) Fetch(ctx context.Context) ([]model.Equipment, error) {
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]model.Equipment), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching feed: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("reading feed: %w", err)
	}

	records, err := c.parse(body)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(cacheKey, records)
	return records, nil
}

func (c *Client) parse(body []byte) ([]model.Equipment, error) {
	cleaned := trailingCommas.ReplaceAll(body, []byte("$1"))

	var payload struct {
		Equipment []map[string]any `json:"equipment"`
	}
	if err := json.Unmarshal(cleaned, &payload); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}
	if payload.Equipment == nil {
		return nil, fmt.Errorf("parsing feed: missing equipment array")
	}

	records := make([]model.Equipment, 0, len(payload.Equipment))
	for i, raw := range payload.Equipment {
		// Sold entries never reach the public listing.
		if sold, ok := raw["sold"].(bool); ok && sold {
			continue
		}
		records = append(records, c.sanitizer.SanitizeForDisplay(feedID(raw, i), raw))
	}
	return records, nil
}

// feedID extracts a usable identifier from a feed entry; the feed carries
// numeric ids, older entries none at all.
func feedID(raw map[string]any, index int) string {
	switch v := raw["id"].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatInt(int64(v), 10)
	}
	return fmt.Sprintf("feed-%d", index+1)
}
