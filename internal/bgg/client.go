package bgg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jujunior/juniorsworld/internal/cache"
	"github.com/jujunior/juniorsworld/internal/observability"
)

const defaultBaseURL = "https://boardgamegeek.com"

// ErrNotConfigured means the server-held credential is missing; serving the
// proxy without it would only relay auth failures.
var ErrNotConfigured = errors.New("bgg: token not configured")

// CollectionResult carries the upstream verdict through to the handler.
// Status 202 means BGG is still generating the collection and the caller
// should poll again.
type CollectionResult struct {
	Status      int
	ContentType string
	Body        []byte
}

type Client struct {
	username   string
	token      string
	baseURL    string
	httpClient *http.Client
	store      cache.Store
	cacheTTL   time.Duration
	prom       *observability.Prom
}

func NewClient(username, token string, store cache.Store, cacheTTL time.Duration, prom *observability.Prom) *Client {
	return &Client{
		username:   username,
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      store,
		cacheTTL:   cacheTTL,
		prom:       prom,
	}
}

// WithBaseURL overrides the upstream host. Tests point this at httptest.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// FetchCollection proxies the BGG collection for the configured username.
// Ready payloads are cached so repeat polls after readiness skip the
// upstream; 202 responses are never cached.
func (c *Client) FetchCollection(ctx context.Context) (CollectionResult, error) {
	if c.token == "" {
		return CollectionResult{}, ErrNotConfigured
	}

	cacheKey := "bgg:collection:" + c.username

	if c.store != nil {
		if body, ok := c.store.Get(ctx, cacheKey); ok {
			return CollectionResult{
				Status:      http.StatusOK,
				ContentType: "application/xml",
				Body:        body,
			}, nil
		}
	}

	url := fmt.Sprintf("%s/xmlapi2/collection?username=%s&stats=1", c.baseURL, c.username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return CollectionResult{}, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()

	resp, err := c.httpClient.Do(req)

	if err != nil {
		if c.prom != nil {
			c.prom.ObserveUpstream("bgg", 0, time.Since(start))
		}
		return CollectionResult{}, err
	}

	defer resp.Body.Close()

	if c.prom != nil {
		c.prom.ObserveUpstream("bgg", resp.StatusCode, time.Since(start))
	}

	if resp.StatusCode == http.StatusAccepted {
		return CollectionResult{Status: http.StatusAccepted}, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))

	if err != nil {
		return CollectionResult{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return CollectionResult{Status: resp.StatusCode}, nil
	}

	if c.store != nil {
		c.store.Set(ctx, cacheKey, body, c.cacheTTL)
	}

	return CollectionResult{
		Status:      http.StatusOK,
		ContentType: "application/xml",
		Body:        body,
	}, nil
}
