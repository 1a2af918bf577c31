package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/vmunix/arrsnap/pkg/release"
	"github.com/vmunix/arrsnap/pkg/retryhttp"
)

const defaultBaseURL = "https://api.themoviedb.org"

// DefaultPolicy paces calls 100ms apart and retries rate limits 3 times.
var DefaultPolicy = retryhttp.Policy{
	MinInterval: 100 * time.Millisecond,
	BaseDelay:   2 * time.Second,
	MaxAttempts: 3,
}

// Client is a TMDB API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	policy     retryhttp.Policy
	log        *slog.Logger
	rc         *retryhttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPolicy overrides pacing and retry behavior.
func WithPolicy(p retryhttp.Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		policy: DefaultPolicy,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "tmdb")
	c.rc = retryhttp.New(c.httpClient, c.policy, c.log)
	return c
}

// Search queries the movie or tv search endpoint and returns the first,
// most relevant result. It returns nil, nil when nothing matched.
func (c *Client) Search(ctx context.Context, title string, typ release.MediaType, year *int) (*Result, error) {
	kind := "movie"
	yearParam := "year"
	if typ == release.TypeTV {
		kind = "tv"
		yearParam = "first_air_date_year"
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", title)
	q.Set("include_adult", "false")
	if year != nil {
		q.Set(yearParam, strconv.Itoa(*year))
	}

	var resp searchResponse
	endpoint := fmt.Sprintf("%s/3/search/%s?%s", c.baseURL, kind, q.Encode())
	if err := c.rc.GetJSON(ctx, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("search %s %q: %w", kind, title, err)
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return &resp.Results[0], nil
}
