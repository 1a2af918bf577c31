// Package realdebrid provides a client for the Real-Debrid REST API.
package realdebrid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/arrsnap/pkg/retryhttp"
)

const (
	defaultBaseURL  = "https://api.real-debrid.com/rest/1.0"
	defaultPageSize = 100
)

// DefaultPolicy paces calls 300ms apart and retries rate limits 4 times.
var DefaultPolicy = retryhttp.Policy{
	MinInterval: 300 * time.Millisecond,
	BaseDelay:   2 * time.Second,
	MaxAttempts: 4,
}

var (
	ErrUnauthorized = errors.New("real-debrid: invalid or expired API token")
	ErrNotFound     = errors.New("real-debrid: torrent not found")
)

// Client is a Real-Debrid API client.
type Client struct {
	apiKey     string
	baseURL    string
	pageSize   int
	httpClient *http.Client
	policy     retryhttp.Policy
	log        *slog.Logger
	rc         *retryhttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
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

// WithPageSize sets the torrent list page size.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// New creates a Real-Debrid client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		policy:     DefaultPolicy,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "realdebrid")
	c.rc = retryhttp.New(c.httpClient, c.policy, c.log)
	return c
}

func (c *Client) header() http.Header {
	return http.Header{"Authorization": {"Bearer " + c.apiKey}}
}

// ListTorrents returns every torrent on the account, in API order.
// Pages are requested from 1 until one comes back empty or short.
func (c *Client) ListTorrents(ctx context.Context) ([]Torrent, error) {
	var all []Torrent
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(c.pageSize))

		var batch []Torrent
		if err := c.rc.GetJSON(ctx, c.baseURL+"/torrents?"+q.Encode(), c.header(), &batch); err != nil {
			return nil, fmt.Errorf("list torrents page %d: %w", page, classify(err))
		}
		c.log.Debug("fetched torrent page", "page", page, "count", len(batch))

		all = append(all, batch...)
		if len(batch) < c.pageSize {
			return all, nil
		}
	}
}

// TorrentInfo fetches the file list and hoster links for one torrent.
func (c *Client) TorrentInfo(ctx context.Context, id string) (*TorrentInfo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("torrent id is required")
	}

	var info TorrentInfo
	endpoint := c.baseURL + "/torrents/info/" + url.PathEscape(id)
	if err := c.rc.GetJSON(ctx, endpoint, c.header(), &info); err != nil {
		return nil, fmt.Errorf("torrent info %s: %w", id, classify(err))
	}
	return &info, nil
}

// Unrestrict resolves a hoster link to a direct download URL.
func (c *Client) Unrestrict(ctx context.Context, link string) (*UnrestrictedLink, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, fmt.Errorf("link is required")
	}

	form := url.Values{}
	form.Set("link", link)

	var out UnrestrictedLink
	if err := c.rc.PostFormJSON(ctx, c.baseURL+"/unrestrict/link", c.header(), form, &out); err != nil {
		return nil, fmt.Errorf("unrestrict link: %w", classify(err))
	}
	return &out, nil
}

// classify adds a sentinel for statuses callers act on.
func classify(err error) error {
	var te *retryhttp.TransportError
	if !errors.As(err, &te) {
		return err
	}
	switch te.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
