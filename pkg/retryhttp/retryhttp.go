// Package retryhttp wraps an http.Client with a fixed pre-call delay and
// exponential backoff on rate-limit responses.
package retryhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// ErrRateLimited marks a failure caused by 429 or 503 responses.
var ErrRateLimited = errors.New("rate limited")

// Policy controls pacing and retries for one remote service.
type Policy struct {
	MinInterval time.Duration // slept before every attempt, including the first
	BaseDelay   time.Duration // backoff is BaseDelay * 2^attempt
	MaxAttempts uint
}

// TransportError is returned when a request could not be completed.
// Status is 0 when no HTTP response was received.
type TransportError struct {
	Endpoint string
	Status   int
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d after %d attempt(s): %v", e.Endpoint, e.Status, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s: after %d attempt(s): %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// attemptError is the outcome of one failed attempt.
type attemptError struct {
	status    int
	retryable bool
	err       error
}

func (e *attemptError) Error() string { return e.err.Error() }
func (e *attemptError) Unwrap() error { return e.err }

// Client performs paced, retried HTTP requests.
type Client struct {
	http   *http.Client
	policy Policy
	log    *slog.Logger
}

// New creates a Client. A nil http.Client gets a 30 second timeout; a nil
// logger discards output.
func New(hc *http.Client, policy Policy, log *slog.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if policy.MaxAttempts == 0 {
		policy.MaxAttempts = 1
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{http: hc, policy: policy, log: log}
}

// Policy returns the client's retry policy.
func (c *Client) Policy() Policy {
	return c.policy
}

// Do sends req and returns a 2xx response. The caller closes the body.
// Non-2xx responses are returned as *TransportError.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	endpoint := req.Method + " " + req.URL.Path

	body, err := bufferBody(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	attempts := 0
	resp, err := retry.DoWithData(
		func() (*http.Response, error) {
			attempts++
			if err := sleep(ctx, c.policy.MinInterval); err != nil {
				return nil, err
			}
			return c.attempt(ctx, req, body)
		},
		retry.Context(ctx),
		retry.Attempts(c.policy.MaxAttempts),
		retry.Delay(c.policy.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var ae *attemptError
			return errors.As(err, &ae) && ae.retryable
		}),
		retry.OnRetry(func(n uint, err error) {
			c.log.Warn("retrying request",
				"endpoint", endpoint,
				"attempt", n+1,
				"delay", c.policy.BaseDelay<<n,
				"error", err)
		}),
	)
	if err != nil {
		te := &TransportError{Endpoint: endpoint, Attempts: attempts, Err: err}
		var ae *attemptError
		if errors.As(err, &ae) {
			te.Status = ae.status
			te.Err = ae.err
		}
		return nil, te
	}
	return resp, nil
}

func (c *Client) attempt(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	r := req.Clone(ctx)
	if body != nil {
		r.Body = io.NopCloser(bytes.NewReader(body))
		r.ContentLength = int64(len(body))
	}

	start := time.Now()
	resp, err := c.http.Do(r)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Query strings may carry credentials.
		var ue *url.Error
		if errors.As(err, &ue) {
			if i := strings.IndexByte(ue.URL, '?'); i >= 0 {
				ue.URL = ue.URL[:i]
			}
		}
		return nil, &attemptError{retryable: true, err: err}
	}
	c.log.Debug("http request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	_ = resp.Body.Close()
	msg := strings.TrimSpace(string(snippet))

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, &attemptError{
			status:    resp.StatusCode,
			retryable: true,
			err:       fmt.Errorf("%w: %s", ErrRateLimited, resp.Status),
		}
	default:
		if msg == "" {
			msg = resp.Status
		}
		return nil, &attemptError{status: resp.StatusCode, err: errors.New(msg)}
	}
}

// GetJSON issues a GET and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, rawURL string, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doJSON(ctx, req, header, out)
}

// PostFormJSON issues a form-encoded POST and decodes the JSON response into out.
func (c *Client) PostFormJSON(ctx context.Context, rawURL string, header http.Header, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.doJSON(ctx, req, header, out)
}

func (c *Client) doJSON(ctx context.Context, req *http.Request, header http.Header, out any) error {
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// bufferBody reads the request body once so every attempt can replay it.
func bufferBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	b, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("buffer request body: %w", err)
	}
	_ = req.Body.Close()
	return b, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
