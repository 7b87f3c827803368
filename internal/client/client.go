// Package client talks to the memglass web API: one GET per fetch, decoded
// into an immutable snapshot, with polling loops layered on top.
package client

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/robaho/memglass/internal/snapshot"
)

const (
	// DefaultURL is the default memglass web server endpoint.
	DefaultURL = "http://localhost:8080"
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 5 * time.Second
)

// Client fetches session snapshots from a memglass web server. A Client is
// safe for concurrent use; the last observed sequence number is the only
// mutable state and it is instance-scoped.
type Client struct {
	baseURL string
	http    *http.Client

	mu      sync.Mutex
	lastSeq uint64
	fetched bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a client for the memglass server at baseURL. A trailing slash
// is stripped; an empty URL falls back to DefaultURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the configured base URL.
func (c *Client) URL() string { return c.baseURL }

// Fetch performs one GET against /api/data and builds a snapshot.
//
// Failures are classified: *ConnectionError when the server is unreachable,
// *ProtocolError on a non-2xx response, *DecodeError on a malformed body.
// On success the client records the snapshot's sequence number even if the
// caller discards the result.
func (c *Client) Fetch(ctx context.Context) (*snapshot.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/data", nil)
	if err != nil {
		return nil, &ConnectionError{Target: c.baseURL, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ConnectionError{Target: c.baseURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProtocolError{
			StatusCode: resp.StatusCode,
			Reason:     reasonPhrase(resp),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Target: c.baseURL, Err: err}
	}

	snap, err := snapshot.Parse(body)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	c.mu.Lock()
	c.lastSeq = snap.Sequence
	c.fetched = true
	c.mu.Unlock()

	return snap, nil
}

// GetObject fetches a fresh snapshot and returns the named object. This is
// always a full round trip, never a cache lookup.
func (c *Client) GetObject(ctx context.Context, label string) (snapshot.ObjectInfo, bool, error) {
	snap, err := c.Fetch(ctx)
	if err != nil {
		return snapshot.ObjectInfo{}, false, err
	}
	obj, ok := snap.Object(label)
	return obj, ok, nil
}

// LastSequence returns the sequence number of the most recent successful
// fetch. ok is false before the first fetch.
func (c *Client) LastSequence() (seq uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeq, c.fetched
}

// Fetch is a one-shot convenience: construct a client, fetch once.
func Fetch(ctx context.Context, url string, timeout time.Duration) (*snapshot.Snapshot, error) {
	return New(url, WithTimeout(timeout)).Fetch(ctx)
}

// reasonPhrase extracts the server-supplied reason from the status line,
// falling back to the standard text for the code.
func reasonPhrase(resp *http.Response) string {
	if idx := strings.IndexByte(resp.Status, ' '); idx >= 0 {
		return resp.Status[idx+1:]
	}
	return http.StatusText(resp.StatusCode)
}
