// Package source fetches the poll feed over HTTP.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eringen/pollboard/poll"
)

// DefaultURL is the public poll feed.
const DefaultURL = "https://stage9th-source.hexh.xyz"

const (
	userAgent   = "pollboard/1.0 (+https://github.com/eringen/pollboard)"
	maxBodySize = 32 << 20 // 32MB
)

// ErrEmptyBody is returned when the feed responds with no content.
var ErrEmptyBody = errors.New("source: empty response body")

// StatusError reports a non-200 response from the feed.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("source: unexpected status %d %s", e.Code, e.Status)
}

// Fetcher loads one snapshot of the feed.
type Fetcher interface {
	Fetch(ctx context.Context) (poll.Snapshot, error)
}

// Client is the HTTP Fetcher.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a Client for url with the given request timeout.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP uses a caller-supplied http.Client.
func NewClientWithHTTP(url string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{url: url, client: hc}
}

// URL returns the feed address.
func (c *Client) URL() string {
	return c.url
}

type envelope struct {
	Poll        []poll.Post `json:"poll"`
	LastUpdated int64       `json:"last_updated"`
}

// Fetch performs a single GET and decodes the feed. There is no retry.
func (c *Client) Fetch(ctx context.Context) (poll.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return poll.Snapshot{}, fmt.Errorf("source: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return poll.Snapshot{}, fmt.Errorf("source: fetch %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return poll.Snapshot{}, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return poll.Snapshot{}, fmt.Errorf("source: read body: %w", err)
	}
	return Decode(body)
}

// Decode parses a feed document. The current feed wraps the posts as
// {"poll": [...], "last_updated": N}; older deployments served the bare
// array, which decodes with a zero LastUpdated.
func Decode(body []byte) (poll.Snapshot, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return poll.Snapshot{}, ErrEmptyBody
	}

	if body[0] == '[' {
		var posts []poll.Post
		if err := json.Unmarshal(body, &posts); err != nil {
			return poll.Snapshot{}, fmt.Errorf("source: decode posts: %w", err)
		}
		return poll.Snapshot{Posts: nonNil(posts)}, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return poll.Snapshot{}, fmt.Errorf("source: decode feed: %w", err)
	}
	snap := poll.Snapshot{Posts: nonNil(env.Poll)}
	if env.LastUpdated > 0 {
		snap.LastUpdated = time.Unix(env.LastUpdated, 0).UTC()
	}
	return snap, nil
}

func nonNil(posts []poll.Post) []poll.Post {
	if posts == nil {
		return []poll.Post{}
	}
	return posts
}
