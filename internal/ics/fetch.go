// Package ics turns ICS subscription feeds into timeline event records. Each
// feed maps to one resource row; its expanded occurrences become the events
// grouped under that resource.
package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Source identifies a single ICS subscription feed.
type Source struct {
	// ID is the resource identifier the feed's events are grouped under.
	ID string
	// URL is the ICS endpoint.
	URL string
	// Name is a human-friendly label for the resource column.
	Name string
}

// maxFeedBytes caps a single feed body; anything larger is rejected rather
// than buffered.
const maxFeedBytes = 8 << 20

type cacheEntry struct {
	etag         string
	lastModified string
	body         []byte
}

// Fetcher retrieves ICS feeds with conditional requests. Validators and the
// last good body are kept in memory only; a 304 response reuses the cached
// payload.
type Fetcher struct {
	client *http.Client

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewFetcher creates a Fetcher. A nil client gets a default with a request
// timeout.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Fetcher{
		client: client,
		cache:  make(map[string]cacheEntry),
	}
}

// Fetch retrieves one feed body, honoring ETag and Last-Modified from the
// previous fetch of the same URL.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]byte, error) {
	if src.URL == "" {
		return nil, errors.New("ics: source URL is empty")
	}

	f.mu.Lock()
	cached, hasCache := f.cache[src.URL]
	f.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("ics: build request for %s: %w", RedactURL(src.URL), err)
	}
	if hasCache {
		if cached.etag != "" {
			req.Header.Set("If-None-Match", cached.etag)
		}
		if cached.lastModified != "" {
			req.Header.Set("If-Modified-Since", cached.lastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ics: fetch %s: %w", RedactURL(src.URL), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && hasCache:
		return cached.body, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("ics: fetch %s: unexpected status %d", RedactURL(src.URL), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return nil, fmt.Errorf("ics: read %s: %w", RedactURL(src.URL), err)
	}
	if len(body) > maxFeedBytes {
		return nil, fmt.Errorf("ics: feed %s exceeds %d bytes", RedactURL(src.URL), maxFeedBytes)
	}

	f.mu.Lock()
	f.cache[src.URL] = cacheEntry{
		etag:         resp.Header.Get("ETag"),
		lastModified: resp.Header.Get("Last-Modified"),
		body:         body,
	}
	f.mu.Unlock()

	return body, nil
}

// RedactURL strips query parameters and userinfo before a URL reaches logs;
// feed URLs routinely embed access tokens.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
