package cache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"gh-pr-stats/internal/pkg/logger"
)

// Storage persists cached responses; *Store is the Postgres-backed
// implementation.
type Storage interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Put(ctx context.Context, e *Entry) error
}

// Transport is an http.RoundTripper serving fresh cached GET responses
// and persisting misses. Failures on the cache path degrade to a plain
// fetch; the cache must never fail a stats run.
type Transport struct {
	store  Storage
	next   http.RoundTripper
	ttl    time.Duration
	logger *logger.Logger

	hits   atomic.Int64
	misses atomic.Int64
	stores atomic.Int64
}

func NewTransport(store Storage, next http.RoundTripper, ttl time.Duration, log *logger.Logger) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{
		store:  store,
		next:   next,
		ttl:    ttl,
		logger: log.Component("cache/transport"),
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.next.RoundTrip(req)
	}

	key := cacheKey(req.URL.String())

	entry, err := t.store.Get(req.Context(), key)
	if err != nil {
		t.logger.Warn("cache lookup failed, fetching from origin", "error", err)
	}
	if entry != nil && time.Since(entry.FetchedAt) < t.ttl {
		t.hits.Add(1)
		return cachedResponse(req, entry), nil
	}

	t.misses.Add(1)

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	putErr := t.store.Put(req.Context(), &Entry{
		Key:         key,
		URL:         req.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now(),
	})
	if putErr != nil {
		t.logger.Warn("cache store failed", "url", req.URL.String(), "error", putErr)
	} else {
		t.stores.Add(1)
	}

	return resp, nil
}

// Stats returns a point-in-time counter snapshot.
func (t *Transport) Stats() Snapshot {
	return Snapshot{
		Hits:   t.hits.Load(),
		Misses: t.misses.Load(),
		Stores: t.stores.Load(),
	}
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

func cachedResponse(req *http.Request, e *Entry) *http.Response {
	header := make(http.Header)
	if e.ContentType != "" {
		header.Set("Content-Type", e.ContentType)
	}
	header.Set("X-Cache", "HIT")

	return &http.Response{
		Status:        http.StatusText(e.StatusCode),
		StatusCode:    e.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(e.Body)),
		ContentLength: int64(len(e.Body)),
		Request:       req,
	}
}
