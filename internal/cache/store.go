// Package cache persists GitHub GET responses in Postgres so repeated
// stats runs against the same repository do not re-fetch unchanged
// pages. The cache is transparent to the client: it plugs in as an
// http.RoundTripper under the auth transport.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gh-pr-stats/internal/pkg/logger"
)

// Entry is one cached response row.
type Entry struct {
	Key         string
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}

type Store struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewStore(pool *pgxpool.Pool, log *logger.Logger) *Store {
	return &Store{
		pool:   pool,
		logger: log.Component("cache/store"),
	}
}

// Get returns the cached entry for key, or nil when absent.
func (s *Store) Get(ctx context.Context, key string) (*Entry, error) {
	const query = `
		SELECT cache_key, url, status_code, content_type, body, fetched_at
		FROM api_cache
		WHERE cache_key = $1`

	var e Entry
	err := s.pool.QueryRow(ctx, query, key).Scan(
		&e.Key, &e.URL, &e.StatusCode, &e.ContentType, &e.Body, &e.FetchedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cache entry: %w", err)
	}
	return &e, nil
}

// Put upserts an entry, refreshing the fetch stamp.
func (s *Store) Put(ctx context.Context, e *Entry) error {
	const query = `
		INSERT INTO api_cache (cache_key, url, status_code, content_type, body, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cache_key) DO UPDATE SET
			url = EXCLUDED.url,
			status_code = EXCLUDED.status_code,
			content_type = EXCLUDED.content_type,
			body = EXCLUDED.body,
			fetched_at = EXCLUDED.fetched_at`

	_, err := s.pool.Exec(ctx, query,
		e.Key, e.URL, e.StatusCode, e.ContentType, e.Body, e.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// Purge removes entries older than maxAge and reports how many rows went.
func (s *Store) Purge(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	tag, err := s.pool.Exec(ctx, `DELETE FROM api_cache WHERE fetched_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}

	if tag.RowsAffected() > 0 {
		s.logger.Info("purged stale cache entries",
			"removed", tag.RowsAffected(),
			"older_than", maxAge,
		)
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of cached responses.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM api_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return n, nil
}
