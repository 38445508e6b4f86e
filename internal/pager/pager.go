// Package pager implements the fetch-until-exhausted paging protocol
// shared by every paged GitHub listing this tool consumes.
package pager

import (
	"context"
	"time"

	"gh-pr-stats/internal/domain"
	"gh-pr-stats/internal/pkg/logger"
)

// DefaultPageSize matches the GitHub API per_page maximum.
const DefaultPageSize = 100

// FetchFunc fetches one page (1-based) of items. Implementations are
// supplied by the API client layer.
type FetchFunc[T any] func(ctx context.Context, page int) ([]T, error)

// Pager drains a paged listing sequentially. Page N+1 is only known to
// be necessary after inspecting page N's size, so there is no
// speculative prefetching.
type Pager[T any] struct {
	fetch    FetchFunc[T]
	pageSize int
	delay    time.Duration
	logger   *logger.Logger
}

type Option[T any] func(*Pager[T])

// WithPageSize overrides the page size used for exhaustion detection.
// It must match the per_page the fetch capability actually requests.
func WithPageSize[T any](size int) Option[T] {
	return func(p *Pager[T]) {
		if size > 0 {
			p.pageSize = size
		}
	}
}

// WithDelay inserts a pause between page fetches to stay under
// secondary rate limits.
func WithDelay[T any](d time.Duration) Option[T] {
	return func(p *Pager[T]) { p.delay = d }
}

func New[T any](fetch FetchFunc[T], log *logger.Logger, opts ...Option[T]) *Pager[T] {
	p := &Pager[T]{
		fetch:    fetch,
		pageSize: DefaultPageSize,
		logger:   log.Component("pager"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchAll retrieves every page starting at 1 and returns the
// concatenated items. A page shorter than the page size signals
// exhaustion; no total-count header is consulted. Any fetch failure is
// wrapped into a *domain.PagingError carrying the failing page number,
// and partial results are discarded.
func (p *Pager[T]) FetchAll(ctx context.Context) ([]T, error) {
	var all []T

	for page := 1; ; page++ {
		items, err := p.fetch(ctx, page)
		if err != nil {
			return nil, &domain.PagingError{Page: page, Err: err}
		}

		all = append(all, items...)

		if page > 1 {
			p.logger.Debug("loaded additional page",
				"page", page,
				"items", len(items),
				"total", len(all),
			)
		}

		if len(items) < p.pageSize {
			return all, nil
		}

		if p.delay > 0 {
			select {
			case <-time.After(p.delay):
			case <-ctx.Done():
				return nil, &domain.PagingError{Page: page + 1, Err: ctx.Err()}
			}
		}
	}
}
