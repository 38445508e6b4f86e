package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"gh-pr-stats/internal/domain"
	"gh-pr-stats/internal/github"
	"gh-pr-stats/internal/pager"
	"gh-pr-stats/internal/pkg/logger"
	"gh-pr-stats/internal/worktime"
)

// APIClient is the slice of the GitHub client the stats pipeline needs.
type APIClient interface {
	SearchIssues(ctx context.Context, query string, page, perPage int) (*domain.IssueSearchResult, error)
	PullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error)
	TimelineEvents(ctx context.Context, owner, repo string, number, page, perPage int) ([]domain.TimelineEvent, error)
	ReviewComments(ctx context.Context, owner, repo string, number, page, perPage int) ([]domain.ReviewComment, error)
	PageSize() int
	RequestDelay() time.Duration
}

// DateRange bounds PR creation dates for a run; zero values leave the
// corresponding bound open.
type DateRange struct {
	After  time.Time
	Before time.Time
}

// ProgressFunc receives completion updates while PRs are analyzed.
type ProgressFunc func(done, total int)

// Service computes author- and reviewer-perspective review reports.
type Service struct {
	client      APIClient
	engine      *worktime.Engine
	zones       *worktime.Zones
	reducer     *Reducer
	concurrency int
	progress    ProgressFunc
	logger      *logger.Logger
}

type ServiceOption func(*Service)

// WithConcurrency bounds how many PRs are analyzed at once.
func WithConcurrency(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithProgress installs a progress callback for CLI feedback.
func WithProgress(fn ProgressFunc) ServiceOption {
	return func(s *Service) { s.progress = fn }
}

func NewService(client APIClient, engine *worktime.Engine, zones *worktime.Zones, log *logger.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client:      client,
		engine:      engine,
		zones:       zones,
		reducer:     NewReducer(engine, zones, log),
		concurrency: 4,
		logger:      log.Component("stats/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthorStats reports on reviews received by PRs that author created:
// every user in the result is a reviewer of the author's PRs.
func (s *Service) AuthorStats(ctx context.Context, owner, repo string, author domain.UserID, dr DateRange) (*domain.Report, error) {
	query := github.SearchQuery{
		Owner:         owner,
		Repo:          repo,
		Author:        author,
		CreatedAfter:  dr.After,
		CreatedBefore: dr.Before,
	}

	prStats, err := s.analyze(ctx, owner, repo, query)
	if err != nil {
		return nil, err
	}

	report := Aggregate(owner, repo, author, prStats)

	s.logger.Info("author stats computed",
		"owner", owner,
		"repo", repo,
		"author", author,
		"prs", report.PrCount,
		"reviewers", len(report.ByUser),
	)
	return report, nil
}

// ReviewerStats reports on reviews performed by reviewer across the
// repository, including a breakdown of whose PRs they reviewed.
func (s *Service) ReviewerStats(ctx context.Context, owner, repo string, reviewer domain.UserID, dr DateRange) (*domain.Report, error) {
	query := github.SearchQuery{
		Owner:         owner,
		Repo:          repo,
		Reviewer:      reviewer,
		CreatedAfter:  dr.After,
		CreatedBefore: dr.Before,
	}

	prStats, err := s.analyze(ctx, owner, repo, query)
	if err != nil {
		return nil, err
	}

	report := FilterToUser(Aggregate(owner, repo, reviewer, prStats), reviewer)

	report.ReviewedFor = make(map[domain.UserID]int)
	for _, pr := range prStats {
		if _, ok := pr.ByUser[reviewer]; ok {
			report.ReviewedFor[pr.PullRequest.User.Login]++
		}
	}

	s.logger.Info("reviewer stats computed",
		"owner", owner,
		"repo", repo,
		"reviewer", reviewer,
		"prs", report.PrCount,
		"authors_reviewed_for", len(report.ReviewedFor),
	)
	return report, nil
}

// analyze searches for merged PRs and fans out one analysis task per
// PR, bounded by the concurrency limit. Any single failure cancels the
// whole run and discards completed results: reports are all-or-nothing.
func (s *Service) analyze(ctx context.Context, owner, repo string, query github.SearchQuery) ([]domain.PrStats, error) {
	prs, err := s.searchMergedPRs(ctx, query)
	if err != nil {
		return nil, err
	}

	s.logger.Info("analyzing pull requests",
		"query", query.String(),
		"found", len(prs),
		"concurrency", s.concurrency,
	)

	var (
		mu      sync.Mutex
		results []domain.PrStats
		done    atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, pr := range prs {
		g.Go(func() error {
			st, err := s.prStats(gctx, owner, repo, pr.Number)
			if err != nil {
				if errors.Is(err, domain.ErrNotMerged) {
					// Search can race a just-reopened PR; it simply
					// does not contribute. Still counts toward
					// progress so the bar reaches the total.
					s.logger.Debug("skipping unmerged pr", "pr", pr.Number)
					s.tickProgress(&done, len(prs))
					return nil
				}
				return err
			}

			mu.Lock()
			results = append(results, *st)
			mu.Unlock()

			s.tickProgress(&done, len(prs))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) tickProgress(done *atomic.Int64, total int) {
	if s.progress != nil {
		s.progress(int(done.Add(1)), total)
	}
}

func (s *Service) searchMergedPRs(ctx context.Context, query github.SearchQuery) ([]domain.Issue, error) {
	q := query.String()
	fetch := func(ctx context.Context, page int) ([]domain.Issue, error) {
		result, err := s.client.SearchIssues(ctx, q, page, s.client.PageSize())
		if err != nil {
			return nil, err
		}
		return result.Items, nil
	}

	issues, err := pager.New(fetch, s.logger,
		pager.WithPageSize[domain.Issue](s.client.PageSize()),
		pager.WithDelay[domain.Issue](s.client.RequestDelay()),
	).FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("search merged prs: %w", err)
	}

	// Issue search returns plain issues too; keep only PRs.
	prs := issues[:0:0]
	for _, issue := range issues {
		if issue.IsPullRequest() {
			prs = append(prs, issue)
		}
	}
	return prs, nil
}

// prStats runs the full per-PR pipeline: detail, paged timeline, paged
// review comments, reduction.
func (s *Service) prStats(ctx context.Context, owner, repo string, number int) (*domain.PrStats, error) {
	pr, err := s.client.PullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("pr #%d: %w", number, err)
	}
	if !pr.Merged || pr.MergedAt == nil {
		return nil, fmt.Errorf("pr #%d: %w", number, domain.ErrNotMerged)
	}

	events, err := s.fetchTimeline(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("pr #%d timeline: %w", number, err)
	}

	comments, err := s.fetchReviewComments(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("pr #%d review comments: %w", number, err)
	}

	readyAt := ReadyForReviewTime(pr, events)

	byUser, err := s.reducer.Reduce(pr.CreatedAt, readyAt, events, pr.User.Login)
	if err != nil {
		return nil, fmt.Errorf("pr #%d: %w", number, err)
	}
	s.reducer.MergeReviewComments(byUser, comments, pr.User.Login)

	mergeTime, err := s.engine.DiffWorkingHours(readyAt, *pr.MergedAt, s.zones.Get(pr.User.Login))
	if err != nil {
		return nil, fmt.Errorf("pr #%d merge time: %w", number, err)
	}

	s.logger.Debug("pr analyzed",
		"pr", number,
		"events", len(events),
		"participants", len(byUser),
		"merge_time", mergeTime,
	)

	return &domain.PrStats{
		PullRequest: *pr,
		ReadyAt:     readyAt,
		MergedAt:    *pr.MergedAt,
		MergeTime:   mergeTime,
		ByUser:      byUser,
	}, nil
}

func (s *Service) fetchTimeline(ctx context.Context, owner, repo string, number int) ([]domain.TimelineEvent, error) {
	fetch := func(ctx context.Context, page int) ([]domain.TimelineEvent, error) {
		return s.client.TimelineEvents(ctx, owner, repo, number, page, s.client.PageSize())
	}
	return pager.New(fetch, s.logger,
		pager.WithPageSize[domain.TimelineEvent](s.client.PageSize()),
		pager.WithDelay[domain.TimelineEvent](s.client.RequestDelay()),
	).FetchAll(ctx)
}

func (s *Service) fetchReviewComments(ctx context.Context, owner, repo string, number int) ([]domain.ReviewComment, error) {
	fetch := func(ctx context.Context, page int) ([]domain.ReviewComment, error) {
		return s.client.ReviewComments(ctx, owner, repo, number, page, s.client.PageSize())
	}
	return pager.New(fetch, s.logger,
		pager.WithPageSize[domain.ReviewComment](s.client.PageSize()),
		pager.WithDelay[domain.ReviewComment](s.client.RequestDelay()),
	).FetchAll(ctx)
}
