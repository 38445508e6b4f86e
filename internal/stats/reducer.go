// Package stats turns pull request timelines into per-user review
// metrics and folds them into repository-wide reports.
package stats

import (
	"fmt"
	"time"

	"gh-pr-stats/internal/domain"
	"gh-pr-stats/internal/pkg/logger"
	"gh-pr-stats/internal/worktime"
)

// Reducer folds one PR's ordered timeline into per-user metrics.
// Events must arrive in the order the API returned them (chronological
// ascending); the reducer does not re-sort.
type Reducer struct {
	engine *worktime.Engine
	zones  *worktime.Zones
	logger *logger.Logger
}

func NewReducer(engine *worktime.Engine, zones *worktime.Zones, log *logger.Logger) *Reducer {
	return &Reducer{
		engine: engine,
		zones:  zones,
		logger: log.Component("stats/reducer"),
	}
}

// Reduce scans the timeline once. Events by the PR author are skipped
// (self-activity is not a response). The first comment or review from
// each other user fixes their initial-response time; their first
// approving review fixes their approval time; neither is ever
// overwritten. Comment counters increment on every event regardless.
// A merged or closed event ends the scan.
//
// readyAt may be later than createdAt for PRs opened as drafts.
// Draft-phase events (after creation, before ready) are legitimate:
// they count as comments but do not set duration metrics, since those
// measure responsiveness from the moment the PR asked for review.
// Only an event timestamped before createdAt violates the upstream
// ordering contract and fails with domain.ErrMalformedTimeline.
func (r *Reducer) Reduce(
	createdAt, readyAt time.Time,
	events []domain.TimelineEvent,
	author domain.UserID,
) (map[domain.UserID]*domain.UserPrMetrics, error) {
	byUser := make(map[domain.UserID]*domain.UserPrMetrics)

scan:
	for _, ev := range events {
		switch ev.Kind {
		case domain.EventMerged, domain.EventClosed:
			break scan
		case domain.EventCommented, domain.EventReviewed:
			// Handled below.
		default:
			continue
		}

		user := ev.Actor.Login
		if user == "" || user == author {
			continue
		}

		if ev.Timestamp.Before(createdAt) {
			return nil, fmt.Errorf("%w: %s event by %s at %s, pr created at %s",
				domain.ErrMalformedTimeline, ev.Kind, user,
				ev.Timestamp.Format(time.RFC3339), createdAt.Format(time.RFC3339))
		}

		m := byUser[user]
		if m == nil {
			m = &domain.UserPrMetrics{User: user}
			byUser[user] = m
		}

		loc := r.zones.Get(user)
		preReady := ev.Timestamp.Before(readyAt)

		if !preReady && m.InitialResponse == nil {
			d, err := r.engine.DiffWorkingHours(readyAt, ev.Timestamp, loc)
			if err != nil {
				return nil, fmt.Errorf("initial response time for %s: %w", user, err)
			}
			m.InitialResponse = &d
		}

		switch ev.Kind {
		case domain.EventCommented:
			m.IssueComments++

		case domain.EventReviewed:
			if ev.State == domain.ReviewCommented || ev.State == domain.ReviewChangesRequested {
				m.ReviewSubmissionComments++
			}
			if ev.IsApproval() && m.Approval == nil && !preReady {
				d, err := r.engine.DiffWorkingHours(readyAt, ev.Timestamp, loc)
				if err != nil {
					return nil, fmt.Errorf("approval time for %s: %w", user, err)
				}
				m.Approval = &d
			}
		}
	}

	return byUser, nil
}

// MergeReviewComments folds diff-anchored comment counts (from the
// separate review comments endpoint) into an existing reduction.
func (r *Reducer) MergeReviewComments(
	byUser map[domain.UserID]*domain.UserPrMetrics,
	comments []domain.ReviewComment,
	author domain.UserID,
) {
	for _, c := range comments {
		user := c.User.Login
		if user == "" || user == author {
			continue
		}
		m := byUser[user]
		if m == nil {
			m = &domain.UserPrMetrics{User: user}
			byUser[user] = m
		}
		m.CodeReviewComments++
	}
}

// ReadyForReviewTime returns when the PR became available for review:
// the ready_for_review event time for PRs opened as drafts, the
// creation time otherwise.
func ReadyForReviewTime(pr *domain.PullRequest, events []domain.TimelineEvent) time.Time {
	for _, ev := range events {
		if ev.Kind == domain.EventReadyForReview && !ev.Timestamp.IsZero() {
			return ev.Timestamp
		}
	}
	return pr.CreatedAt
}
