package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gh-pr-stats/internal/domain"
	"gh-pr-stats/internal/pkg/logger"
	"gh-pr-stats/internal/worktime"
)

func newReducer() *Reducer {
	log := logger.Discard()
	return NewReducer(worktime.NewEngine(log), worktime.NewZones(time.UTC), log)
}

// Tuesday 2022-09-06, inside the working window in UTC.
var prReady = time.Date(2022, time.September, 6, 10, 0, 0, 0, time.UTC)

func commented(user string, t time.Time) domain.TimelineEvent {
	return domain.TimelineEvent{
		Kind:      domain.EventCommented,
		Actor:     domain.User{Login: user},
		Timestamp: t,
	}
}

func reviewed(user string, t time.Time, state domain.ReviewState) domain.TimelineEvent {
	return domain.TimelineEvent{
		Kind:      domain.EventReviewed,
		Actor:     domain.User{Login: user},
		Timestamp: t,
		State:     state,
	}
}

func TestReduceInitialResponseAndApproval(t *testing.T) {
	r := newReducer()

	t1 := prReady.Add(time.Hour)
	t2 := prReady.Add(3 * time.Hour)
	events := []domain.TimelineEvent{
		commented("bob", t1),
		reviewed("bob", t2, domain.ReviewApproved),
	}

	byUser, err := r.Reduce(prReady, prReady, events, "alice")
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	m := byUser["bob"]
	require.NotNil(t, m.InitialResponse)
	require.Equal(t, time.Hour, *m.InitialResponse, "initial response measured to the first comment")
	require.NotNil(t, m.Approval)
	require.Equal(t, 3*time.Hour, *m.Approval, "approval measured independently to the approving review")
}

func TestReduceInitialResponseNeverOverwritten(t *testing.T) {
	r := newReducer()

	events := []domain.TimelineEvent{
		commented("bob", prReady.Add(30*time.Minute)),
		commented("bob", prReady.Add(2*time.Hour)),
		reviewed("bob", prReady.Add(4*time.Hour), domain.ReviewCommented),
	}

	byUser, err := r.Reduce(prReady, prReady, events, "alice")
	require.NoError(t, err)

	m := byUser["bob"]
	require.Equal(t, 30*time.Minute, *m.InitialResponse)
	require.Equal(t, 2, m.IssueComments)
	require.Equal(t, 1, m.ReviewSubmissionComments)
}

func TestReduceFirstApprovalWins(t *testing.T) {
	r := newReducer()

	events := []domain.TimelineEvent{
		reviewed("bob", prReady.Add(time.Hour), domain.ReviewApproved),
		reviewed("bob", prReady.Add(5*time.Hour), domain.ReviewApproved),
	}

	byUser, err := r.Reduce(prReady, prReady, events, "alice")
	require.NoError(t, err)
	require.Equal(t, time.Hour, *byUser["bob"].Approval)
}

func TestReduceSkipsAuthorActivity(t *testing.T) {
	r := newReducer()

	events := []domain.TimelineEvent{
		commented("alice", prReady.Add(10*time.Minute)),
		reviewed("alice", prReady.Add(20*time.Minute), domain.ReviewCommented),
		commented("bob", prReady.Add(time.Hour)),
	}

	byUser, err := r.Reduce(prReady, prReady, events, "alice")
	require.NoError(t, err)
	require.NotContains(t, byUser, "alice")
	require.Equal(t, time.Hour, *byUser["bob"].InitialResponse)
}

func TestReduceStopsAtMerge(t *testing.T) {
	r := newReducer()

	events := []domain.TimelineEvent{
		commented("bob", prReady.Add(time.Hour)),
		{Kind: domain.EventMerged, Actor: domain.User{Login: "alice"}, Timestamp: prReady.Add(2 * time.Hour)},
		// Post-merge chatter must not count.
		commented("carol", prReady.Add(3 * time.Hour)),
	}

	byUser, err := r.Reduce(prReady, prReady, events, "alice")
	require.NoError(t, err)
	require.Contains(t, byUser, "bob")
	require.NotContains(t, byUser, "carol")
}

func TestReduceIgnoresNonActivityEvents(t *testing.T) {
	r := newReducer()

	events := []domain.TimelineEvent{
		{Kind: domain.EventOther, RawEvent: "labeled", Actor: domain.User{Login: "bob"}, Timestamp: prReady.Add(time.Minute)},
		{Kind: domain.EventReviewRequested, Actor: domain.User{Login: "alice"}, RequestedReviewer: domain.User{Login: "bob"}, Timestamp: prReady.Add(2 * time.Minute)},
		commented("bob", prReady.Add(time.Hour)),
	}

	byUser, err := r.Reduce(prReady, prReady, events, "alice")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	require.Equal(t, time.Hour, *byUser["bob"].InitialResponse)
	require.Equal(t, 1, byUser["bob"].IssueComments)
}

func TestReduceMalformedTimeline(t *testing.T) {
	r := newReducer()

	events := []domain.TimelineEvent{
		commented("bob", prReady.Add(-time.Hour)),
	}

	_, err := r.Reduce(prReady, prReady, events, "alice")
	require.ErrorIs(t, err, domain.ErrMalformedTimeline)
}

func TestReduceDraftPhaseActivity(t *testing.T) {
	r := newReducer()

	// Opened as draft Tuesday 10:00, marked ready Wednesday 12:00.
	created := prReady
	ready := created.Add(26 * time.Hour)

	events := []domain.TimelineEvent{
		// Legitimate draft-phase comment: counted, no durations.
		commented("bob", created.Add(time.Hour)),
		commented("bob", ready.Add(time.Hour)),
		reviewed("bob", ready.Add(2*time.Hour), domain.ReviewApproved),
	}

	byUser, err := r.Reduce(created, ready, events, "alice")
	require.NoError(t, err)

	m := byUser["bob"]
	require.Equal(t, 2, m.IssueComments)
	require.NotNil(t, m.InitialResponse)
	require.Equal(t, time.Hour, *m.InitialResponse, "initial response measured from ready, first post-ready event")
	require.NotNil(t, m.Approval)
	require.Equal(t, 2*time.Hour, *m.Approval)
}

func TestReduceDraftPhaseApprovalSetsNoDuration(t *testing.T) {
	r := newReducer()

	created := prReady
	ready := created.Add(26 * time.Hour)

	events := []domain.TimelineEvent{
		reviewed("bob", created.Add(time.Hour), domain.ReviewApproved),
	}

	byUser, err := r.Reduce(created, ready, events, "alice")
	require.NoError(t, err)
	require.Nil(t, byUser["bob"].Approval)
	require.Nil(t, byUser["bob"].InitialResponse)
}

func TestMergeReviewComments(t *testing.T) {
	r := newReducer()

	byUser := map[domain.UserID]*domain.UserPrMetrics{
		"bob": {User: "bob", IssueComments: 1},
	}
	comments := []domain.ReviewComment{
		{User: domain.User{Login: "bob"}},
		{User: domain.User{Login: "bob"}},
		{User: domain.User{Login: "carol"}},
		{User: domain.User{Login: "alice"}}, // author, skipped
	}

	r.MergeReviewComments(byUser, comments, "alice")

	require.Equal(t, 2, byUser["bob"].CodeReviewComments)
	require.Equal(t, 1, byUser["carol"].CodeReviewComments)
	require.NotContains(t, byUser, "alice")
}

func TestReadyForReviewTime(t *testing.T) {
	created := prReady
	readyEvent := prReady.Add(26 * time.Hour)

	pr := &domain.PullRequest{Number: 7, CreatedAt: created, User: domain.User{Login: "alice"}}

	// No ready_for_review event: creation time stands.
	require.Equal(t, created, ReadyForReviewTime(pr, nil))

	// Draft PRs measure from the ready_for_review event.
	events := []domain.TimelineEvent{
		{Kind: domain.EventReadyForReview, Actor: domain.User{Login: "alice"}, Timestamp: readyEvent},
	}
	require.Equal(t, readyEvent, ReadyForReviewTime(pr, events))
}
