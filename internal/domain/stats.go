package domain

import "time"

// UserPrMetrics holds what a single user did on a single pull request.
// Duration pointers are nil until the corresponding first qualifying
// event is seen, and are never overwritten afterwards.
type UserPrMetrics struct {
	User UserID

	// InitialResponse is the business time between the PR becoming ready
	// for review and the user's first comment or review.
	InitialResponse *time.Duration

	// Approval is the business time between the PR becoming ready for
	// review and the user's first approving review.
	Approval *time.Duration

	// IssueComments counts plain comments on the PR conversation.
	IssueComments int

	// CodeReviewComments counts comments anchored to the diff.
	CodeReviewComments int

	// ReviewSubmissionComments counts submitted reviews that commented
	// or requested changes.
	ReviewSubmissionComments int
}

// TotalComments sums all comment categories.
func (m *UserPrMetrics) TotalComments() int {
	return m.IssueComments + m.CodeReviewComments + m.ReviewSubmissionComments
}

// HasActivity reports whether the user left any measurable trace on the PR.
func (m *UserPrMetrics) HasActivity() bool {
	return m.InitialResponse != nil || m.Approval != nil || m.TotalComments() > 0
}

// PrStats is the reduction result for one merged pull request.
type PrStats struct {
	PullRequest PullRequest

	// ReadyAt is when the PR became available for review: creation time,
	// or the ready_for_review event time for PRs opened as drafts.
	ReadyAt  time.Time
	MergedAt time.Time

	// MergeTime is the business time from ReadyAt to MergedAt.
	MergeTime time.Duration

	// ByUser maps reviewer/commenter login to their per-PR metrics.
	// The PR author never appears here.
	ByUser map[UserID]*UserPrMetrics
}

// UserReport aggregates one user's metrics across many pull requests.
type UserReport struct {
	User UserID

	// Entries are the contributing per-PR stats, one per PR the user
	// touched, in the order they were folded in.
	Entries []UserPrEntry

	TotalPrs                int
	TotalApprovals          int
	TotalIssueComments      int
	TotalCodeReviewComments int
	TotalReviewSubmissions  int

	// Averages are computed over recorded samples only. Nil means the
	// user has no samples in that category, which is distinct from an
	// average of zero.
	AvgInitialResponse *time.Duration
	AvgApproval        *time.Duration
}

// UserPrEntry ties per-user metrics back to the PR they came from.
type UserPrEntry struct {
	PrNumber int
	PrURL    string
	Author   UserID
	ReadyAt  time.Time
	MergedAt time.Time
	Metrics  UserPrMetrics
}

// Report is the final output of a stats run.
type Report struct {
	Owner string
	Repo  string

	// Subject is the author or reviewer the run was scoped to.
	Subject UserID

	// PrCount is the number of merged PRs that contributed.
	PrCount int

	// AvgMergeTime is the business-time average from ready to merge over
	// contributing PRs; nil when no PR contributed.
	AvgMergeTime *time.Duration

	// ByUser holds one report per user that had activity.
	ByUser map[UserID]*UserReport

	// ReviewedFor maps PR author to how many of their PRs the subject
	// reviewed. Populated for reviewer-perspective runs only.
	ReviewedFor map[UserID]int
}
