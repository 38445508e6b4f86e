package domain

import "time"

type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
)

// PullRequest is the pull request detail returned by the pulls endpoint.
type PullRequest struct {
	Number    int        `json:"number"`
	State     PRState    `json:"state"`
	Title     string     `json:"title"`
	HTMLURL   string     `json:"html_url"`
	User      User       `json:"user"`
	Draft     bool       `json:"draft"`
	Merged    bool       `json:"merged"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	MergedAt  *time.Time `json:"merged_at"`
}

// Issue is a single result of the issue search endpoint. Pull requests
// show up in issue search results with a non-nil PullRequest link.
type Issue struct {
	Number      int            `json:"number"`
	Title       string         `json:"title"`
	HTMLURL     string         `json:"html_url"`
	User        User           `json:"user"`
	CreatedAt   time.Time      `json:"created_at"`
	ClosedAt    *time.Time     `json:"closed_at"`
	PullRequest *IssuePullLink `json:"pull_request"`
}

// IsPullRequest reports whether the search result is a PR, not a plain issue.
func (i Issue) IsPullRequest() bool {
	return i.PullRequest != nil
}

type IssuePullLink struct {
	URL      string     `json:"url"`
	MergedAt *time.Time `json:"merged_at"`
}

// IssueSearchResult is the envelope of the search/issues endpoint.
type IssueSearchResult struct {
	TotalCount        int     `json:"total_count"`
	IncompleteResults bool    `json:"incomplete_results"`
	Items             []Issue `json:"items"`
}

// ReviewComment is a comment anchored to a portion of the unified diff,
// returned by the pulls/{n}/comments endpoint. Distinct from issue
// comments and from review submission bodies.
type ReviewComment struct {
	ID        int64     `json:"id"`
	User      User      `json:"user"`
	Body      string    `json:"body"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
