package github

import (
	"fmt"
	"strings"
	"time"
)

// SearchQuery builds the issue search expression selecting merged PRs
// for a stats run. Exactly one of Author or Reviewer should be set.
type SearchQuery struct {
	Owner    string
	Repo     string
	Author   string
	Reviewer string

	// CreatedAfter / CreatedBefore bound the PR creation date;
	// zero values leave the bound open.
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

const dateFormat = "2006-01-02"

func (q SearchQuery) String() string {
	parts := []string{
		"is:pr",
		"is:closed",
		"is:merged",
		fmt.Sprintf("repo:%s/%s", q.Owner, q.Repo),
	}

	if q.Author != "" {
		parts = append(parts, "author:"+q.Author)
	}
	if q.Reviewer != "" {
		parts = append(parts, "reviewed-by:"+q.Reviewer)
	}

	switch {
	case !q.CreatedAfter.IsZero() && !q.CreatedBefore.IsZero():
		parts = append(parts, fmt.Sprintf("created:%s..%s",
			q.CreatedAfter.Format(dateFormat), q.CreatedBefore.Format(dateFormat)))
	case !q.CreatedAfter.IsZero():
		parts = append(parts, "created:>="+q.CreatedAfter.Format(dateFormat))
	case !q.CreatedBefore.IsZero():
		parts = append(parts, "created:<="+q.CreatedBefore.Format(dateFormat))
	}

	return strings.Join(parts, " ")
}
