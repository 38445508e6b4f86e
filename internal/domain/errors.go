package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInterval signals a duration computation where the end
	// instant precedes the start instant. Always an input error.
	ErrInvalidInterval = errors.New("interval end precedes start")

	// ErrMalformedTimeline signals a timeline event timestamped before
	// the pull request became ready for review, which violates the API
	// ordering contract.
	ErrMalformedTimeline = errors.New("timeline event precedes pull request ready time")

	// ErrNotMerged signals a PR that cannot contribute stats because it
	// was never merged.
	ErrNotMerged = errors.New("pull request is not merged")
)

// PagingError wraps a transport or decoding failure with the page that
// was being fetched. The paging run aborts and partial results are
// discarded.
type PagingError struct {
	Page int
	Err  error
}

func (e *PagingError) Error() string {
	return fmt.Sprintf("fetch page %d: %v", e.Page, e.Err)
}

func (e *PagingError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the GitHub API.
type APIError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("github api: %s returned %d: %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github api: %s returned %d", e.URL, e.StatusCode)
}

// IsRateLimited reports whether the API rejected the request due to rate
// limiting.
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 403 || e.StatusCode == 429
}
