// Package github is a thin typed client for the handful of GitHub REST
// endpoints the stats pipeline consumes. The base URL and http.Client
// are explicit constructor inputs; there is no shared process-wide
// client state.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"gh-pr-stats/internal/domain"
	"gh-pr-stats/internal/pkg/logger"
)

const apiVersion = "2022-11-28"

type Client struct {
	baseURL      string
	http         *http.Client
	pageSize     int
	requestDelay time.Duration
	logger       *logger.Logger
}

// NewClient builds a client from config. transport is optional; when
// set it is installed under the oauth2 token transport, which is how
// the response cache hooks in.
func NewClient(cfg *Config, log *logger.Logger, transport http.RoundTripper) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid github config: %w", err)
	}

	base := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}

	httpClient := base
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		))
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		http:         httpClient,
		pageSize:     cfg.PageSize,
		requestDelay: cfg.RequestDelay,
		logger:       log.Component("github/client"),
	}, nil
}

// PageSize is the per_page value the client requests; the pager uses it
// for exhaustion detection.
func (c *Client) PageSize() int { return c.pageSize }

// RequestDelay is the configured pause between successive page fetches.
func (c *Client) RequestDelay() time.Duration { return c.requestDelay }

// SearchIssues runs the issue search endpoint. Merged PRs show up here
// as issues carrying a pull_request link.
func (c *Client) SearchIssues(ctx context.Context, query string, page, perPage int) (*domain.IssueSearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var result domain.IssueSearchResult
	if err := c.get(ctx, "/search/issues", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PullRequest fetches the PR detail, including merge state and stamps.
func (c *Client) PullRequest(ctx context.Context, owner, repo string, number int) (*domain.PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number)

	var pr domain.PullRequest
	if err := c.get(ctx, path, nil, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// TimelineEvents fetches one page of the PR's issue timeline in
// chronological order.
func (c *Client) TimelineEvents(ctx context.Context, owner, repo string, number, page, perPage int) ([]domain.TimelineEvent, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/timeline", owner, repo, number)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var events []domain.TimelineEvent
	if err := c.get(ctx, path, q, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ReviewComments fetches one page of diff-anchored review comments.
func (c *Client) ReviewComments(ctx context.Context, owner, repo string, number, page, perPage int) ([]domain.ReviewComment, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/comments", owner, repo, number)
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var comments []domain.ReviewComment
	if err := c.get(ctx, path, q, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	c.logger.Debug("api request", "url", u)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp, u)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response, url string) error {
	apiErr := &domain.APIError{
		StatusCode: resp.StatusCode,
		URL:        url,
	}

	// GitHub error bodies carry a "message" field worth surfacing.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Message = payload.Message
		}
	}

	c.logger.Warn("api request failed",
		"url", url,
		"status", resp.StatusCode,
		"message", apiErr.Message,
	)
	return apiErr
}
