package stats

import (
	"sort"
	"time"

	"gh-pr-stats/internal/domain"
)

// Aggregate folds per-PR reductions into a repository-wide report
// keyed by user. The fold is stateless and order-independent per user
// key, and deterministic: the same input always produces the same
// report.
//
// Averages are computed over recorded samples only. A user with no
// approvals has a nil average approval time, not a zero one.
func Aggregate(owner, repo string, subject domain.UserID, prs []domain.PrStats) *domain.Report {
	report := &domain.Report{
		Owner:   owner,
		Repo:    repo,
		Subject: subject,
		PrCount: len(prs),
		ByUser:  make(map[domain.UserID]*domain.UserReport),
	}

	type sums struct {
		initialResponse time.Duration
		initialCount    int
		approval        time.Duration
		approvalCount   int
	}
	totals := make(map[domain.UserID]*sums)

	var mergeSum time.Duration
	for _, pr := range prs {
		mergeSum += pr.MergeTime

		for _, user := range sortedUsers(pr.ByUser) {
			m := pr.ByUser[user]
			if !m.HasActivity() {
				continue
			}

			ur := report.ByUser[user]
			if ur == nil {
				ur = &domain.UserReport{User: user}
				report.ByUser[user] = ur
			}
			sum := totals[user]
			if sum == nil {
				sum = &sums{}
				totals[user] = sum
			}

			ur.Entries = append(ur.Entries, domain.UserPrEntry{
				PrNumber: pr.PullRequest.Number,
				PrURL:    pr.PullRequest.HTMLURL,
				Author:   pr.PullRequest.User.Login,
				ReadyAt:  pr.ReadyAt,
				MergedAt: pr.MergedAt,
				Metrics:  *m,
			})

			ur.TotalPrs++
			ur.TotalIssueComments += m.IssueComments
			ur.TotalCodeReviewComments += m.CodeReviewComments
			ur.TotalReviewSubmissions += m.ReviewSubmissionComments

			if m.InitialResponse != nil {
				sum.initialResponse += *m.InitialResponse
				sum.initialCount++
			}
			if m.Approval != nil {
				ur.TotalApprovals++
				sum.approval += *m.Approval
				sum.approvalCount++
			}
		}
	}

	for user, sum := range totals {
		ur := report.ByUser[user]
		if sum.initialCount > 0 {
			avg := sum.initialResponse / time.Duration(sum.initialCount)
			ur.AvgInitialResponse = &avg
		}
		if sum.approvalCount > 0 {
			avg := sum.approval / time.Duration(sum.approvalCount)
			ur.AvgApproval = &avg
		}
	}

	if len(prs) > 0 {
		avg := mergeSum / time.Duration(len(prs))
		report.AvgMergeTime = &avg
	}

	return report
}

// FilterToUser narrows a report to a single user's entry, used for
// reviewer-perspective runs.
func FilterToUser(report *domain.Report, user domain.UserID) *domain.Report {
	filtered := *report
	filtered.ByUser = make(map[domain.UserID]*domain.UserReport, 1)
	if ur, ok := report.ByUser[user]; ok {
		filtered.ByUser[user] = ur
	}
	return &filtered
}

func sortedUsers(byUser map[domain.UserID]*domain.UserPrMetrics) []domain.UserID {
	users := make([]domain.UserID, 0, len(byUser))
	for user := range byUser {
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}
