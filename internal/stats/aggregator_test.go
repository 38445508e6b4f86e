package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gh-pr-stats/internal/domain"
)

func durPtr(d time.Duration) *time.Duration { return &d }

func prWith(number int, author string, mergeTime time.Duration, byUser map[domain.UserID]*domain.UserPrMetrics) domain.PrStats {
	return domain.PrStats{
		PullRequest: domain.PullRequest{
			Number: number,
			User:   domain.User{Login: domain.UserID(author)},
		},
		MergeTime: mergeTime,
		ByUser:    byUser,
	}
}

func TestAggregateAverages(t *testing.T) {
	prs := []domain.PrStats{
		prWith(1, "alice", 4*time.Hour, map[domain.UserID]*domain.UserPrMetrics{
			"bob": {
				User:            "bob",
				InitialResponse: durPtr(time.Hour),
				Approval:        durPtr(2 * time.Hour),
				IssueComments:   1,
			},
		}),
		prWith(2, "alice", 8*time.Hour, map[domain.UserID]*domain.UserPrMetrics{
			"bob": {
				User:            "bob",
				InitialResponse: durPtr(3 * time.Hour),
				IssueComments:   2,
			},
		}),
	}

	report := Aggregate("acme", "widgets", "alice", prs)

	require.Equal(t, 2, report.PrCount)
	require.NotNil(t, report.AvgMergeTime)
	require.Equal(t, 6*time.Hour, *report.AvgMergeTime)

	bob := report.ByUser["bob"]
	require.NotNil(t, bob)
	require.Equal(t, 2, bob.TotalPrs)
	require.Equal(t, 3, bob.TotalIssueComments)
	require.Equal(t, 1, bob.TotalApprovals)

	require.NotNil(t, bob.AvgInitialResponse)
	require.Equal(t, 2*time.Hour, *bob.AvgInitialResponse)

	// Only one approval sample exists; the average covers it alone
	// instead of being diluted by the PR without one.
	require.NotNil(t, bob.AvgApproval)
	require.Equal(t, 2*time.Hour, *bob.AvgApproval)
}

func TestAggregateAbsentAverageIsNil(t *testing.T) {
	prs := []domain.PrStats{
		prWith(1, "alice", time.Hour, map[domain.UserID]*domain.UserPrMetrics{
			"bob": {User: "bob", IssueComments: 3},
		}),
	}

	report := Aggregate("acme", "widgets", "alice", prs)

	bob := report.ByUser["bob"]
	require.NotNil(t, bob)
	require.Nil(t, bob.AvgInitialResponse, "no response samples means no average, not a zero one")
	require.Nil(t, bob.AvgApproval)
	require.Equal(t, 0, bob.TotalApprovals)
}

func TestAggregateSkipsInactiveUsers(t *testing.T) {
	prs := []domain.PrStats{
		prWith(1, "alice", time.Hour, map[domain.UserID]*domain.UserPrMetrics{
			"ghost": {User: "ghost"},
			"bob":   {User: "bob", IssueComments: 1},
		}),
	}

	report := Aggregate("acme", "widgets", "alice", prs)

	require.NotContains(t, report.ByUser, domain.UserID("ghost"))
	require.Contains(t, report.ByUser, domain.UserID("bob"))
}

func TestAggregateEmptyInput(t *testing.T) {
	report := Aggregate("acme", "widgets", "alice", nil)

	require.Equal(t, 0, report.PrCount)
	require.Nil(t, report.AvgMergeTime)
	require.Empty(t, report.ByUser)
}

func TestAggregateDeterministic(t *testing.T) {
	prs := []domain.PrStats{
		prWith(1, "alice", 2*time.Hour, map[domain.UserID]*domain.UserPrMetrics{
			"bob":   {User: "bob", InitialResponse: durPtr(time.Hour), IssueComments: 1},
			"carol": {User: "carol", Approval: durPtr(4 * time.Hour)},
		}),
		prWith(2, "alice", 6*time.Hour, map[domain.UserID]*domain.UserPrMetrics{
			"carol": {User: "carol", IssueComments: 2},
		}),
	}

	first := Aggregate("acme", "widgets", "alice", prs)
	second := Aggregate("acme", "widgets", "alice", prs)

	require.Equal(t, first, second)
}

func TestFilterToUser(t *testing.T) {
	prs := []domain.PrStats{
		prWith(1, "alice", time.Hour, map[domain.UserID]*domain.UserPrMetrics{
			"bob":   {User: "bob", IssueComments: 1},
			"carol": {User: "carol", IssueComments: 1},
		}),
	}

	report := FilterToUser(Aggregate("acme", "widgets", "bob", prs), "bob")

	require.Len(t, report.ByUser, 1)
	require.Contains(t, report.ByUser, domain.UserID("bob"))
	require.Equal(t, 1, report.PrCount)
}
