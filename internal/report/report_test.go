package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gh-pr-stats/internal/domain"
	"gh-pr-stats/internal/pkg/logger"
)

func durPtr(d time.Duration) *time.Duration { return &d }

func sampleReport() *domain.Report {
	ready := time.Date(2022, time.September, 6, 10, 0, 0, 0, time.UTC)
	merged := ready.Add(6 * time.Hour)
	avgMerge := 6 * time.Hour

	return &domain.Report{
		Owner:        "acme",
		Repo:         "widgets",
		Subject:      "alice",
		PrCount:      1,
		AvgMergeTime: &avgMerge,
		ByUser: map[domain.UserID]*domain.UserReport{
			"bob": {
				User: "bob",
				Entries: []domain.UserPrEntry{{
					PrNumber: 42,
					PrURL:    "https://github.com/acme/widgets/pull/42",
					Author:   "alice",
					ReadyAt:  ready,
					MergedAt: merged,
					Metrics: domain.UserPrMetrics{
						User:            "bob",
						InitialResponse: durPtr(90 * time.Minute),
						Approval:        durPtr(3 * time.Hour),
						IssueComments:   2,
					},
				}},
				TotalPrs:           1,
				TotalApprovals:     1,
				TotalIssueComments: 2,
				AvgInitialResponse: durPtr(90 * time.Minute),
				AvgApproval:        durPtr(3 * time.Hour),
			},
		},
	}
}

func TestFormatWorkingDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0m"},
		{-time.Hour, "0m"},
		{45 * time.Minute, "45m"},
		{time.Hour, "1h"},
		{90 * time.Minute, "1h 30m"},
		{8 * time.Hour, "1d"},
		{12*time.Hour + 15*time.Minute, "1d 4h 15m"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatWorkingDuration(tc.in), "input %s", tc.in)
	}
}

func TestTableFormat(t *testing.T) {
	out := NewTableFormatter().Format(sampleReport())

	require.Contains(t, out, "Review stats for acme/widgets, subject alice")
	require.Contains(t, out, "Merged PRs analyzed: 1")
	require.Contains(t, out, "avg time to merge: 6h")
	require.Contains(t, out, "bob")
	require.Contains(t, out, "1h 30m")
}

func TestTableFormatEmptyReport(t *testing.T) {
	r := &domain.Report{Owner: "acme", Repo: "widgets", Subject: "alice"}
	out := NewTableFormatter().Format(r)
	require.Contains(t, out, "No review activity found.")
}

func TestTableFormatReviewedFor(t *testing.T) {
	r := sampleReport()
	r.Subject = "bob"
	r.ReviewedFor = map[domain.UserID]int{"alice": 3, "carol": 1}

	out := NewTableFormatter().Format(r)
	require.Contains(t, out, "PR authors reviewed by bob")
	require.Contains(t, out, "alice")
	require.Contains(t, out, "carol")
}

func TestFormatUserDetail(t *testing.T) {
	f := NewTableFormatter()

	out := f.FormatUserDetail(sampleReport(), "bob")
	require.Contains(t, out, "#42")
	require.Contains(t, out, "alice")

	missing := f.FormatUserDetail(sampleReport(), "nobody")
	require.Contains(t, missing, "No activity by nobody")
}

func TestCSVWrite(t *testing.T) {
	base := t.TempDir()
	writer := NewWriter(base, logger.Discard())

	paths, err := NewCSVFormatter(writer).Write(sampleReport())
	require.NoError(t, err)
	require.Len(t, paths, 2)

	require.Equal(t, filepath.Join(base, "acme-widgets-alice", "summary-alice.csv"), paths[0])
	require.Equal(t, filepath.Join(base, "acme-widgets-alice", "prs-reviewed-by-bob.csv"), paths[1])

	raw, err := os.ReadFile(paths[0])
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "User", rows[0][0])
	require.Equal(t, "bob", rows[1][0])
	require.Equal(t, "90", rows[1][3], "average initial response exported as whole minutes")

	detail, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	require.Contains(t, string(detail), "https://github.com/acme/widgets/pull/42")
}

func TestWriterDirPerReport(t *testing.T) {
	base := t.TempDir()
	writer := NewWriter(base, logger.Discard())

	dir, err := writer.Dir(sampleReport())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(base, "acme-widgets-alice"), dir)
	require.DirExists(t, dir)
}
