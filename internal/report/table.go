package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"gh-pr-stats/internal/domain"
)

// TableFormatter renders a report as ASCII tables for the console and
// for the plain-text report artifact.
type TableFormatter struct{}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// Format renders the whole report: a header, the per-user summary
// table and, for reviewer runs, the reviewed-for breakdown.
func (f *TableFormatter) Format(r *domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Review stats for %s/%s, subject %s\n", r.Owner, r.Repo, r.Subject)
	fmt.Fprintf(&b, "Merged PRs analyzed: %d", r.PrCount)
	if r.AvgMergeTime != nil {
		fmt.Fprintf(&b, ", avg time to merge: %s", FormatWorkingDuration(*r.AvgMergeTime))
	}
	b.WriteString("\n\n")

	if len(r.ByUser) == 0 {
		b.WriteString("No review activity found.\n")
		return b.String()
	}

	f.writeSummary(&b, r)

	if len(r.ReviewedFor) > 0 {
		b.WriteString("\n")
		f.writeReviewedFor(&b, r)
	}

	return b.String()
}

func (f *TableFormatter) writeSummary(b *strings.Builder, r *domain.Report) {
	table := tablewriter.NewWriter(b)
	table.SetHeader([]string{
		"User", "PRs", "Approvals",
		"Avg Initial Response", "Avg Approval",
		"Issue Comments", "Code Review Comments", "Review Comments",
	})

	for _, user := range sortedReportUsers(r.ByUser) {
		ur := r.ByUser[user]
		table.Append([]string{
			user,
			strconv.Itoa(ur.TotalPrs),
			strconv.Itoa(ur.TotalApprovals),
			optionalDuration(ur.AvgInitialResponse),
			optionalDuration(ur.AvgApproval),
			strconv.Itoa(ur.TotalIssueComments),
			strconv.Itoa(ur.TotalCodeReviewComments),
			strconv.Itoa(ur.TotalReviewSubmissions),
		})
	}

	table.Render()
}

func (f *TableFormatter) writeReviewedFor(b *strings.Builder, r *domain.Report) {
	fmt.Fprintf(b, "PR authors reviewed by %s\n", r.Subject)

	authors := make([]domain.UserID, 0, len(r.ReviewedFor))
	for author := range r.ReviewedFor {
		authors = append(authors, author)
	}
	sort.Strings(authors)

	table := tablewriter.NewWriter(b)
	table.SetHeader([]string{"PR Author", "PRs Reviewed"})
	for _, author := range authors {
		table.Append([]string{author, strconv.Itoa(r.ReviewedFor[author])})
	}
	table.Render()
}

// FormatUserDetail renders the per-PR breakdown for one user.
func (f *TableFormatter) FormatUserDetail(r *domain.Report, user domain.UserID) string {
	ur, ok := r.ByUser[user]
	if !ok {
		return fmt.Sprintf("No activity by %s in %s/%s.\n", user, r.Owner, r.Repo)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Per-PR activity of %s in %s/%s\n", user, r.Owner, r.Repo)

	table := tablewriter.NewWriter(&b)
	table.SetHeader([]string{
		"PR", "Author", "Initial Response", "Approval",
		"Issue", "Code Review", "Review", "Total Comments",
	})
	for _, e := range ur.Entries {
		table.Append([]string{
			fmt.Sprintf("#%d", e.PrNumber),
			e.Author,
			optionalDuration(e.Metrics.InitialResponse),
			optionalDuration(e.Metrics.Approval),
			strconv.Itoa(e.Metrics.IssueComments),
			strconv.Itoa(e.Metrics.CodeReviewComments),
			strconv.Itoa(e.Metrics.ReviewSubmissionComments),
			strconv.Itoa(e.Metrics.TotalComments()),
		})
	}
	table.Render()

	return b.String()
}

func sortedReportUsers(byUser map[domain.UserID]*domain.UserReport) []domain.UserID {
	users := make([]domain.UserID, 0, len(byUser))
	for user := range byUser {
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}
