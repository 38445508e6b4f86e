package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"gh-pr-stats/internal/domain"
)

// CSVFormatter exports a report as CSV artifacts: one summary file
// plus a per-PR detail file for every active user.
type CSVFormatter struct {
	writer *Writer
}

func NewCSVFormatter(writer *Writer) *CSVFormatter {
	return &CSVFormatter{writer: writer}
}

// Write stores all CSV artifacts and returns the created file paths.
func (f *CSVFormatter) Write(r *domain.Report) ([]string, error) {
	var paths []string

	path, err := f.writeSummary(r)
	if err != nil {
		return nil, err
	}
	paths = append(paths, path)

	for _, user := range sortedReportUsers(r.ByUser) {
		path, err := f.writeUserDetail(r, user)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func (f *CSVFormatter) writeSummary(r *domain.Report) (string, error) {
	rows := [][]string{{
		"User", "Total PRs", "Total Approvals",
		"Avg Initial Response (mins)", "Avg Approval (mins)",
		"Issue Comments", "Code Review Comments", "Review Submission Comments",
	}}

	for _, user := range sortedReportUsers(r.ByUser) {
		ur := r.ByUser[user]
		rows = append(rows, []string{
			user,
			strconv.Itoa(ur.TotalPrs),
			strconv.Itoa(ur.TotalApprovals),
			minutes(ur.AvgInitialResponse),
			minutes(ur.AvgApproval),
			strconv.Itoa(ur.TotalIssueComments),
			strconv.Itoa(ur.TotalCodeReviewComments),
			strconv.Itoa(ur.TotalReviewSubmissions),
		})
	}

	data, err := encodeCSV(rows)
	if err != nil {
		return "", err
	}
	return f.writer.WriteFile(r, fmt.Sprintf("summary-%s.csv", r.Subject), data)
}

func (f *CSVFormatter) writeUserDetail(r *domain.Report, user domain.UserID) (string, error) {
	ur := r.ByUser[user]

	rows := [][]string{{
		"User", "PR Number",
		"Initial Response (mins)", "Approval (mins)",
		"Issue Comments", "Code Review Comments", "Review Submission Comments",
		"Total Comments",
		"PR Ready On", "PR Merged On",
		"PR Author", "PR URL",
	}}

	for _, e := range ur.Entries {
		rows = append(rows, []string{
			user,
			strconv.Itoa(e.PrNumber),
			minutes(e.Metrics.InitialResponse),
			minutes(e.Metrics.Approval),
			strconv.Itoa(e.Metrics.IssueComments),
			strconv.Itoa(e.Metrics.CodeReviewComments),
			strconv.Itoa(e.Metrics.ReviewSubmissionComments),
			strconv.Itoa(e.Metrics.TotalComments()),
			e.ReadyAt.Format(time.RFC3339),
			e.MergedAt.Format(time.RFC3339),
			e.Author,
			e.PrURL,
		})
	}

	data, err := encodeCSV(rows)
	if err != nil {
		return "", err
	}
	return f.writer.WriteFile(r, fmt.Sprintf("prs-reviewed-by-%s.csv", user), data)
}

func encodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
