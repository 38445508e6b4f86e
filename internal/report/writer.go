// Package report renders computed review stats as console tables and
// CSV files.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gh-pr-stats/internal/domain"
	"gh-pr-stats/internal/pkg/logger"
	"gh-pr-stats/internal/worktime"
)

// Writer persists report artifacts under a per-run directory named
// after the repository and the subject user.
type Writer struct {
	baseDir string
	logger  *logger.Logger
}

func NewWriter(baseDir string, log *logger.Logger) *Writer {
	return &Writer{
		baseDir: baseDir,
		logger:  log.Component("report/writer"),
	}
}

// Dir returns the directory all artifacts of this report go into,
// creating it if needed.
func (w *Writer) Dir(r *domain.Report) (string, error) {
	dir := filepath.Join(w.baseDir, fmt.Sprintf("%s-%s-%s", r.Owner, r.Repo, r.Subject))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir %s: %w", dir, err)
	}
	return dir, nil
}

// WriteFile stores one artifact and returns its path.
func (w *Writer) WriteFile(r *domain.Report, name string, data []byte) (string, error) {
	dir, err := w.Dir(r)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report file %s: %w", path, err)
	}

	w.logger.Info("report file written", "path", path, "bytes", len(data))
	return path, nil
}

// FormatWorkingDuration renders a business-time duration in working
// days (8h each), hours and minutes, e.g. "1d 3h 30m".
func FormatWorkingDuration(d time.Duration) string {
	if d <= 0 {
		return "0m"
	}

	days := d / worktime.WorkdayLength
	d -= days * worktime.WorkdayLength
	hours := d / time.Hour
	mins := (d % time.Hour) / time.Minute

	out := ""
	if days > 0 {
		out += fmt.Sprintf("%dd ", days)
	}
	if hours > 0 {
		out += fmt.Sprintf("%dh ", hours)
	}
	if mins > 0 || out == "" {
		out += fmt.Sprintf("%dm", mins)
	}
	return trimTrailingSpace(out)
}

func trimTrailingSpace(s string) string {
	if len(s) > 0 && s[len(s)-1] == ' ' {
		return s[:len(s)-1]
	}
	return s
}

// optionalDuration renders a nilable duration, with a dash for absent.
func optionalDuration(d *time.Duration) string {
	if d == nil {
		return "-"
	}
	return FormatWorkingDuration(*d)
}

// minutes renders a nilable duration as whole minutes for CSV use.
func minutes(d *time.Duration) string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%d", int(d.Minutes()))
}
