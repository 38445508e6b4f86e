package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"gh-pr-stats/internal/bootstrap"
	"gh-pr-stats/internal/cache"
	"gh-pr-stats/internal/domain"
	"gh-pr-stats/internal/stats"
)

const dateFormat = "2006-01-02"

// statsFlags are shared by the author and reviewer commands.
type statsFlags struct {
	after  string
	before string
	csv    bool
}

func (f *statsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.after, "after", "", "only include PRs created on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.before, "before", "", "only include PRs created on or before this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&f.csv, "csv", true, "export CSV report files")
}

func (f *statsFlags) dateRange() (stats.DateRange, error) {
	var dr stats.DateRange
	var err error

	if f.after != "" {
		if dr.After, err = time.Parse(dateFormat, f.after); err != nil {
			return dr, fmt.Errorf("invalid --after date %q: %w", f.after, err)
		}
	}
	if f.before != "" {
		if dr.Before, err = time.Parse(dateFormat, f.before); err != nil {
			return dr, fmt.Errorf("invalid --before date %q: %w", f.before, err)
		}
	}
	return dr, nil
}

// splitRepo parses an "owner/repo" argument.
func splitRepo(arg string) (string, string, error) {
	owner, repo, ok := strings.Cut(arg, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("repository must be in owner/repo form, got %q", arg)
	}
	return owner, repo, nil
}

// progressOption returns a service option driving a console progress
// bar, created lazily once the PR count is known.
func progressOption() stats.ServiceOption {
	var bar *progressbar.ProgressBar
	return stats.WithProgress(func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("analyzing PRs"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	})
}

func newAuthorCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "author <owner/repo> <login>",
		Short: "Report review activity received by one author's merged PRs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), args, flags, func(ctx context.Context, app *bootstrap.Application, owner, repo string, subject domain.UserID, dr stats.DateRange) (*domain.Report, error) {
				return app.Stats.AuthorStats(ctx, owner, repo, subject, dr)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func newReviewerCommand() *cobra.Command {
	flags := &statsFlags{}

	cmd := &cobra.Command{
		Use:   "reviewer <owner/repo> <login>",
		Short: "Report review activity performed by one reviewer across a repository",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), args, flags, func(ctx context.Context, app *bootstrap.Application, owner, repo string, subject domain.UserID, dr stats.DateRange) (*domain.Report, error) {
				return app.Stats.ReviewerStats(ctx, owner, repo, subject, dr)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

type statsRunFunc func(ctx context.Context, app *bootstrap.Application, owner, repo string, subject domain.UserID, dr stats.DateRange) (*domain.Report, error)

func runStats(ctx context.Context, args []string, flags *statsFlags, run statsRunFunc) error {
	owner, repo, err := splitRepo(args[0])
	if err != nil {
		return err
	}
	subject := args[1]

	dr, err := flags.dateRange()
	if err != nil {
		return err
	}

	app, err := bootstrap.New()
	if err != nil {
		return err
	}
	if err = app.Init(ctx, progressOption()); err != nil {
		return err
	}
	defer shutdown(app)

	report, err := run(ctx, app, owner, repo, subject, dr)
	if err != nil {
		return err
	}

	fmt.Println(app.Tables.Format(report))

	if flags.csv {
		paths, err := app.CSV.Write(report)
		if err != nil {
			return err
		}
		fmt.Println("CSV files written:")
		for _, path := range paths {
			fmt.Println("  " + path)
		}
	}

	tablePath, err := app.ReportWriter.WriteFile(report,
		fmt.Sprintf("report-%s.txt", report.Subject),
		[]byte(app.Tables.Format(report)))
	if err != nil {
		return err
	}
	fmt.Println("Report saved to " + tablePath)

	return nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve generated reports and cache stats over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := bootstrap.New()
			if err != nil {
				return err
			}
			if err = app.Init(ctx); err != nil {
				return err
			}
			if err = app.StartServer(ctx); err != nil {
				return err
			}

			<-ctx.Done()
			shutdown(app)
			return nil
		},
	}
}

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the API response cache",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "count",
			Short: "Show the number of cached API responses",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				app, store, err := cacheApp(cmd.Context())
				if err != nil {
					return err
				}
				defer shutdown(app)

				count, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("%d cached responses\n", count)
				return nil
			},
		},
		newCachePurgeCommand(),
	)

	return cmd
}

func newCachePurgeCommand() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete cached API responses older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, store, err := cacheApp(cmd.Context())
			if err != nil {
				return err
			}
			defer shutdown(app)

			purged, err := store.Purge(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Printf("purged %d cached responses\n", purged)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour, "delete entries older than this age")
	return cmd
}

func cacheApp(ctx context.Context) (*bootstrap.Application, *cache.Store, error) {
	app, err := bootstrap.New()
	if err != nil {
		return nil, nil, err
	}
	if !app.Config.CacheEnabled() {
		return nil, nil, fmt.Errorf("cache disabled: CACHE_DATABASE_DSN is not set")
	}
	if err = app.Init(ctx); err != nil {
		return nil, nil, err
	}
	return app, cache.NewStore(app.Postgres.Pool(), app.Logger), nil
}

func shutdown(app *bootstrap.Application) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.ServerShutdownTimeout)
	defer cancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("shutdown failed: %v\n", err)
	}
}
