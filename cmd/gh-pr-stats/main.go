package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	// cancel the run context on SIGINT/SIGTERM for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:   "gh-pr-stats",
		Short: "Working-hours-aware pull request review stats for GitHub repositories",
		Long: `gh-pr-stats analyzes merged pull requests of a GitHub repository and
reports review activity per user: initial response times, approval
times and comment counts, all measured in working hours (Mon-Fri,
09:00-17:00) in each user's own timezone.

Configuration comes from environment variables or a .env file;
GITHUB_TOKEN is required.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAuthorCommand(),
		newReviewerCommand(),
		newServeCommand(),
		newCacheCommand(),
	)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
