package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fer-correa/OSPO-ColabAchievements/internal/collector"
	"github.com/fer-correa/OSPO-ColabAchievements/internal/config"
	"github.com/fer-correa/OSPO-ColabAchievements/internal/ingest"
	"github.com/fer-correa/OSPO-ColabAchievements/pkg/client"
)

var (
	targetsFile string
	outputJSON  bool
	workers     int
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "ospo-worker",
	Short: "OSPO contribution achievements worker",
	Long: `A worker that ingests contribution activity (pull requests, issues,
commits) from GitHub repositories and organizations and records achievements
for contributors in the OSPO-ColabAchievements store.

Runs are idempotent: re-running against the same upstream state creates no
duplicate contributors or achievements.`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one ingestion pass over the configured targets",
	Long: `Resolve the configured repositories and organizations, classify each
repository's contributions into achievements, and record them in the store.`,
	RunE: runIngestion,
}

func init() {
	runCmd.Flags().StringVar(&targetsFile, "config", "", "targets file (default ospo_config.yml)")
	runCmd.Flags().BoolVar(&outputJSON, "json", false, "output the run summary in JSON format")
	runCmd.Flags().IntVar(&workers, "workers", 0, "number of repositories processed concurrently (default 1)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runIngestion(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if workers > 0 {
		cfg.Workers = workers
	}
	if targetsFile != "" {
		cfg.TargetsPath = targetsFile
	}

	if err := cfg.ValidateWorker(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	targets, err := config.LoadTargets(cfg.TargetsPath)
	if err != nil {
		return fmt.Errorf("failed to load targets: %w", err)
	}

	logger := newLogger(logLevel)

	coll := collector.NewGitHubCollector(cfg.GitHubToken, cfg.HTTPTimeout,
		collector.WithRateLimiter(collector.NewRateLimiter(logger)))
	store := client.NewClient(cfg.StoreEndpoint, cfg.HTTPTimeout)

	orch := ingest.NewOrchestrator(coll, store,
		ingest.WithLogger(logger),
		ingest.WithWorkers(cfg.Workers),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := orch.Run(ctx, targets.Repositories, targets.Organizations)
	if err != nil {
		return fmt.Errorf("ingestion run failed: %w", err)
	}

	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(summary)
	}

	renderSummary(summary)
	return nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func renderSummary(summary *ingest.Summary) {
	fmt.Printf("\nIngestion Run Summary\n")
	fmt.Printf("Repositories discovered: %d, succeeded: %d, partial: %d, failed: %d\n",
		summary.ReposDiscovered, summary.Succeeded(), summary.Partial(), summary.Failed())
	fmt.Printf("New achievements: %d (duration %s)\n\n",
		summary.AchievementsCreated(), summary.Duration.Round(time.Millisecond))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Repository", "Status", "Candidates", "Created", "Existing", "Reason"})
	for _, r := range summary.Results {
		table.Append([]string{
			r.Repo,
			string(r.Status),
			fmt.Sprintf("%d", r.Candidates),
			fmt.Sprintf("%d", r.AchievementsCreated),
			fmt.Sprintf("%d", r.AchievementsExisting),
			r.Reason,
		})
	}
	table.Render()
}
