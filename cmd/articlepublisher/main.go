package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ArticlePublisher/internal/app"
	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/logging"
	"ArticlePublisher/internal/usecase"
)

var (
	flagStatus        string
	flagScheduleHours int
	flagSanitize      bool
)

func main() {
	root := &cobra.Command{
		Use:           "articlepublisher",
		Short:         "Automated psychological-content publishing pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagStatus, "status", "", "post status: draft, publish, or future")
	root.PersistentFlags().IntVar(&flagScheduleHours, "schedule-hours", 0, "hours from now to schedule (status=future)")
	root.PersistentFlags().BoolVar(&flagSanitize, "sanitize", true, "auto-sanitize forbidden terms before failing validation")

	root.AddCommand(runCmd(), weeklyCmd(), statsCmd(), daemonCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() (*app.Application, config.Config, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		return nil, cfg, err
	}
	return application, cfg, nil
}

func runOptions(cfg config.Config) (usecase.RunOptions, error) {
	status := flagStatus
	if status == "" {
		status = cfg.Publish.Status
	}

	var postStatus domain.PostStatus
	switch status {
	case "draft":
		postStatus = domain.StatusDraft
	case "publish":
		postStatus = domain.StatusPublished
	case "future", "scheduled":
		postStatus = domain.StatusScheduled
	default:
		return usecase.RunOptions{}, fmt.Errorf("unknown status %q (want draft, publish, or future)", status)
	}

	hours := flagScheduleHours
	if hours == 0 {
		hours = cfg.Publish.ScheduleHours
	}

	return usecase.RunOptions{
		Status:        postStatus,
		ScheduleHours: hours,
		Sanitize:      flagSanitize && cfg.Publish.AutoSanitize,
	}, nil
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one publishing pipeline pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, cfg, err := newApp()
			if err != nil {
				return err
			}
			defer application.Close()

			opts, err := runOptions(cfg)
			if err != nil {
				return err
			}

			return application.RunOnce(cmd.Context(), opts)
		},
	}
}

func weeklyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "weekly",
		Short: "Publish this week's fortune for every MBTI type",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, cfg, err := newApp()
			if err != nil {
				return err
			}
			defer application.Close()

			opts, err := runOptions(cfg)
			if err != nil {
				return err
			}

			published, failed, err := application.RunWeekly(cmd.Context(), opts)
			fmt.Printf("weekly fortunes: %d published, %d failed\n", published, failed)
			return err
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ledger statistics without running the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, _, err := newApp()
			if err != nil {
				return err
			}
			defer application.Close()

			stats, remaining, err := application.Statistics(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("total attempts:  %d\n", stats.Total)
			for status, count := range stats.ByStatus {
				fmt.Printf("  %-8s %d\n", string(status)+":", count)
			}
			fmt.Printf("success rate:    %.2f%%\n", stats.SuccessRate)
			fmt.Printf("remaining topic combinations: %d\n", remaining)
			return nil
		},
	}
}

func daemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the pipeline on the configured interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, cfg, err := newApp()
			if err != nil {
				return err
			}
			defer application.Close()

			opts, err := runOptions(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return application.RunDaemon(ctx, opts)
		},
	}
}
