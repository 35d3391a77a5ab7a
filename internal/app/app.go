package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/infrastructure/llm"
	"ArticlePublisher/internal/infrastructure/scheduler"
	"ArticlePublisher/internal/infrastructure/storage"
	"ArticlePublisher/internal/infrastructure/wordpress"
	"ArticlePublisher/internal/logging"
	"ArticlePublisher/internal/ports"
	"ArticlePublisher/internal/schedule"
	"ArticlePublisher/internal/selector"
	"ArticlePublisher/internal/taxonomy"
	"ArticlePublisher/internal/usecase"
	"ArticlePublisher/internal/validator"
)

// Application wires configs to use cases and owns the ledger handle.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	ledger   *storage.SQLiteLedger
	pipeline *usecase.Pipeline
	weekly   *usecase.WeeklyPipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	ledger, err := storage.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	space := taxonomy.NewSpace(cfg.Taxonomy)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sel := selector.New(space, ledger, rng, baseLogger.With("component", "selector"))
	val := validator.New(cfg.Policy, baseLogger.With("component", "validator"))

	generator, err := llm.NewOpenAIGenerator(cfg.OpenAI, cfg.Policy.Disclaimer, baseLogger.With("component", "generator"))
	if err != nil {
		_ = ledger.Close()
		return nil, fmt.Errorf("build generator: %w", err)
	}

	publisher, err := wordpress.NewClient(cfg.WordPress, baseLogger.With("component", "publisher"))
	if err != nil {
		_ = ledger.Close()
		return nil, fmt.Errorf("build publisher: %w", err)
	}

	var images ports.ImageGenerator
	if cfg.OpenAI.Images {
		images = generator
	}

	planner := schedule.NewPlanner(cfg.Publish.WindowHours, nil, nil)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Selector:  sel,
		Generator: generator,
		Images:    images,
		Validator: val,
		Publisher: publisher,
		Ledger:    ledger,
		Planner:   planner,
		Logger:    baseLogger.With("component", "pipeline"),
	})

	weekly := usecase.NewWeeklyPipeline(usecase.WeeklyDeps{
		Space:     space,
		Generator: generator,
		Validator: val,
		Publisher: publisher,
		Ledger:    ledger,
		Logger:    baseLogger.With("component", "weekly"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		ledger:   ledger,
		pipeline: pipeline,
		weekly:   weekly,
	}, nil
}

// Close releases the ledger handle.
func (a *Application) Close() error {
	return a.ledger.Close()
}

// RunOnce executes a single pipeline pass.
func (a *Application) RunOnce(ctx context.Context, opts usecase.RunOptions) error {
	return a.pipeline.Run(ctx, opts)
}

// RunWeekly publishes the weekly fortunes for every MBTI type.
func (a *Application) RunWeekly(ctx context.Context, opts usecase.RunOptions) (int, int, error) {
	return a.weekly.RunAll(ctx, opts)
}

// Statistics reads ledger aggregates and the remaining combination count.
func (a *Application) Statistics(ctx context.Context) (domain.Statistics, int, error) {
	return a.pipeline.Statistics(ctx)
}

// RunDaemon blocks, running the pipeline on the configured interval until
// the context is cancelled.
func (a *Application) RunDaemon(ctx context.Context, opts usecase.RunOptions) error {
	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.IntervalDuration())
	sched := usecase.NewScheduler(driver, a.pipeline, opts, a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}
