package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
	"ArticlePublisher/internal/taxonomy"
)

// WeeklyDeps wires the weekly-fortune pipeline.
type WeeklyDeps struct {
	Space     *taxonomy.Space
	Generator ports.WeeklyGenerator
	Validator ports.Validator
	Publisher ports.Publisher
	Ledger    ports.Ledger
	Logger    *slog.Logger
	Clock     func() time.Time
}

// WeeklyPipeline publishes one fortune article per MBTI type per week,
// keyed by (type, week start) so a rerun skips the types already delivered.
type WeeklyPipeline struct {
	space     *taxonomy.Space
	generator ports.WeeklyGenerator
	validator ports.Validator
	publisher ports.Publisher
	ledger    ports.Ledger
	logger    *slog.Logger
	clock     func() time.Time
}

// NewWeeklyPipeline constructs the weekly coordinator.
func NewWeeklyPipeline(deps WeeklyDeps) *WeeklyPipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &WeeklyPipeline{
		space:     deps.Space,
		generator: deps.Generator,
		validator: deps.Validator,
		publisher: deps.Publisher,
		ledger:    deps.Ledger,
		logger:    logger,
		clock:     clock,
	}
}

// WeekDates returns the Monday and Sunday of the week containing now.
func WeekDates(now time.Time) (string, string) {
	weekday := int(now.Weekday())
	// time.Sunday is 0; shift so Monday starts the week.
	offset := (weekday + 6) % 7
	monday := now.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format("2006-01-02"), sunday.Format("2006-01-02")
}

// RunAll processes every MBTI type for the current week and reports how many
// were published and how many failed.
func (w *WeeklyPipeline) RunAll(ctx context.Context, opts RunOptions) (published, failed int, err error) {
	weekStart, weekEnd := WeekDates(w.clock())
	w.logger.Info("weekly fortune run starting", "week", weekStart+"~"+weekEnd)

	for _, mbti := range w.space.MBTITypes() {
		done, runErr := w.runOne(ctx, mbti, weekStart, weekEnd, opts)
		if runErr != nil {
			w.logger.Error("weekly fortune failed", "mbti", mbti, "error", runErr)
			failed++
			continue
		}
		if done {
			published++
		}
	}

	if failed > 0 {
		return published, failed, fmt.Errorf("%d of %d weekly fortunes failed", failed, len(w.space.MBTITypes()))
	}
	return published, failed, nil
}

// runOne returns false with a nil error when the week is already covered.
func (w *WeeklyPipeline) runOne(ctx context.Context, mbti, weekStart, weekEnd string, opts RunOptions) (bool, error) {
	exists, err := w.ledger.WeeklyExists(ctx, mbti, weekStart)
	if err != nil {
		return false, fmt.Errorf("check weekly entry: %w", err)
	}
	if exists {
		w.logger.Info("weekly fortune already published", "mbti", mbti, "week_start", weekStart)
		return false, nil
	}

	article, err := w.generator.GenerateWeekly(ctx, mbti, weekStart, weekEnd)
	if err != nil {
		genErr := fmt.Errorf("generate weekly fortune for %s: %w", mbti, err)
		return false, w.failWeekly(ctx, mbti, weekStart, weekEnd, "", genErr)
	}

	report := w.validator.Validate(article.Title, article.Body)
	if !report.Valid && opts.Sanitize {
		article.Body = w.validator.Sanitize(article.Body)
		report = w.validator.Validate(article.Title, article.Body)
	}
	if !report.Valid {
		valErr := &domain.ValidationError{Violations: report.Violations}
		return false, w.failWeekly(ctx, mbti, weekStart, weekEnd, article.Title, valErr)
	}

	result, err := w.publisher.Publish(ctx, domain.PublishRequest{
		Title:  article.Title,
		Body:   article.Body,
		Status: opts.Status,
	})
	if err != nil {
		return false, w.failWeekly(ctx, mbti, weekStart, weekEnd, article.Title, err)
	}

	entry := domain.WeeklyEntry{
		MBTI:      mbti,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		Title:     article.Title,
		PostID:    result.PostID,
		PostURL:   result.PostURL,
		Status:    result.Status,
		CreatedAt: w.clock(),
	}
	if err := w.ledger.RecordWeekly(ctx, entry); err != nil {
		return false, fmt.Errorf("record weekly outcome: %w", err)
	}

	w.logger.Info("weekly fortune published",
		"mbti", mbti,
		"post_id", result.PostID,
		"status", string(result.Status))
	return true, nil
}

func (w *WeeklyPipeline) failWeekly(ctx context.Context, mbti, weekStart, weekEnd, title string, runErr error) error {
	entry := domain.WeeklyEntry{
		MBTI:         mbti,
		WeekStart:    weekStart,
		WeekEnd:      weekEnd,
		Title:        title,
		Status:       domain.StatusFailed,
		CreatedAt:    w.clock(),
		ErrorMessage: runErr.Error(),
	}
	if recErr := w.ledger.RecordWeekly(ctx, entry); recErr != nil {
		return fmt.Errorf("%w (and recording failed: %v)", runErr, recErr)
	}
	return runErr
}
