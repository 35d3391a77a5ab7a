package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
	"ArticlePublisher/internal/schedule"
	"ArticlePublisher/internal/selector"
)

// PipelineDeps wires all driven adapters into the publishing pipeline.
type PipelineDeps struct {
	Selector  *selector.Selector
	Generator ports.ContentGenerator
	Images    ports.ImageGenerator
	Validator ports.Validator
	Publisher ports.Publisher
	Ledger    ports.Ledger
	Planner   *schedule.Planner
	Logger    *slog.Logger
	Clock     func() time.Time
}

// RunOptions are the per-run knobs the CLI exposes.
type RunOptions struct {
	Status        domain.PostStatus
	ScheduleHours int
	Sanitize      bool
}

// Pipeline coordinates one publishing run: select a unique topic, generate
// content, validate and optionally sanitize it, publish with fallback, and
// record the outcome. Exactly one ledger entry is written per run on every
// path after selection, success or failure.
type Pipeline struct {
	selector  *selector.Selector
	generator ports.ContentGenerator
	images    ports.ImageGenerator
	validator ports.Validator
	publisher ports.Publisher
	ledger    ports.Ledger
	planner   *schedule.Planner
	logger    *slog.Logger
	clock     func() time.Time
}

// NewPipeline constructs the coordinator.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Pipeline{
		selector:  deps.Selector,
		generator: deps.Generator,
		images:    deps.Images,
		validator: deps.Validator,
		publisher: deps.Publisher,
		ledger:    deps.Ledger,
		planner:   deps.Planner,
		logger:    logger,
		clock:     clock,
	}
}

// Run executes one complete pipeline pass.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) error {
	p.logger.Info("pipeline run starting", "status", string(opts.Status), "sanitize", opts.Sanitize)

	// Selection failure aborts with no side effects: there is no topic yet
	// to key a ledger entry.
	topic, err := p.selector.SelectUnique(ctx)
	if err != nil {
		return fmt.Errorf("select topic: %w", err)
	}

	if remaining, remErr := p.selector.Remaining(ctx); remErr == nil {
		p.logger.Info("combination pool status", "remaining", remaining)
	}

	article, err := p.generator.Generate(ctx, topic)
	if err != nil {
		genErr := &domain.GenerationError{Topic: topic, Err: err}
		return p.failRun(ctx, topic, "", genErr)
	}

	report := p.validator.Validate(article.Title, article.Body)
	if !report.Valid && opts.Sanitize {
		p.logger.Info("sanitizing content", "violations", len(report.Violations))
		article.Body = p.validator.Sanitize(article.Body)
		report = p.validator.Validate(article.Title, article.Body)
	}
	if !report.Valid {
		valErr := &domain.ValidationError{Violations: report.Violations}
		return p.failRun(ctx, topic, article.Title, valErr)
	}

	status, scheduleAt := p.resolveTiming(opts)

	categories, tags := p.resolveTaxonomy(ctx, topic)

	result, err := p.publisher.Publish(ctx, domain.PublishRequest{
		Title:      article.Title,
		Body:       article.Body,
		Status:     status,
		Categories: categories,
		Tags:       tags,
		ScheduleAt: scheduleAt,
	})
	if err != nil {
		return p.failRun(ctx, topic, article.Title, err)
	}

	p.attachFeaturedImage(ctx, topic, article, result.PostID)

	entry := domain.LedgerEntry{
		Topic:     topic,
		Title:     article.Title,
		PostID:    result.PostID,
		PostURL:   result.PostURL,
		Status:    result.Status,
		CreatedAt: p.clock(),
	}
	if err := p.ledger.Record(ctx, entry); err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}

	p.logger.Info("pipeline run done",
		"post_id", result.PostID,
		"post_url", result.PostURL,
		"status", string(result.Status),
		"attempts", result.Attempts,
		"fallback", result.FallbackUsed)
	return nil
}

// Statistics reads aggregate ledger state without running the pipeline.
func (p *Pipeline) Statistics(ctx context.Context) (domain.Statistics, int, error) {
	stats, err := p.ledger.Statistics(ctx)
	if err != nil {
		return domain.Statistics{}, 0, err
	}
	remaining, err := p.selector.Remaining(ctx)
	if err != nil {
		return domain.Statistics{}, 0, err
	}
	return stats, remaining, nil
}

// failRun records the failed attempt and returns the original error. A
// storage failure during recording is joined in: losing the audit trail is
// itself fatal.
func (p *Pipeline) failRun(ctx context.Context, topic domain.Topic, title string, runErr error) error {
	entry := domain.LedgerEntry{
		Topic:        topic,
		Title:        title,
		Status:       domain.StatusFailed,
		CreatedAt:    p.clock(),
		ErrorMessage: runErr.Error(),
	}
	if recErr := p.ledger.Record(ctx, entry); recErr != nil {
		return errors.Join(runErr, recErr)
	}

	p.logger.Error("pipeline run failed",
		"topic", topic.Key(),
		"error", runErr)
	return runErr
}

// resolveTiming applies the explicit schedule delay first, then the publish
// window: an immediate publish outside every window becomes a scheduled post
// at the next window start.
func (p *Pipeline) resolveTiming(opts RunOptions) (domain.PostStatus, time.Time) {
	status := opts.Status

	if status == domain.StatusScheduled {
		hours := opts.ScheduleHours
		if hours <= 0 {
			hours = 1
		}
		return status, p.clock().Add(time.Duration(hours) * time.Hour)
	}

	if status == domain.StatusPublished && p.planner != nil && p.planner.ShouldSchedule() {
		next := p.planner.NextPublishTime()
		p.logger.Info("outside publish window, scheduling", "publish_at", next)
		return domain.StatusScheduled, next
	}

	return status, time.Time{}
}

// resolveTaxonomy maps the topic to remote category and tag identifiers.
// Failures degrade to a post without that term; they never fail the run.
func (p *Pipeline) resolveTaxonomy(ctx context.Context, topic domain.Topic) ([]int64, []int64) {
	var categories []int64
	for _, name := range CategoryNames(topic) {
		id, err := p.publisher.EnsureCategory(ctx, name)
		if err != nil {
			p.logger.Warn("resolve category failed", "name", name, "error", err)
			continue
		}
		categories = append(categories, id)
	}

	var tags []int64
	for _, name := range TagNames(topic) {
		id, err := p.publisher.EnsureTag(ctx, name)
		if err != nil {
			p.logger.Warn("resolve tag failed", "name", name, "error", err)
			continue
		}
		tags = append(tags, id)
	}

	return categories, tags
}

// attachFeaturedImage is best effort: a missing image never fails a run
// whose article already went out.
func (p *Pipeline) attachFeaturedImage(ctx context.Context, topic domain.Topic, article domain.Article, postID int64) {
	if p.images == nil || postID == 0 {
		return
	}

	data, err := p.images.GenerateImage(ctx, topic)
	if err != nil {
		p.logger.Warn("featured image generation failed", "error", err)
		return
	}

	altText := article.Meta.ImageAlt
	if altText == "" {
		altText = fmt.Sprintf("%s %s %s", topic.MBTI, topic.Situation, topic.CardKorean)
	}
	filename := fmt.Sprintf("%s_%s.jpg", topic.MBTI, strings.ReplaceAll(topic.CardName, " ", "_"))

	mediaID, err := p.publisher.UploadMedia(ctx, data, filename, altText)
	if err != nil {
		p.logger.Warn("featured image upload failed", "error", err)
		return
	}

	if err := p.publisher.SetFeaturedImage(ctx, postID, mediaID); err != nil {
		p.logger.Warn("set featured image failed", "post_id", postID, "error", err)
		return
	}

	p.logger.Info("featured image attached", "post_id", postID, "media_id", mediaID)
}
