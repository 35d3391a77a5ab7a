package ports

import (
	"context"
	"time"

	"ArticlePublisher/internal/domain"
)

// Ledger is the durable record of past selection and publication attempts.
// It is single-writer; implementations must fail fast on concurrent writes.
type Ledger interface {
	// Exists reports whether a delivered (publish/future) entry already
	// holds this exact topic. Draft and failed entries do not block.
	Exists(ctx context.Context, topic domain.Topic) (bool, error)
	// Record appends an entry. It never overwrites.
	Record(ctx context.Context, entry domain.LedgerEntry) error
	// CountDelivered counts entries whose status consumed a combination.
	CountDelivered(ctx context.Context) (int, error)
	Statistics(ctx context.Context) (domain.Statistics, error)

	WeeklyExists(ctx context.Context, mbti, weekStart string) (bool, error)
	RecordWeekly(ctx context.Context, entry domain.WeeklyEntry) error
}

// ContentGenerator produces one article for a topic via the external
// text-generation service.
type ContentGenerator interface {
	Generate(ctx context.Context, topic domain.Topic) (domain.Article, error)
}

// WeeklyGenerator produces a weekly fortune article for one MBTI type.
type WeeklyGenerator interface {
	GenerateWeekly(ctx context.Context, mbti, weekStart, weekEnd string) (domain.Article, error)
}

// ImageGenerator renders an optional featured image for a topic.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, topic domain.Topic) ([]byte, error)
}

// Validator checks generated text against the safety policy and rewrites
// violations from the approved replacement vocabulary.
type Validator interface {
	Validate(title, body string) domain.ValidationReport
	Sanitize(body string) string
}

// Publisher delivers articles to the CMS and resolves taxonomy metadata.
type Publisher interface {
	// Publish retries transient failures and, when an immediate publish
	// exhausts its retries, falls back once to draft.
	Publish(ctx context.Context, req domain.PublishRequest) (domain.PublishResult, error)
	EnsureCategory(ctx context.Context, name string) (int64, error)
	EnsureTag(ctx context.Context, name string) (int64, error)
	UploadMedia(ctx context.Context, data []byte, filename, altText string) (int64, error)
	SetFeaturedImage(ctx context.Context, postID, mediaID int64) error
}

// Scheduler controls when recurring pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
