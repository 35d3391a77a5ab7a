package usecase

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/schedule"
	"ArticlePublisher/internal/selector"
	"ArticlePublisher/internal/taxonomy"
)

// memLedger is an in-memory ports.Ledger for coordinator tests.
type memLedger struct {
	delivered map[string]bool
	entries   []domain.LedgerEntry
	weekly    []domain.WeeklyEntry
	recordErr error
}

func newMemLedger() *memLedger {
	return &memLedger{delivered: map[string]bool{}}
}

func (m *memLedger) Exists(_ context.Context, topic domain.Topic) (bool, error) {
	return m.delivered[topic.Key()], nil
}

func (m *memLedger) Record(_ context.Context, entry domain.LedgerEntry) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memLedger) CountDelivered(context.Context) (int, error) {
	return len(m.delivered), nil
}

func (m *memLedger) Statistics(context.Context) (domain.Statistics, error) {
	return domain.Statistics{Total: len(m.entries)}, nil
}

func (m *memLedger) WeeklyExists(_ context.Context, mbti, weekStart string) (bool, error) {
	for _, entry := range m.weekly {
		if entry.MBTI == mbti && entry.WeekStart == weekStart && entry.Status.Delivered() {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLedger) RecordWeekly(_ context.Context, entry domain.WeeklyEntry) error {
	m.weekly = append(m.weekly, entry)
	return nil
}

type stubGenerator struct {
	article domain.Article
	err     error
}

func (s *stubGenerator) Generate(context.Context, domain.Topic) (domain.Article, error) {
	return s.article, s.err
}

func (s *stubGenerator) GenerateWeekly(_ context.Context, mbti, _, _ string) (domain.Article, error) {
	if s.err != nil {
		return domain.Article{}, s.err
	}
	article := s.article
	article.Title = mbti + " " + article.Title
	return article, nil
}

// stubValidator flags any text containing "definitely" and rewrites it.
type stubValidator struct{}

func (stubValidator) Validate(title, body string) domain.ValidationReport {
	if strings.Contains(title+" "+body, "definitely") {
		return domain.ValidationReport{Violations: []domain.Violation{
			{Rule: domain.RuleForbiddenTerm, Detail: "definitely"},
		}}
	}
	return domain.ValidationReport{Valid: true}
}

func (stubValidator) Sanitize(body string) string {
	return strings.ReplaceAll(body, "definitely", "likely")
}

type stubPublisher struct {
	publishFn func(domain.PublishRequest) (domain.PublishResult, error)
	requests  []domain.PublishRequest
}

func (s *stubPublisher) Publish(_ context.Context, req domain.PublishRequest) (domain.PublishResult, error) {
	s.requests = append(s.requests, req)
	if s.publishFn != nil {
		return s.publishFn(req)
	}
	return domain.PublishResult{
		PostID:   100,
		PostURL:  "https://example.org/?p=100",
		Status:   req.Status,
		Attempts: 1,
	}, nil
}

func (s *stubPublisher) EnsureCategory(context.Context, string) (int64, error) { return 1, nil }
func (s *stubPublisher) EnsureTag(context.Context, string) (int64, error)      { return 2, nil }

func (s *stubPublisher) UploadMedia(context.Context, []byte, string, string) (int64, error) {
	return 0, errors.New("media unavailable")
}

func (s *stubPublisher) SetFeaturedImage(context.Context, int64, int64) error { return nil }

func testSpace() *taxonomy.Space {
	return taxonomy.NewSpace(config.TaxonomyConfig{
		MBTITypes:  []string{"INFP"},
		Situations: []string{"연애 불안 (relationship anxiety)"},
		Cards: []config.CardConfig{
			{Name: "The Moon", Korean: "달", Deck: "tarot"},
		},
	})
}

func testArticle() domain.Article {
	return domain.Article{
		Title: "INFP와 달 카드가 말하는 연애 불안",
		Body:  "## 하나\n본문\n## 둘\n본문\n## 셋\n참고 자료일 뿐",
	}
}

func newTestPipeline(ledger *memLedger, gen *stubGenerator, pub *stubPublisher) *Pipeline {
	return NewPipeline(PipelineDeps{
		Selector:  selector.New(testSpace(), ledger, rand.New(rand.NewSource(1)), nil),
		Generator: gen,
		Validator: stubValidator{},
		Publisher: pub,
		Ledger:    ledger,
		Clock:     func() time.Time { return time.Date(2026, time.August, 28, 10, 0, 0, 0, time.UTC) },
	})
}

func TestRunSuccessRecordsDelivered(t *testing.T) {
	t.Parallel()

	ledger := newMemLedger()
	pub := &stubPublisher{}
	pipe := newTestPipeline(ledger, &stubGenerator{article: testArticle()}, pub)

	if err := pipe.Run(context.Background(), RunOptions{Status: domain.StatusDraft}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(ledger.entries) != 1 {
		t.Fatalf("expected exactly one ledger entry, got %d", len(ledger.entries))
	}
	entry := ledger.entries[0]
	if entry.Status != domain.StatusDraft || entry.PostID != 100 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.Topic.MBTI != "INFP" || entry.Topic.CardName != "The Moon" {
		t.Fatalf("entry lost its topic: %+v", entry.Topic)
	}
}

func TestRunGenerationFailureRecordsFailed(t *testing.T) {
	t.Parallel()

	ledger := newMemLedger()
	pub := &stubPublisher{}
	pipe := newTestPipeline(ledger, &stubGenerator{err: errors.New("model timeout")}, pub)

	err := pipe.Run(context.Background(), RunOptions{Status: domain.StatusDraft})

	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("failure must still record one entry, got %d", len(ledger.entries))
	}
	entry := ledger.entries[0]
	if entry.Status != domain.StatusFailed || entry.ErrorMessage == "" {
		t.Fatalf("expected failed entry with error message, got %+v", entry)
	}
	if len(pub.requests) != 0 {
		t.Fatal("failed generation must not reach the publisher")
	}
}

func TestRunValidationFailureRecordsFailed(t *testing.T) {
	t.Parallel()

	ledger := newMemLedger()
	pub := &stubPublisher{}
	article := testArticle()
	article.Title = "definitely 이루어지는 사랑"
	pipe := newTestPipeline(ledger, &stubGenerator{article: article}, pub)

	// Sanitize only rewrites the body, so a title violation survives it.
	err := pipe.Run(context.Background(), RunOptions{Status: domain.StatusDraft, Sanitize: true})

	var valErr *domain.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ledger.entries) != 1 || ledger.entries[0].Status != domain.StatusFailed {
		t.Fatalf("expected one failed entry, got %+v", ledger.entries)
	}
	if len(pub.requests) != 0 {
		t.Fatal("invalid content must not be published")
	}
}

func TestRunSanitizeRescuesContent(t *testing.T) {
	t.Parallel()

	ledger := newMemLedger()
	pub := &stubPublisher{}
	article := testArticle()
	article.Body = article.Body + "\n이 사랑은 definitely 이루어집니다."
	pipe := newTestPipeline(ledger, &stubGenerator{article: article}, pub)

	if err := pipe.Run(context.Background(), RunOptions{Status: domain.StatusDraft, Sanitize: true}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if len(pub.requests) != 1 {
		t.Fatalf("expected one publish call, got %d", len(pub.requests))
	}
	if strings.Contains(pub.requests[0].Body, "definitely") {
		t.Fatal("published body still contains the forbidden term")
	}
	if !strings.Contains(pub.requests[0].Body, "likely") {
		t.Fatal("published body missing the replacement term")
	}
	if ledger.entries[0].Status != domain.StatusDraft {
		t.Fatalf("expected draft record, got %s", ledger.entries[0].Status)
	}
}

func TestRunPublishFallbackRecordsDraft(t *testing.T) {
	t.Parallel()

	ledger := newMemLedger()
	// The gateway reports a fallback: an immediate publish that kept failing
	// came through as a draft instead.
	pub := &stubPublisher{publishFn: func(req domain.PublishRequest) (domain.PublishResult, error) {
		return domain.PublishResult{
			PostID:       200,
			PostURL:      "https://example.org/?p=200",
			Status:       domain.StatusDraft,
			Attempts:     4,
			FallbackUsed: true,
		}, nil
	}}
	pipe := newTestPipeline(ledger, &stubGenerator{article: testArticle()}, pub)

	if err := pipe.Run(context.Background(), RunOptions{Status: domain.StatusPublished}); err != nil {
		t.Fatalf("fallback delivery should still succeed, got %v", err)
	}

	if len(ledger.entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(ledger.entries))
	}
	if ledger.entries[0].Status != domain.StatusDraft {
		t.Fatalf("record must carry the actual delivered status, got %s", ledger.entries[0].Status)
	}
}

func TestRunPublishFailureRecordsFailed(t *testing.T) {
	t.Parallel()

	ledger := newMemLedger()
	pub := &stubPublisher{publishFn: func(req domain.PublishRequest) (domain.PublishResult, error) {
		return domain.PublishResult{}, &domain.PublishError{Status: req.Status, Attempts: 4, Err: errors.New("gateway down")}
	}}
	pipe := newTestPipeline(ledger, &stubGenerator{article: testArticle()}, pub)

	err := pipe.Run(context.Background(), RunOptions{Status: domain.StatusPublished})

	var pubErr *domain.PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("expected PublishError, got %v", err)
	}
	if len(ledger.entries) != 1 || ledger.entries[0].Status != domain.StatusFailed {
		t.Fatalf("expected one failed entry, got %+v", ledger.entries)
	}
}

func TestRunSelectionFailureRecordsNothing(t *testing.T) {
	t.Parallel()

	ledger := newMemLedger()
	ledger.delivered[testSpace().Topic(0, 0, 0).Key()] = true

	pub := &stubPublisher{}
	pipe := newTestPipeline(ledger, &stubGenerator{article: testArticle()}, pub)

	err := pipe.Run(context.Background(), RunOptions{Status: domain.StatusDraft})

	var exhausted *domain.ExhaustionError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ExhaustionError, got %v", err)
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("selection failure must not write ledger entries, got %d", len(ledger.entries))
	}
}

func TestRunRecordFailureJoinsErrors(t *testing.T) {
	t.Parallel()

	ledger := newMemLedger()
	ledger.recordErr = &domain.StorageError{Op: "record", Err: errors.New("store locked by concurrent writer")}
	pub := &stubPublisher{}
	pipe := newTestPipeline(ledger, &stubGenerator{err: errors.New("model timeout")}, pub)

	err := pipe.Run(context.Background(), RunOptions{Status: domain.StatusDraft})

	var genErr *domain.GenerationError
	var storErr *domain.StorageError
	if !errors.As(err, &genErr) || !errors.As(err, &storErr) {
		t.Fatalf("expected both run and storage errors joined, got %v", err)
	}
}

func TestRunScheduledStatusCarriesDelay(t *testing.T) {
	t.Parallel()

	ledger := newMemLedger()
	pub := &stubPublisher{}
	pipe := newTestPipeline(ledger, &stubGenerator{article: testArticle()}, pub)

	opts := RunOptions{Status: domain.StatusScheduled, ScheduleHours: 3}
	if err := pipe.Run(context.Background(), opts); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	req := pub.requests[0]
	if req.Status != domain.StatusScheduled {
		t.Fatalf("expected scheduled request, got %s", req.Status)
	}
	want := time.Date(2026, time.August, 28, 13, 0, 0, 0, time.UTC)
	if !req.ScheduleAt.Equal(want) {
		t.Fatalf("expected schedule at %v, got %v", want, req.ScheduleAt)
	}
}

func TestRunOutsideWindowSchedulesInstead(t *testing.T) {
	t.Parallel()

	ledger := newMemLedger()
	pub := &stubPublisher{}

	// 03:00 is outside every window, so an immediate publish is deferred.
	clock := func() time.Time { return time.Date(2026, time.August, 28, 3, 0, 0, 0, time.UTC) }
	planner := schedule.NewPlanner([]int{10, 14, 18}, clock, rand.New(rand.NewSource(5)))

	pipe := NewPipeline(PipelineDeps{
		Selector:  selector.New(testSpace(), ledger, rand.New(rand.NewSource(1)), nil),
		Generator: &stubGenerator{article: testArticle()},
		Validator: stubValidator{},
		Publisher: pub,
		Ledger:    ledger,
		Planner:   planner,
		Clock:     clock,
	})

	if err := pipe.Run(context.Background(), RunOptions{Status: domain.StatusPublished}); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	req := pub.requests[0]
	if req.Status != domain.StatusScheduled {
		t.Fatalf("expected downgrade to scheduled, got %s", req.Status)
	}
	if req.ScheduleAt.Hour() != 10 {
		t.Fatalf("expected next window at 10, got %v", req.ScheduleAt)
	}
}
