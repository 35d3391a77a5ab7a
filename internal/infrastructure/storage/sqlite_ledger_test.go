package storage

import (
	"context"
	"path/filepath"
	"testing"

	"ArticlePublisher/internal/domain"
)

func openTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()

	ledger, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() { _ = ledger.Close() })
	return ledger
}

func testTopic() domain.Topic {
	return domain.Topic{
		MBTI:       "INFP",
		Situation:  "연애 불안 (relationship anxiety)",
		CardName:   "The Moon",
		CardKorean: "달",
		CardDeck:   "tarot",
	}
}

func TestRecordAndExists(t *testing.T) {
	t.Parallel()

	ledger := openTestLedger(t)
	ctx := context.Background()
	topic := testTopic()

	exists, err := ledger.Exists(ctx, topic)
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if exists {
		t.Fatal("empty ledger should not report topic as used")
	}

	entry := domain.LedgerEntry{
		Topic:   topic,
		Title:   "INFP와 달 카드가 말하는 연애 불안",
		PostID:  1234,
		PostURL: "https://example.org/?p=1234",
		Status:  domain.StatusPublished,
	}
	if err := ledger.Record(ctx, entry); err != nil {
		t.Fatalf("Record error: %v", err)
	}

	exists, err = ledger.Exists(ctx, topic)
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !exists {
		t.Fatal("published entry should block its topic")
	}
}

func TestExistsIgnoresDraftAndFailed(t *testing.T) {
	t.Parallel()

	ledger := openTestLedger(t)
	ctx := context.Background()
	topic := testTopic()

	for _, status := range []domain.PostStatus{domain.StatusDraft, domain.StatusFailed} {
		entry := domain.LedgerEntry{
			Topic:        topic,
			Title:        "draft or failed attempt",
			Status:       status,
			ErrorMessage: "transient outage",
		}
		if err := ledger.Record(ctx, entry); err != nil {
			t.Fatalf("Record(%s) error: %v", status, err)
		}
	}

	exists, err := ledger.Exists(ctx, topic)
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if exists {
		t.Fatal("draft and failed entries must not block re-selection")
	}

	// A scheduled entry for the same topic does block.
	if err := ledger.Record(ctx, domain.LedgerEntry{Topic: topic, Title: "t", Status: domain.StatusScheduled}); err != nil {
		t.Fatalf("Record(future) error: %v", err)
	}

	exists, err = ledger.Exists(ctx, topic)
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !exists {
		t.Fatal("scheduled entry should block its topic")
	}
}

func TestRecordAppendsRatherThanOverwrites(t *testing.T) {
	t.Parallel()

	ledger := openTestLedger(t)
	ctx := context.Background()
	topic := testTopic()

	for i := 0; i < 3; i++ {
		entry := domain.LedgerEntry{Topic: topic, Title: "attempt", Status: domain.StatusFailed}
		if err := ledger.Record(ctx, entry); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}

	stats, err := ledger.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics error: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("expected 3 appended entries, got %d", stats.Total)
	}
}

func TestStatistics(t *testing.T) {
	t.Parallel()

	ledger := openTestLedger(t)
	ctx := context.Background()

	entries := []domain.LedgerEntry{
		{Topic: domain.Topic{MBTI: "INFP", Situation: "a", CardName: "The Moon"}, Title: "t1", Status: domain.StatusPublished, PostID: 1},
		{Topic: domain.Topic{MBTI: "ENTJ", Situation: "a", CardName: "The Sun"}, Title: "t2", Status: domain.StatusScheduled, PostID: 2},
		{Topic: domain.Topic{MBTI: "ISFJ", Situation: "a", CardName: "The Star"}, Title: "t3", Status: domain.StatusDraft, PostID: 3},
		{Topic: domain.Topic{MBTI: "ESTP", Situation: "a", CardName: "Death"}, Title: "t4", Status: domain.StatusFailed, ErrorMessage: "boom"},
	}
	for _, entry := range entries {
		if err := ledger.Record(ctx, entry); err != nil {
			t.Fatalf("Record error: %v", err)
		}
	}

	stats, err := ledger.Statistics(ctx)
	if err != nil {
		t.Fatalf("Statistics error: %v", err)
	}

	if stats.Total != 4 {
		t.Fatalf("expected 4 entries, got %d", stats.Total)
	}
	if stats.ByStatus[domain.StatusPublished] != 1 || stats.ByStatus[domain.StatusFailed] != 1 {
		t.Fatalf("unexpected status breakdown: %v", stats.ByStatus)
	}
	if stats.SuccessRate != 75 {
		t.Fatalf("expected 75%% success rate, got %.2f", stats.SuccessRate)
	}

	delivered, err := ledger.CountDelivered(ctx)
	if err != nil {
		t.Fatalf("CountDelivered error: %v", err)
	}
	if delivered != 2 {
		t.Fatalf("expected 2 delivered entries, got %d", delivered)
	}
}

func TestWeeklyLedger(t *testing.T) {
	t.Parallel()

	ledger := openTestLedger(t)
	ctx := context.Background()

	exists, err := ledger.WeeklyExists(ctx, "INFP", "2026-08-24")
	if err != nil {
		t.Fatalf("WeeklyExists error: %v", err)
	}
	if exists {
		t.Fatal("empty weekly table should not report entry")
	}

	entry := domain.WeeklyEntry{
		MBTI:      "INFP",
		WeekStart: "2026-08-24",
		WeekEnd:   "2026-08-30",
		Title:     "INFP 주간 심리 리포트",
		PostID:    99,
		Status:    domain.StatusPublished,
	}
	if err := ledger.RecordWeekly(ctx, entry); err != nil {
		t.Fatalf("RecordWeekly error: %v", err)
	}

	exists, err = ledger.WeeklyExists(ctx, "INFP", "2026-08-24")
	if err != nil {
		t.Fatalf("WeeklyExists error: %v", err)
	}
	if !exists {
		t.Fatal("recorded weekly fortune should be reported")
	}

	// A failed weekly attempt does not block a retry.
	failedEntry := domain.WeeklyEntry{
		MBTI:         "ENTJ",
		WeekStart:    "2026-08-24",
		WeekEnd:      "2026-08-30",
		Status:       domain.StatusFailed,
		ErrorMessage: "generator down",
	}
	if err := ledger.RecordWeekly(ctx, failedEntry); err != nil {
		t.Fatalf("RecordWeekly error: %v", err)
	}

	exists, err = ledger.WeeklyExists(ctx, "ENTJ", "2026-08-24")
	if err != nil {
		t.Fatalf("WeeklyExists error: %v", err)
	}
	if exists {
		t.Fatal("failed weekly entry must not block a retry")
	}
}
