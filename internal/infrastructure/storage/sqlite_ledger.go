package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS published_topics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    mbti TEXT NOT NULL,
    love_situation TEXT NOT NULL,
    card_name TEXT NOT NULL,
    title TEXT NOT NULL,
    post_id INTEGER,
    post_url TEXT,
    status TEXT NOT NULL,
    published_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    error_message TEXT
);
CREATE INDEX IF NOT EXISTS idx_topic_combination
    ON published_topics(mbti, love_situation, card_name);

CREATE TABLE IF NOT EXISTS weekly_fortunes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    mbti TEXT NOT NULL,
    week_start TEXT NOT NULL,
    week_end TEXT NOT NULL,
    title TEXT NOT NULL,
    post_id INTEGER,
    post_url TEXT,
    status TEXT NOT NULL,
    published_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    error_message TEXT
);
CREATE INDEX IF NOT EXISTS idx_weekly_fortune
    ON weekly_fortunes(mbti, week_start);
`

// deliveredStatuses are the statuses that consume a topic combination.
var deliveredStatuses = []string{string(domain.StatusPublished), string(domain.StatusScheduled)}

// SQLiteLedger persists pipeline attempts in a single-writer SQLite file.
// WAL mode plus a busy timeout make concurrent writers fail loudly with
// SQLITE_BUSY instead of silently losing updates.
type SQLiteLedger struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var _ ports.Ledger = (*SQLiteLedger)(nil)

// Open creates or opens the ledger database and ensures the schema exists.
func Open(path string) (*SQLiteLedger, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &domain.StorageError{Op: "open", Err: err}
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	// One connection keeps the single-writer declaration honest in-process.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, &domain.StorageError{Op: "init schema", Err: err}
	}

	return &SQLiteLedger{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

// Close releases the underlying database handle.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// Exists reports whether a delivered entry already holds this topic. Draft
// and failed entries do not block re-selection.
func (l *SQLiteLedger) Exists(ctx context.Context, topic domain.Topic) (bool, error) {
	query, args, err := l.sb.
		Select("COUNT(*)").
		From("published_topics").
		Where(sq.Eq{
			"mbti":           topic.MBTI,
			"love_situation": topic.Situation,
			"card_name":      topic.CardName,
			"status":         deliveredStatuses,
		}).
		ToSql()
	if err != nil {
		return false, &domain.StorageError{Op: "build exists query", Err: err}
	}

	var count int
	if err := l.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, storageErr("exists", err)
	}

	return count > 0, nil
}

// Record appends one attempt. Entries are never updated afterwards.
func (l *SQLiteLedger) Record(ctx context.Context, entry domain.LedgerEntry) error {
	query, args, err := l.sb.
		Insert("published_topics").
		Columns("mbti", "love_situation", "card_name", "title", "post_id", "post_url", "status", "error_message").
		Values(
			entry.Topic.MBTI,
			entry.Topic.Situation,
			entry.Topic.CardName,
			entry.Title,
			nullableID(entry.PostID),
			nullableText(entry.PostURL),
			string(entry.Status),
			nullableText(entry.ErrorMessage),
		).
		ToSql()
	if err != nil {
		return &domain.StorageError{Op: "build record query", Err: err}
	}

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return storageErr("record", err)
	}

	return nil
}

// CountDelivered counts entries whose status consumed a combination.
func (l *SQLiteLedger) CountDelivered(ctx context.Context) (int, error) {
	query, args, err := l.sb.
		Select("COUNT(*)").
		From("published_topics").
		Where(sq.Eq{"status": deliveredStatuses}).
		ToSql()
	if err != nil {
		return 0, &domain.StorageError{Op: "build count query", Err: err}
	}

	var count int
	if err := l.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, storageErr("count delivered", err)
	}

	return count, nil
}

// Statistics aggregates totals, per-status counts, and the success rate.
// Success counts publish, future, and draft: a draft still reached the CMS.
func (l *SQLiteLedger) Statistics(ctx context.Context) (domain.Statistics, error) {
	query, args, err := l.sb.
		Select("status", "COUNT(*)").
		From("published_topics").
		GroupBy("status").
		ToSql()
	if err != nil {
		return domain.Statistics{}, &domain.StorageError{Op: "build stats query", Err: err}
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.Statistics{}, storageErr("statistics", err)
	}
	defer rows.Close()

	stats := domain.Statistics{ByStatus: map[domain.PostStatus]int{}}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return domain.Statistics{}, storageErr("scan statistics", err)
		}
		stats.ByStatus[domain.PostStatus(status)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return domain.Statistics{}, storageErr("iterate statistics", err)
	}

	if stats.Total > 0 {
		success := stats.ByStatus[domain.StatusPublished] +
			stats.ByStatus[domain.StatusScheduled] +
			stats.ByStatus[domain.StatusDraft]
		stats.SuccessRate = float64(success) / float64(stats.Total) * 100
	}

	return stats, nil
}

// WeeklyExists reports whether a weekly fortune was already recorded for
// this MBTI type and week.
func (l *SQLiteLedger) WeeklyExists(ctx context.Context, mbti, weekStart string) (bool, error) {
	query, args, err := l.sb.
		Select("COUNT(*)").
		From("weekly_fortunes").
		Where(sq.Eq{
			"mbti":       mbti,
			"week_start": weekStart,
			"status":     deliveredStatuses,
		}).
		ToSql()
	if err != nil {
		return false, &domain.StorageError{Op: "build weekly exists query", Err: err}
	}

	var count int
	if err := l.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, storageErr("weekly exists", err)
	}

	return count > 0, nil
}

// RecordWeekly appends one weekly fortune attempt.
func (l *SQLiteLedger) RecordWeekly(ctx context.Context, entry domain.WeeklyEntry) error {
	query, args, err := l.sb.
		Insert("weekly_fortunes").
		Columns("mbti", "week_start", "week_end", "title", "post_id", "post_url", "status", "error_message").
		Values(
			entry.MBTI,
			entry.WeekStart,
			entry.WeekEnd,
			entry.Title,
			nullableID(entry.PostID),
			nullableText(entry.PostURL),
			string(entry.Status),
			nullableText(entry.ErrorMessage),
		).
		ToSql()
	if err != nil {
		return &domain.StorageError{Op: "build weekly record query", Err: err}
	}

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return storageErr("record weekly", err)
	}

	return nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func storageErr(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return &domain.StorageError{Op: op, Err: fmt.Errorf("store locked by concurrent writer: %w", err)}
	}
	return &domain.StorageError{Op: op, Err: err}
}
