package domain

import (
	"fmt"
	"strings"
	"time"
)

// Topic is one combination drawn from the three taxonomies. Identity is the
// (MBTI, Situation, CardName) triple; CardKorean and CardDeck are display
// attributes carried along for prompts and tags.
type Topic struct {
	MBTI       string
	Situation  string
	CardName   string
	CardKorean string
	CardDeck   string
}

// Key renders the identity triple for logs and diagnostics.
func (t Topic) Key() string {
	return fmt.Sprintf("%s/%s/%s", t.MBTI, t.Situation, t.CardName)
}

// SituationKeyword extracts the leading Korean keyword from a bilingual
// situation label such as "연애 불안 (relationship anxiety)".
func (t Topic) SituationKeyword() string {
	if idx := strings.Index(t.Situation, "("); idx >= 0 {
		return strings.TrimSpace(t.Situation[:idx])
	}
	return strings.TrimSpace(t.Situation)
}

// PostStatus enumerates delivery outcomes recorded in the ledger. The
// scheduled value is "future" because that is what the CMS reports back.
type PostStatus string

const (
	StatusPublished PostStatus = "publish"
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "future"
	StatusFailed    PostStatus = "failed"
)

// Delivered reports whether the status consumes its topic combination.
// Draft and failed entries leave the combination available for re-selection.
func (s PostStatus) Delivered() bool {
	return s == StatusPublished || s == StatusScheduled
}

// SEOMetadata carries the optional metadata lines the generator emits ahead
// of the article body.
type SEOMetadata struct {
	MetaDescription string
	OGTitle         string
	OGDescription   string
	ImageAlt        string
}

// Article is the transient result of one generation call. It is owned by a
// single pipeline run and never persisted on its own.
type Article struct {
	Title string
	Body  string
	Meta  SEOMetadata
}

// WordCount counts whitespace-separated tokens in the body.
func (a Article) WordCount() int {
	return len(strings.Fields(a.Body))
}

// LedgerEntry is the persisted record of one pipeline attempt, keyed by its
// Topic. Entries are append-only; PostID zero and PostURL empty mean the
// attempt never reached the CMS.
type LedgerEntry struct {
	Topic        Topic
	Title        string
	PostID       int64
	PostURL      string
	Status       PostStatus
	CreatedAt    time.Time
	ErrorMessage string
}

// WeeklyEntry records one weekly fortune attempt, keyed by (MBTI, WeekStart).
type WeeklyEntry struct {
	MBTI         string
	WeekStart    string
	WeekEnd      string
	Title        string
	PostID       int64
	PostURL      string
	Status       PostStatus
	CreatedAt    time.Time
	ErrorMessage string
}

// Statistics aggregates ledger contents for the stats command.
type Statistics struct {
	Total       int
	ByStatus    map[PostStatus]int
	SuccessRate float64
}

// PublishResult reports a successful delivery, including fallback-to-draft.
type PublishResult struct {
	PostID       int64
	PostURL      string
	Status       PostStatus
	Attempts     int
	FallbackUsed bool
}

// PublishRequest carries everything the gateway needs for one post.
type PublishRequest struct {
	Title      string
	Body       string
	Status     PostStatus
	Categories []int64
	Tags       []int64
	ScheduleAt time.Time
}

// Violation names a broken validation rule and the offending detail.
type Violation struct {
	Rule   string
	Detail string
}

// Validation rule identifiers.
const (
	RuleForbiddenTerm = "forbidden-term"
	RuleDisclaimer    = "missing-disclaimer"
	RuleStructure     = "heading-structure"
	RuleLength        = "minimum-length"
)

// ValidationReport collects every violation found in one pass.
type ValidationReport struct {
	Valid      bool
	Violations []Violation
}

// ForbiddenTerms lists the terms flagged by forbidden-term violations.
func (r ValidationReport) ForbiddenTerms() []string {
	var terms []string
	for _, v := range r.Violations {
		if v.Rule == RuleForbiddenTerm {
			terms = append(terms, v.Detail)
		}
	}
	return terms
}
