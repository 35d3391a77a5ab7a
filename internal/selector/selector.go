package selector

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"ArticlePublisher/internal/domain"
	"ArticlePublisher/internal/ports"
	"ArticlePublisher/internal/taxonomy"
)

// DefaultMaxAttempts bounds the random draw before the space is declared
// exhausted. Collisions stay rare until the space is nearly saturated, so a
// bounded random draw beats materializing the remaining set on every run.
const DefaultMaxAttempts = 100

// Selector draws unused topic combinations from the space.
type Selector struct {
	space       *taxonomy.Space
	ledger      ports.Ledger
	rng         *rand.Rand
	maxAttempts int
	logger      *slog.Logger
}

// New builds a selector. rng must be non-nil so tests can seed selection.
func New(space *taxonomy.Space, ledger ports.Ledger, rng *rand.Rand, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		space:       space,
		ledger:      ledger,
		rng:         rng,
		maxAttempts: DefaultMaxAttempts,
		logger:      logger,
	}
}

// WithMaxAttempts overrides the draw budget.
func (s *Selector) WithMaxAttempts(n int) *Selector {
	if n > 0 {
		s.maxAttempts = n
	}
	return s
}

// SelectUnique draws random topics until one is absent from the ledger's
// delivered entries. Returns ExhaustionError once the budget runs out.
func (s *Selector) SelectUnique(ctx context.Context) (domain.Topic, error) {
	if s.space.Total() == 0 {
		return domain.Topic{}, fmt.Errorf("combination space is empty")
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		topic := s.space.Topic(
			s.rng.Intn(len(s.space.MBTITypes())),
			s.rng.Intn(len(s.space.Situations())),
			s.rng.Intn(len(s.space.Cards())),
		)

		used, err := s.ledger.Exists(ctx, topic)
		if err != nil {
			return domain.Topic{}, fmt.Errorf("check topic %s: %w", topic.Key(), err)
		}

		if !used {
			s.logger.Info("selected unique topic",
				"mbti", topic.MBTI,
				"situation", topic.Situation,
				"card", topic.CardName,
				"deck", topic.CardDeck,
				"attempt", attempt)
			return topic, nil
		}
	}

	s.logger.Error("topic selection exhausted", "max_attempts", s.maxAttempts)
	return domain.Topic{}, &domain.ExhaustionError{Attempts: s.maxAttempts}
}

// Remaining counts combinations without a delivered ledger entry.
func (s *Selector) Remaining(ctx context.Context) (int, error) {
	used, err := s.ledger.CountDelivered(ctx)
	if err != nil {
		return 0, fmt.Errorf("count delivered: %w", err)
	}
	return s.space.Total() - used, nil
}
