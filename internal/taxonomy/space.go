package taxonomy

import (
	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/domain"
)

// Card is one symbolic-card entry with its Korean display name.
type Card struct {
	Name   string
	Korean string
	Deck   string
}

// Space is the static cross-product of the three taxonomies. It is built
// from configuration once and never mutated.
type Space struct {
	mbtiTypes  []string
	situations []string
	cards      []Card
}

// NewSpace copies the configured taxonomies into an immutable space.
func NewSpace(cfg config.TaxonomyConfig) *Space {
	cards := make([]Card, len(cfg.Cards))
	for i, c := range cfg.Cards {
		cards[i] = Card{Name: c.Name, Korean: c.Korean, Deck: c.Deck}
	}
	return &Space{
		mbtiTypes:  append([]string(nil), cfg.MBTITypes...),
		situations: append([]string(nil), cfg.Situations...),
		cards:      cards,
	}
}

// MBTITypes returns the personality-type taxonomy.
func (s *Space) MBTITypes() []string { return s.mbtiTypes }

// Situations returns the relationship-situation taxonomy.
func (s *Space) Situations() []string { return s.situations }

// Cards returns the symbolic-card taxonomy.
func (s *Space) Cards() []Card { return s.cards }

// Total is the number of distinct topic combinations.
func (s *Space) Total() int {
	return len(s.mbtiTypes) * len(s.situations) * len(s.cards)
}

// Topic assembles the combination at the given taxonomy indexes.
func (s *Space) Topic(mbtiIdx, situationIdx, cardIdx int) domain.Topic {
	card := s.cards[cardIdx]
	return domain.Topic{
		MBTI:       s.mbtiTypes[mbtiIdx],
		Situation:  s.situations[situationIdx],
		CardName:   card.Name,
		CardKorean: card.Korean,
		CardDeck:   card.Deck,
	}
}
