package taxonomy

import (
	"testing"

	"ArticlePublisher/internal/config"
)

func TestSpaceTotalAndTopic(t *testing.T) {
	t.Parallel()

	space := NewSpace(config.TaxonomyConfig{
		MBTITypes:  []string{"INFP", "ENTJ"},
		Situations: []string{"연애 불안 (relationship anxiety)", "짝사랑 (unrequited love)", "권태기 (relationship boredom)"},
		Cards: []config.CardConfig{
			{Name: "The Moon", Korean: "달", Deck: "tarot"},
			{Name: "7", Korean: "숫자 7 (영적 탐구)", Deck: "numerology"},
		},
	})

	if space.Total() != 12 {
		t.Fatalf("expected 12 combinations, got %d", space.Total())
	}

	topic := space.Topic(1, 2, 1)
	if topic.MBTI != "ENTJ" || topic.CardName != "7" || topic.CardDeck != "numerology" {
		t.Fatalf("unexpected topic: %+v", topic)
	}
	if topic.SituationKeyword() != "권태기" {
		t.Fatalf("unexpected situation keyword %q", topic.SituationKeyword())
	}
}

func TestSpaceCopiesConfig(t *testing.T) {
	t.Parallel()

	cfg := config.TaxonomyConfig{
		MBTITypes:  []string{"INFP"},
		Situations: []string{"연애 불안 (relationship anxiety)"},
		Cards:      []config.CardConfig{{Name: "The Moon", Korean: "달", Deck: "tarot"}},
	}
	space := NewSpace(cfg)

	cfg.MBTITypes[0] = "MUTATED"
	if space.MBTITypes()[0] != "INFP" {
		t.Fatal("space must not alias the config slices")
	}
}
