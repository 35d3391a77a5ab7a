package usecase

import "ArticlePublisher/internal/domain"

// Fixed Korean categories every article belongs to, alongside its MBTI one.
const (
	categoryTarotPsychology = "타로 심리 해석"
	categoryLovePsychology  = "연애 심리"
)

// CategoryNames derives CMS category names from a topic. Pure function: the
// same topic always maps to the same names.
func CategoryNames(topic domain.Topic) []string {
	return []string{
		"MBTI " + topic.MBTI,
		categoryTarotPsychology,
		categoryLovePsychology,
	}
}

// TagNames derives CMS tag names from a topic: the type, the card in both
// languages, and the leading keyword of the situation label.
func TagNames(topic domain.Topic) []string {
	return []string{
		topic.MBTI,
		topic.CardName,
		topic.CardKorean,
		topic.SituationKeyword(),
	}
}
