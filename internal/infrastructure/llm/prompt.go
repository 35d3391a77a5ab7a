package llm

import (
	"fmt"

	"ArticlePublisher/internal/domain"
)

func deckLabel(deck string) string {
	switch deck {
	case "numerology":
		return "Numerology Number"
	case "oracle":
		return "Oracle Card"
	default:
		return "Tarot Card"
	}
}

// contentPrompt asks for a complete Korean article on the topic triple. The
// symbolic card is framed strictly as a psychological-interpretation tool;
// predictive or certainty language is forbidden and the closing disclaimer
// is mandatory so the validator's policy can pass.
func contentPrompt(topic domain.Topic, disclaimer string) string {
	return fmt.Sprintf(`You are a professional psychological counselor and relationship analyst specializing in MBTI psychology and symbolic interpretation.

Write a COMPLETE, SEO-optimized blog post in Korean about:
- MBTI Type: %s
- Relationship Situation: %s
- %s: %s (%s)

Before the article, emit these metadata lines, then a line containing only "---":
META_DESCRIPTION: <one sentence>
OG_TITLE: <title for social sharing>
OG_DESCRIPTION: <one sentence>
IMAGE_ALT: <alt text for a featured image>

CRITICAL RULES:
1. The card is ONLY a symbolic/psychological interpretation tool.
2. ABSOLUTELY NO future prediction, fate claims, or certainty statements.
3. Tone: calm, reflective, advisory. Focus on psychological patterns, self-reflection, and personal choice.
4. Start with a single "#" title line, then at least three "##" sections.
5. End the article with this exact disclaimer sentence: %s
6. Write everything completely; never stop mid-sentence.`,
		topic.MBTI,
		topic.Situation,
		deckLabel(topic.CardDeck),
		topic.CardName,
		topic.CardKorean,
		disclaimer,
	)
}

// weeklyPrompt asks for a weekly reflection article for one MBTI type.
func weeklyPrompt(mbti, weekStart, weekEnd, disclaimer string) string {
	return fmt.Sprintf(`You are a professional psychological counselor specializing in MBTI psychology.

Write a COMPLETE weekly reflection article in Korean for the %s personality type, covering the week %s to %s.

Before the article, emit these metadata lines, then a line containing only "---":
META_DESCRIPTION: <one sentence>
OG_TITLE: <title for social sharing>
OG_DESCRIPTION: <one sentence>
IMAGE_ALT: <alt text for a featured image>

CRITICAL RULES:
1. NO future prediction, fate claims, or certainty statements — reflective guidance only.
2. Start with a single "#" title line, then at least three "##" sections (relationships, work, self-care).
3. End the article with this exact disclaimer sentence: %s
4. Write everything completely; never stop mid-sentence.`,
		mbti,
		weekStart,
		weekEnd,
		disclaimer,
	)
}

// imagePrompt describes a featured illustration without any text overlay.
func imagePrompt(topic domain.Topic) string {
	return fmt.Sprintf(
		"A calm, dreamy illustration symbolizing the %q card for a psychology article about %s and %s. Soft pastel colors, no text, no letters.",
		topic.CardName,
		topic.MBTI,
		topic.SituationKeyword(),
	)
}
