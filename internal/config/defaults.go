package config

import "time"

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{Path: "data/published_topics.db"},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			MaxTokens:   6000,
			Temperature: 0.7,
			ImageModel:  "dall-e-3",
		},
		WordPress: WordPressConfig{
			TimeoutSeconds: 30,
			MaxAttempts:    3,
		},
		Publish: PublishConfig{
			Status:       "draft",
			AutoSanitize: true,
			WindowHours:  []int{10, 14, 18},
		},
		Policy: PolicyConfig{
			ForbiddenTerms: []string{
				"definitely",
				"guaranteed",
				"100%",
				"must happen",
				"will happen",
				"certain",
				"확실히",
				"반드시",
				"틀림없이",
				"보장",
				"무조건",
			},
			Replacements: map[string]string{
				"definitely":  "likely",
				"guaranteed":  "possible",
				"100%":        "highly",
				"must happen": "may happen",
				"will happen": "might happen",
				"certain":     "probable",
				"확실히":         "아마도",
				"반드시":         "가능하면",
				"틀림없이":        "그럴 수 있습니다",
				"보장":          "가능성",
				"무조건":         "경우에 따라",
			},
			Disclaimer:  "참고 자료일 뿐",
			MinSections: 3,
			MinLength:   1000,
		},
		Taxonomy: TaxonomyConfig{
			MBTITypes: []string{
				"INTJ", "INTP", "ENTJ", "ENTP",
				"INFJ", "INFP", "ENFJ", "ENFP",
				"ISTJ", "ISFJ", "ESTJ", "ESFJ",
				"ISTP", "ISFP", "ESTP", "ESFP",
			},
			Situations: []string{
				"연애 불안 (relationship anxiety)",
				"밀당 (push-pull dynamics)",
				"애착 유형 (attachment style)",
				"거리감 (emotional distance)",
				"재회 고민 (reconciliation concerns)",
				"이별 후 감정 (post-breakup emotions)",
				"짝사랑 (unrequited love)",
				"권태기 (relationship boredom)",
				"신뢰 문제 (trust issues)",
				"소통 단절 (communication breakdown)",
				"질투와 집착 (jealousy and obsession)",
				"사랑과 자존감 (love and self-esteem)",
				"결혼 고민 (marriage concerns)",
				"연상/연하 관계 (age gap relationship)",
				"장거리 연애 (long-distance relationship)",
				"감정 표현 어려움 (difficulty expressing emotions)",
				"상대방 마음 읽기 (reading partner's mind)",
				"관계 패턴 반복 (repeating relationship patterns)",
				"헤어짐 후 미련 (lingering attachment after breakup)",
				"새로운 시작 고민 (concerns about new beginning)",
			},
			Cards: defaultCards(),
		},
		Scheduler: SchedulerConfig{
			Interval: "24h",
			Timezone: defaultTimezone,
			location: tz,
		},
	}
}

func defaultCards() []CardConfig {
	return []CardConfig{
		{Name: "The Fool", Korean: "바보", Deck: "tarot"},
		{Name: "The Magician", Korean: "마법사", Deck: "tarot"},
		{Name: "The High Priestess", Korean: "여사제", Deck: "tarot"},
		{Name: "The Empress", Korean: "여황제", Deck: "tarot"},
		{Name: "The Emperor", Korean: "황제", Deck: "tarot"},
		{Name: "The Hierophant", Korean: "교황", Deck: "tarot"},
		{Name: "The Lovers", Korean: "연인", Deck: "tarot"},
		{Name: "The Chariot", Korean: "전차", Deck: "tarot"},
		{Name: "Strength", Korean: "힘", Deck: "tarot"},
		{Name: "The Hermit", Korean: "은둔자", Deck: "tarot"},
		{Name: "Wheel of Fortune", Korean: "운명의 수레바퀴", Deck: "tarot"},
		{Name: "Justice", Korean: "정의", Deck: "tarot"},
		{Name: "The Hanged Man", Korean: "매달린 사람", Deck: "tarot"},
		{Name: "Death", Korean: "죽음", Deck: "tarot"},
		{Name: "Temperance", Korean: "절제", Deck: "tarot"},
		{Name: "The Devil", Korean: "악마", Deck: "tarot"},
		{Name: "The Tower", Korean: "탑", Deck: "tarot"},
		{Name: "The Star", Korean: "별", Deck: "tarot"},
		{Name: "The Moon", Korean: "달", Deck: "tarot"},
		{Name: "The Sun", Korean: "태양", Deck: "tarot"},
		{Name: "Judgement", Korean: "심판", Deck: "tarot"},
		{Name: "The World", Korean: "세계", Deck: "tarot"},
		{Name: "1", Korean: "숫자 1 (리더십과 독립)", Deck: "numerology"},
		{Name: "2", Korean: "숫자 2 (조화와 파트너십)", Deck: "numerology"},
		{Name: "3", Korean: "숫자 3 (창의성과 표현)", Deck: "numerology"},
		{Name: "4", Korean: "숫자 4 (안정과 기반)", Deck: "numerology"},
		{Name: "5", Korean: "숫자 5 (변화와 자유)", Deck: "numerology"},
		{Name: "6", Korean: "숫자 6 (사랑과 책임)", Deck: "numerology"},
		{Name: "7", Korean: "숫자 7 (영적 탐구)", Deck: "numerology"},
		{Name: "8", Korean: "숫자 8 (힘과 성취)", Deck: "numerology"},
		{Name: "9", Korean: "숫자 9 (완성과 나눔)", Deck: "numerology"},
		{Name: "11", Korean: "마스터 넘버 11 (직관과 영감)", Deck: "numerology"},
		{Name: "22", Korean: "마스터 넘버 22 (실현과 비전)", Deck: "numerology"},
		{Name: "33", Korean: "마스터 넘버 33 (사랑과 치유)", Deck: "numerology"},
		{Name: "New Beginnings", Korean: "새로운 시작", Deck: "oracle"},
		{Name: "Trust Your Path", Korean: "길을 믿기", Deck: "oracle"},
		{Name: "Release and Let Go", Korean: "놓아주기", Deck: "oracle"},
		{Name: "Divine Timing", Korean: "신성한 타이밍", Deck: "oracle"},
		{Name: "Self Love", Korean: "자기 사랑", Deck: "oracle"},
		{Name: "Healing Heart", Korean: "치유하는 마음", Deck: "oracle"},
		{Name: "Soul Connection", Korean: "영혼의 연결", Deck: "oracle"},
		{Name: "Inner Wisdom", Korean: "내면의 지혜", Deck: "oracle"},
		{Name: "Transformation", Korean: "변화", Deck: "oracle"},
		{Name: "Boundaries", Korean: "경계 설정", Deck: "oracle"},
		{Name: "Forgiveness", Korean: "용서", Deck: "oracle"},
		{Name: "Clarity", Korean: "명확함", Deck: "oracle"},
		{Name: "Patience", Korean: "인내", Deck: "oracle"},
		{Name: "Courage", Korean: "용기", Deck: "oracle"},
		{Name: "Balance", Korean: "균형", Deck: "oracle"},
		{Name: "Authenticity", Korean: "진정성", Deck: "oracle"},
		{Name: "Gratitude", Korean: "감사", Deck: "oracle"},
		{Name: "Hope", Korean: "희망", Deck: "oracle"},
		{Name: "Surrender", Korean: "맡기기", Deck: "oracle"},
		{Name: "Manifesting Love", Korean: "사랑 현실화", Deck: "oracle"},
	}
}
