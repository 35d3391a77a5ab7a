package llm

import (
	"strings"

	"ArticlePublisher/internal/domain"
)

// parseResponse splits a raw completion into title, body, and the optional
// metadata block ahead of the "---" separator.
func parseResponse(raw string) domain.Article {
	meta, contentPart := splitMetadata(raw)
	title, body := splitTitle(contentPart)

	return domain.Article{
		Title: title,
		Body:  body,
		Meta:  meta,
	}
}

func splitMetadata(raw string) (domain.SEOMetadata, string) {
	var meta domain.SEOMetadata

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "META_DESCRIPTION:"):
			meta.MetaDescription = strings.TrimSpace(strings.TrimPrefix(trimmed, "META_DESCRIPTION:"))
		case strings.HasPrefix(trimmed, "OG_TITLE:"):
			meta.OGTitle = strings.TrimSpace(strings.TrimPrefix(trimmed, "OG_TITLE:"))
		case strings.HasPrefix(trimmed, "OG_DESCRIPTION:"):
			meta.OGDescription = strings.TrimSpace(strings.TrimPrefix(trimmed, "OG_DESCRIPTION:"))
		case strings.HasPrefix(trimmed, "IMAGE_ALT:"):
			meta.ImageAlt = strings.TrimSpace(strings.TrimPrefix(trimmed, "IMAGE_ALT:"))
		}
	}

	parts := strings.SplitN(raw, "\n---", 2)
	if len(parts) == 2 {
		return meta, parts[1]
	}
	return meta, raw
}

func splitTitle(content string) (string, string) {
	lines := strings.Split(strings.TrimSpace(content), "\n")

	var title string
	var bodyLines []string
	foundTitle := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if !foundTitle && strings.HasPrefix(trimmed, "#") {
			title = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
			foundTitle = true
			continue
		}

		if foundTitle {
			bodyLines = append(bodyLines, line)
		}
	}

	if title == "" {
		for _, line := range lines {
			if strings.TrimSpace(line) != "" {
				title = strings.TrimSpace(line)
				break
			}
		}
	}

	body := strings.TrimSpace(strings.Join(bodyLines, "\n"))
	if body == "" {
		body = strings.TrimSpace(content)
	}

	return title, body
}
