package validator

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ArticlePublisher/internal/config"
	"ArticlePublisher/internal/domain"
)

var markdownH2 = regexp.MustCompile(`(?m)^##\s+.+$`)

// Validator enforces the content-safety policy: no certainty/prediction
// vocabulary, a verbatim disclaimer, enough section structure, and a minimum
// length. All checks run; violations accumulate.
type Validator struct {
	forbidden    []string
	replacements map[string]string
	disclaimer   string
	minSections  int
	minLength    int
	logger       *slog.Logger
}

// New builds a validator from the configured policy.
func New(policy config.PolicyConfig, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		forbidden:    append([]string(nil), policy.ForbiddenTerms...),
		replacements: policy.Replacements,
		disclaimer:   policy.Disclaimer,
		minSections:  policy.MinSections,
		minLength:    policy.MinLength,
		logger:       logger,
	}
}

// Validate runs every check against the title and body.
func (v *Validator) Validate(title, body string) domain.ValidationReport {
	var violations []domain.Violation

	for _, term := range v.findForbidden(title + " " + body) {
		violations = append(violations, domain.Violation{
			Rule:   domain.RuleForbiddenTerm,
			Detail: term,
		})
	}

	if v.disclaimer != "" && !strings.Contains(body, v.disclaimer) {
		violations = append(violations, domain.Violation{
			Rule:   domain.RuleDisclaimer,
			Detail: fmt.Sprintf("required disclaimer %q not found", v.disclaimer),
		})
	}

	if got := countSections(body); got < v.minSections {
		violations = append(violations, domain.Violation{
			Rule:   domain.RuleStructure,
			Detail: fmt.Sprintf("%d second-level headings, need %d", got, v.minSections),
		})
	}

	if got := len(body); got < v.minLength {
		violations = append(violations, domain.Violation{
			Rule:   domain.RuleLength,
			Detail: fmt.Sprintf("%d characters, need %d", got, v.minLength),
		})
	}

	return domain.ValidationReport{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}

// Sanitize replaces every mapped forbidden term with its softer synonym.
// Replacements come from an approved vocabulary that never appears in the
// forbidden set, so a second pass is a no-op. Unmapped terms are left intact
// and keep showing up as violations.
func (v *Validator) Sanitize(body string) string {
	sanitized := body
	for _, term := range orderedKeys(v.replacements) {
		pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
		sanitized = pattern.ReplaceAllLiteralString(sanitized, v.replacements[term])
	}

	if v.logger != nil && sanitized != body {
		v.logger.Info("content sanitized",
			"original_length", len(body),
			"sanitized_length", len(sanitized))
	}

	return sanitized
}

func (v *Validator) findForbidden(text string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, term := range v.forbidden {
		if strings.Contains(lower, strings.ToLower(term)) {
			found = append(found, term)
		}
	}
	return found
}

// countSections accepts both markdown and rendered-HTML bodies, since the
// generator emits markdown but the gateway may hand the validator converted
// HTML on re-validation.
func countSections(body string) int {
	count := len(markdownH2.FindAllString(body, -1))

	if strings.Contains(body, "<h2") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
			if n := doc.Find("h2").Length(); n > count {
				count = n
			}
		}
	}

	return count
}

// orderedKeys sorts longest-first so multi-word terms are rewritten before
// any shorter term embedded in them.
func orderedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}
