package billparse

import (
	"regexp"
	"strings"
)

// FieldMatcher is one named extraction strategy. Matchers are composed
// first-match-wins; a matcher that finds nothing reports ok=false and
// never errors.
type FieldMatcher interface {
	Name() string
	TryExtract(text string) (string, bool)
}

// labelMatcher captures the remainder of a line after a label pattern,
// anywhere in the text, case-insensitive.
type labelMatcher struct {
	name    string
	pattern *regexp.Regexp
	maxLen  int
}

func (m labelMatcher) Name() string { return m.name }

func (m labelMatcher) TryExtract(text string) (string, bool) {
	match := m.pattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	v := strings.TrimSpace(match[1])
	if v == "" {
		return "", false
	}
	if m.maxLen > 0 && len(v) > m.maxLen {
		v = v[:m.maxLen]
	}
	return v, true
}

// keywordLineMatcher returns the first of the leading lines containing
// any keyword, verbatim after trimming.
type keywordLineMatcher struct {
	name     string
	keywords []string
	maxLines int
}

func (m keywordLineMatcher) Name() string { return m.name }

func (m keywordLineMatcher) TryExtract(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) > m.maxLines {
		lines = lines[:m.maxLines]
	}
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range m.keywords {
			if strings.Contains(lower, kw) {
				return strings.TrimSpace(line), true
			}
		}
	}
	return "", false
}

// firstMatch runs matchers in order and returns the first hit.
func firstMatch(matchers []FieldMatcher, text string) (string, bool) {
	for _, m := range matchers {
		if v, ok := m.TryExtract(text); ok {
			return v, true
		}
	}
	return "", false
}

// providerKeywords are generic facility words plus known Indian hospital
// chains; matching is substring, lowercase.
var providerKeywords = []string{
	"hospital", "clinic", "medical", "healthcare", "health",
	"apollo", "fortis", "medanta", "manipal", "narayana",
	"aiims", "max super", "aster", "cloudnine", "lilavati",
}

var providerMatchers = []FieldMatcher{
	keywordLineMatcher{name: "provider-keyword-line", keywords: providerKeywords, maxLines: 10},
}

var patientMatchers = []FieldMatcher{
	labelMatcher{name: "patient-name-label", pattern: regexp.MustCompile(`(?i)patient\s*name\s*[:\-]\s*(.+)`), maxLen: 50},
	labelMatcher{name: "name-label", pattern: regexp.MustCompile(`(?i)\bname\s*[:\-]\s*(.+)`), maxLen: 50},
	labelMatcher{name: "mr-honorific", pattern: regexp.MustCompile(`(?i)\bmr\.\s+([a-z][a-z .]+)`), maxLen: 50},
	labelMatcher{name: "mrs-honorific", pattern: regexp.MustCompile(`(?i)\bmrs\.\s+([a-z][a-z .]+)`), maxLen: 50},
}

var totalMatchers = []FieldMatcher{
	labelMatcher{name: "total-label", pattern: regexp.MustCompile(`(?i)\btotal\s*[:\-]?\s*(?:₹|rs\.?|inr)?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)},
	labelMatcher{name: "net-payable-label", pattern: regexp.MustCompile(`(?i)\bnet\s*payable\s*[:\-]?\s*(?:₹|rs\.?|inr)?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)},
	labelMatcher{name: "amount-due-label", pattern: regexp.MustCompile(`(?i)\bamount\s*due\s*[:\-]?\s*(?:₹|rs\.?|inr)?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)},
}

var (
	amountPattern = regexp.MustCompile(`(?:₹|Rs\.?|INR)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	// Standard 15-character GSTIN.
	gstinPattern = regexp.MustCompile(`\b[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][A-Z0-9]Z[A-Z0-9]\b`)
	// A line item: description text, whitespace, then a trailing number.
	lineItemPattern = regexp.MustCompile(`^(.+?)\s+(?:₹|Rs\.?|INR)?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s*$`)
)
