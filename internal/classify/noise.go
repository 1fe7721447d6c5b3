// Package classify decides which lines are noise and which are shaped like
// headings. Both classifiers are pure predicates over line text and
// formatting; all tunable vocabulary comes from keyword tables supplied at
// construction time.
package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mgrims/doclens/internal/keywords"
)

// Noise tags lines that can never be headings: addresses, disclaimers,
// instructions, URLs, phone numbers and shouted label text.
type Noise struct {
	tables *keywords.Tables
}

func NewNoise(t *keywords.Tables) *Noise {
	return &Noise{tables: t}
}

var (
	addressShapeRe = regexp.MustCompile(`^\d+\s+[A-Z]+`)
	phoneShapeRe   = regexp.MustCompile(`^[0-9[:punct:][:space:]]+$`)
	hasDigitRe     = regexp.MustCompile(`[0-9]`)
)

// IsNoise reports whether the line matches any exclusion rule. Matching is
// absolute: formatting strength never overrides a noise verdict.
func (n *Noise) IsNoise(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)

	for _, kw := range n.tables.Disclaimer {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range n.tables.Address {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, kw := range n.tables.Instructional {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, re := range n.tables.WebsitePatterns {
		if re.MatchString(text) {
			return true
		}
	}

	if strings.HasPrefix(text, "RSVP") {
		return true
	}
	if addressShapeRe.MatchString(text) {
		return true
	}
	// Phone-number shape: nothing but digits, punctuation and whitespace.
	if hasDigitRe.MatchString(text) && phoneShapeRe.MatchString(text) {
		return true
	}
	if isAllCaps(text) {
		words := len(strings.Fields(text))
		if words > 3 {
			return true
		}
		// Very short shouted labels like "FAX".
		if len(text) <= 6 {
			return true
		}
	}
	return false
}

// isAllCaps mirrors the usual "isupper" semantics: at least one cased letter
// and no lowercase letters anywhere.
func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
