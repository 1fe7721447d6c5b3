// Package cleantext supplies the "clean body text" signal: text known to lie
// outside detected tables and boxes. Outline entries are cross-validated
// against it, which removes table and form cell labels that were
// misclassified as headings by formatting alone.
package cleantext

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize maps text to the canonical comparison form: NFKC, lowercase,
// punctuation stripped, whitespace runs collapsed to single spaces.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		default:
			// punctuation dropped
		}
	}
	return b.String()
}

// Signal answers whether a normalized string occurs in the clean body text.
type Signal interface {
	Contains(normalized string) bool
}

// LineSet is a Signal backed by a set of normalized line strings.
type LineSet map[string]bool

// NewLineSet normalizes each line and builds a membership set.
func NewLineSet(lines []string) LineSet {
	set := make(LineSet, len(lines))
	for _, l := range lines {
		if n := Normalize(l); n != "" {
			set[n] = true
		}
	}
	return set
}

func (s LineSet) Contains(normalized string) bool {
	return s[normalized]
}

// FullText is a Signal backed by one normalized document-wide string;
// membership is substring containment.
type FullText struct {
	text string
}

// NewFullText normalizes raw document text into a containment signal.
func NewFullText(raw string) *FullText {
	return &FullText{text: Normalize(raw)}
}

func (f *FullText) Contains(normalized string) bool {
	if normalized == "" {
		return false
	}
	return strings.Contains(f.text, normalized)
}
