package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mgrims/doclens/internal/keywords"
)

// FilterParams are the tunable thresholds of the candidate filter.
type FilterParams struct {
	SizeRatio         float64 // candidate font size must exceed avg*SizeRatio
	BoldMin           float64 // or its bold ratio must reach this
	MinWords          int
	MaxWords          int
	MaxParagraphWords int // above this a line reads as body prose
}

// DefaultFilterParams returns the calibrated defaults.
func DefaultFilterParams() FilterParams {
	return FilterParams{
		SizeRatio:         1.10,
		BoldMin:           0.48,
		MinWords:          2,
		MaxWords:          18,
		MaxParagraphWords: 18,
	}
}

// Context carries the texts of immediately surrounding lines, used to reject
// candidates embedded in address or instruction blocks.
type Context struct {
	Prev []string
	Next []string
}

// CandidateFilter decides whether a line is heading-shaped given its
// formatting relative to the page's body text.
type CandidateFilter struct {
	noise  *Noise
	tables *keywords.Tables
	params FilterParams
}

func NewCandidateFilter(t *keywords.Tables, params FilterParams) *CandidateFilter {
	return &CandidateFilter{
		noise:  NewNoise(t),
		tables: t,
		params: params,
	}
}

// Noise exposes the underlying noise classifier.
func (f *CandidateFilter) Noise() *Noise { return f.noise }

var (
	numericOnlyRe   = regexp.MustCompile(`^\d+\.?$`)
	leadingNumberRe = regexp.MustCompile(`^\d+(?:\.\d+)*\.?\s*`)
	datePatternRe   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b\s+\d{1,2}`)
	pageMarkerRe    = regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`)
	dottedLeaderRe  = regexp.MustCompile(`^.{1,40}\s+\.{2,}\s*\d+$`)
	captionRe       = regexp.MustCompile(`(?i)\b(table|figure)\s*\d+`)
)

// IsCandidate reports whether a line is heading-worthy.
func (f *CandidateFilter) IsCandidate(text string, fontSize, avgSize, boldRatio float64, ctx Context) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	if f.noise.IsNoise(text) {
		return false
	}
	// Numeric-only lines are page numbers or list markers, never headings.
	if numericOnlyRe.MatchString(text) {
		return false
	}
	if f.isParagraphLike(text) {
		return false
	}
	if f.isContextNoise(text, ctx) {
		return false
	}
	// Table-of-contents leader rows and captions mimic heading formatting.
	if dottedLeaderRe.MatchString(text) || captionRe.MatchString(text) {
		return false
	}

	words := len(strings.Fields(text))

	if (fontSize > avgSize*f.params.SizeRatio || boldRatio >= f.params.BoldMin) &&
		words >= f.params.MinWords && words <= f.params.MaxWords {
		return true
	}
	if isAllCaps(text) && words <= 6 && fontSize > avgSize {
		return true
	}
	return f.hasHeadingShape(text)
}

func (f *CandidateFilter) isParagraphLike(text string) bool {
	if len(strings.Fields(text)) > f.params.MaxParagraphWords {
		return true
	}
	// Ignore dotted numbering prefixes like "2.1.13" when counting periods.
	stripped := leadingNumberRe.ReplaceAllString(text, "")
	if strings.Count(stripped, ".") > 1 {
		return true
	}
	return strings.Contains(text, "\n")
}

func (f *CandidateFilter) isContextNoise(text string, ctx Context) bool {
	if datePatternRe.MatchString(text) {
		return true
	}
	if pageMarkerRe.MatchString(text) {
		return true
	}
	if majorityNumeric(text) {
		return true
	}
	for _, prev := range ctx.Prev {
		if f.noise.IsNoise(prev) {
			return true
		}
	}
	for _, next := range ctx.Next {
		if f.noise.IsNoise(next) {
			return true
		}
	}
	return false
}

// hasHeadingShape accepts short title-case or ALL-CAPS lines that do not end
// like a sentence and do not open with a closed-class stop word.
func (f *CandidateFilter) hasHeadingShape(text string) bool {
	if len(text) < 3 || len(text) > 80 {
		return false
	}
	if strings.ContainsAny(string(text[len(text)-1]), ".!?;:,") {
		return false
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(strings.Trim(fields[0], ".,:;"))
	if f.tables.StopWords[first] {
		return false
	}
	return isAllCaps(text) || isTitleCase(fields)
}

// isTitleCase requires every significant word to open with an uppercase
// letter or digit; short lowercase connectives are tolerated.
func isTitleCase(fields []string) bool {
	upper := 0
	for _, w := range fields {
		r := []rune(w)[0]
		switch {
		case unicode.IsUpper(r) || unicode.IsDigit(r):
			upper++
		case len(w) <= 3 && !unicode.IsLetter(r):
			// punctuation token, ignore
		case len(w) <= 3:
			// lowercase connective like "of", "and"
		default:
			return false
		}
	}
	return upper > 0
}

// majorityNumeric reports whether digits dominate the line's alphanumerics.
func majorityNumeric(text string) bool {
	digits, alnum := 0, 0
	for _, r := range text {
		if unicode.IsDigit(r) {
			digits++
			alnum++
		} else if unicode.IsLetter(r) {
			alnum++
		}
	}
	return alnum > 0 && digits*2 > alnum
}
