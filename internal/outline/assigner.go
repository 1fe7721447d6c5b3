package outline

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/mgrims/doclens/internal/layout"
)

// LevelAssigner maps filtered candidate lines, in document order, to leveled
// outline items. Item pages are still 0-based here. Implementations may drop
// candidates that do not score as headings.
type LevelAssigner interface {
	Assign(cands []layout.LineRecord) []Item
}

// numberingRe matches a dotted numeric prefix like "2", "2.1" or "2.1.3"
// followed by a period or whitespace.
var numberingRe = regexp.MustCompile(`^(\d+(?:\.\d+){0,2})[.\s]`)

// numberingDepth returns the prefix depth (dots+1, capped at 3), or 0 when
// the text has no numbering prefix.
func numberingDepth(text string) int {
	m := numberingRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0
	}
	depth := strings.Count(m[1], ".") + 1
	if depth > 3 {
		depth = 3
	}
	return depth
}

// ScoringParams are the tunable thresholds of the whole-document scoring
// strategy. Only the ordering H1 > H2 > H3 is load-bearing; the exact cut
// points are calibration.
type ScoringParams struct {
	H1Threshold float64
	H2Threshold float64
	H3Threshold float64

	BoldStrong float64 // bold ratio for the full bold bonus
	BoldMedium float64 // bold ratio for the half bonus

	ShortWords int // at or below: concise-heading bonus
	LongWords  int // at or above: verbosity penalty

	CompactHeight float64 // vertical extent below which a line reads compact
}

// DefaultScoringParams returns the calibrated defaults.
func DefaultScoringParams() ScoringParams {
	return ScoringParams{
		H1Threshold:   3.5,
		H2Threshold:   2.0,
		H3Threshold:   1.0,
		BoldStrong:    0.7,
		BoldMedium:    0.5,
		ShortWords:    10,
		LongWords:     15,
		CompactHeight: 20,
	}
}

// ScoringAssigner implements the whole-document strategy:
// numbering prefixes dominate, candidates before the first numbered heading
// are front-matter and forced to H1, and the rest are scored on formatting.
type ScoringAssigner struct {
	Params ScoringParams
}

func (a *ScoringAssigner) Assign(cands []layout.LineRecord) []Item {
	if len(cands) == 0 {
		return nil
	}
	p := a.Params
	if p.H1Threshold == 0 && p.H2Threshold == 0 && p.H3Threshold == 0 {
		p = DefaultScoringParams()
	}

	firstNumbered := -1
	for i, c := range cands {
		if numberingDepth(c.Text) > 0 {
			firstNumbered = i
			break
		}
	}

	sizeRank := rankDistinctSizes(cands)
	occurrences := make(map[string]int, len(cands))
	for _, c := range cands {
		occurrences[c.Text]++
	}

	var items []Item
	for i, c := range cands {
		var level Level
		switch {
		case numberingDepth(c.Text) > 0:
			level = Level(numberingDepth(c.Text))
		case firstNumbered >= 0 && i < firstNumbered:
			// Front matter before the first numbered section is top-level.
			level = H1
		default:
			score := a.score(c, p, sizeRank, occurrences)
			switch {
			case score >= p.H1Threshold:
				level = H1
			case score >= p.H2Threshold:
				level = H2
			case score >= p.H3Threshold:
				level = H3
			default:
				continue // not a heading after all
			}
		}
		items = append(items, Item{Level: level, Text: c.Text, Page: c.Page})
	}
	return items
}

func (a *ScoringAssigner) score(c layout.LineRecord, p ScoringParams, sizeRank map[float64]int, occurrences map[string]int) float64 {
	score := 0.0

	switch sizeRank[quantizeSize(c.FontSize)] {
	case 0:
		score += 2
	case 1:
		score += 1
	}

	if c.BoldRatio > p.BoldStrong {
		score += 1
	} else if c.BoldRatio > p.BoldMedium {
		score += 0.5
	}

	words := c.WordCount()
	if words <= p.ShortWords {
		score += 2
	} else if words >= p.LongWords {
		score -= 1
	}

	// Text appearing exactly once is unlikely to be running boilerplate.
	if occurrences[c.Text] == 1 {
		score += 1
	}

	if c.Height() > 0 && c.Height() < p.CompactHeight {
		score += 0.5
	}
	return score
}

// rankDistinctSizes maps each quantized font size to its rank among the
// distinct sizes observed, largest first.
func rankDistinctSizes(cands []layout.LineRecord) map[float64]int {
	seen := make(map[float64]bool)
	var sizes []float64
	for _, c := range cands {
		q := quantizeSize(c.FontSize)
		if !seen[q] {
			seen[q] = true
			sizes = append(sizes, q)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	ranks := make(map[float64]int, len(sizes))
	for i, s := range sizes {
		ranks[s] = i
	}
	return ranks
}

// quantizeSize merges float noise between runs of the same nominal size.
func quantizeSize(s float64) float64 {
	return math.Round(s*4) / 4
}
