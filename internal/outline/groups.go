package outline

import (
	"strings"
	"unicode"

	"github.com/mgrims/doclens/internal/classify"
	"github.com/mgrims/doclens/internal/layout"
)

// groupMaxGap is the vertical distance (in page units) within which adjacent
// candidate lines on a page are considered one visual block.
const groupMaxGap = 15.0

// ExcludeNoisyGroups drops candidates that sit in a tight vertical block
// together with noise lines. A heading-shaped line inside an address or
// contact block inherits the block's verdict: flyers and letters stack such
// lines close together, genuine headings stand apart from their surroundings.
func ExcludeNoisyGroups(cands []layout.LineRecord, noise *classify.Noise) []layout.LineRecord {
	if len(cands) < 2 {
		return cands
	}

	keep := cands[:0]
	i := 0
	for i < len(cands) {
		j := i + 1
		for j < len(cands) &&
			cands[j].Page == cands[j-1].Page &&
			cands[j].YCenter-cands[j-1].YCenter <= groupMaxGap {
			j++
		}
		group := cands[i:j]
		if !groupIsNoisy(group, noise) {
			keep = append(keep, group...)
		}
		i = j
	}
	return keep
}

func groupIsNoisy(group []layout.LineRecord, noise *classify.Noise) bool {
	if len(group) < 2 {
		return false
	}
	shouted := 0
	for _, l := range group {
		if noise.IsNoise(l.Text) {
			return true
		}
		if allCapsLine(l.Text) {
			shouted++
		}
	}
	return shouted*2 > len(group)
}

func allCapsLine(s string) bool {
	s = strings.TrimSpace(s)
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
