package outline

import (
	"sort"
	"strings"

	"github.com/mgrims/doclens/internal/classify"
	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/layout"
)

// TitleParams are the tunable thresholds of title selection.
type TitleParams struct {
	BandFrac           float64 // top page fraction scanned first
	RelaxedBandFrac    float64 // wider band used when the first scan is empty
	MinFontSize        float64
	RelaxedMinFontSize float64
	MinWords           int
}

// DefaultTitleParams returns the calibrated defaults.
func DefaultTitleParams() TitleParams {
	return TitleParams{
		BandFrac:           0.15,
		RelaxedBandFrac:    0.25,
		MinFontSize:        14,
		RelaxedMinFontSize: 12,
		MinWords:           2,
	}
}

// TitleSelector picks the document title from early, prominent, non-noise
// lines on the first page.
type TitleSelector struct {
	noise  *classify.Noise
	params TitleParams
}

func NewTitleSelector(tables *keywords.Tables, params TitleParams) *TitleSelector {
	return &TitleSelector{noise: classify.NewNoise(tables), params: params}
}

// Select returns the document title, or "" when nothing qualifies.
// Preference order: top-band scan of page 0, first-page outline H1,
// metadata title, first substantial early text block.
func (t *TitleSelector) Select(doc *layout.Document, items []Item) string {
	if doc == nil {
		return ""
	}
	if len(doc.Pages) == 0 {
		return strings.TrimSpace(doc.MetaTitle)
	}
	first := doc.Pages[0]

	if best := t.bandCandidate(first, t.params.BandFrac, t.params.MinFontSize); best != "" {
		return best
	}
	if best := t.bandCandidate(first, t.params.RelaxedBandFrac, t.params.RelaxedMinFontSize); best != "" {
		return best
	}

	for _, it := range items {
		if it.Level == H1 && it.Page == 0 && !t.noise.IsNoise(it.Text) {
			return it.Text
		}
	}

	if meta := strings.TrimSpace(doc.MetaTitle); meta != "" {
		return meta
	}

	return firstSubstantialLine(first)
}

func (t *TitleSelector) bandCandidate(page layout.Page, bandFrac, minSize float64) string {
	var cands []layout.LineRecord
	limit := page.Height * bandFrac
	for _, l := range page.Lines {
		if l.YCenter >= limit || l.FontSize <= minSize {
			continue
		}
		if l.WordCount() < t.params.MinWords {
			continue
		}
		if t.noise.IsNoise(l.Text) {
			continue
		}
		cands = append(cands, l)
	}
	if len(cands) == 0 {
		return ""
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].FontSize != cands[j].FontSize {
			return cands[i].FontSize > cands[j].FontSize
		}
		if cands[i].BoldRatio != cands[j].BoldRatio {
			return cands[i].BoldRatio > cands[j].BoldRatio
		}
		return cands[i].YCenter < cands[j].YCenter
	})
	return cands[0].Text
}

func firstSubstantialLine(page layout.Page) string {
	for _, l := range page.Lines {
		text := strings.TrimSpace(l.Text)
		if len(text) < 10 {
			continue
		}
		lower := strings.ToLower(text)
		if strings.HasPrefix(lower, "page") ||
			strings.HasPrefix(lower, "www.") ||
			strings.HasPrefix(lower, "http") {
			continue
		}
		return text
	}
	return ""
}

// TitleVetoed reports whether the title marks a fillable form or similar
// document whose formatting-derived outline must be discarded.
func TitleVetoed(title string, tables *keywords.Tables) bool {
	if title == "" {
		return false
	}
	lower := strings.ToLower(title)
	for _, w := range tables.DisallowedTitleWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
