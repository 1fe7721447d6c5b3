package outline

import (
	"log/slog"

	"github.com/mgrims/doclens/internal/classify"
	"github.com/mgrims/doclens/internal/cleantext"
	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/layout"
)

// Strategy names a level-assignment implementation.
type Strategy string

const (
	StrategyScoring Strategy = "scoring"
	StrategyCluster Strategy = "cluster"
)

// BuilderConfig collects every tunable of outline construction. The zero
// value means "all defaults, scoring strategy".
type BuilderConfig struct {
	Strategy Strategy
	Filter   classify.FilterParams
	Scoring  ScoringParams
	Title    TitleParams

	// MinBodyFontSize floors the body-size average so footnote runs do not
	// drag it down.
	MinBodyFontSize float64
}

// DefaultBuilderConfig returns the calibrated defaults.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Strategy:        StrategyScoring,
		Filter:          classify.DefaultFilterParams(),
		Scoring:         DefaultScoringParams(),
		Title:           DefaultTitleParams(),
		MinBodyFontSize: 4.0,
	}
}

// Builder runs the full outline pipeline over a scanned document: candidate
// filtering, grouped-noise exclusion, level assignment, title selection,
// hierarchy repair, deduplication, and clean-text cross-validation.
type Builder struct {
	cfg    BuilderConfig
	tables *keywords.Tables
	filter *classify.CandidateFilter
	titles *TitleSelector
	log    *slog.Logger
}

func NewBuilder(tables *keywords.Tables, cfg BuilderConfig, log *slog.Logger) *Builder {
	if cfg.Strategy == "" {
		cfg = DefaultBuilderConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		cfg:    cfg,
		tables: tables,
		filter: classify.NewCandidateFilter(tables, cfg.Filter),
		titles: NewTitleSelector(tables, cfg.Title),
		log:    log,
	}
}

// Build produces the outline for doc. sig is the clean body text signal; a
// nil sig skips cross-validation. Item pages in the result are 1-based.
func (b *Builder) Build(doc *layout.Document, sig cleantext.Signal) Outline {
	if doc == nil || len(doc.Pages) == 0 {
		return Empty()
	}

	avg := doc.AvgBodyFontSize(b.cfg.MinBodyFontSize)
	cands := b.collectCandidates(doc, avg)
	cands = ExcludeNoisyGroups(cands, b.filter.Noise())

	items := b.assigner().Assign(cands)

	title := b.titles.Select(doc, items)

	items = ValidateHierarchy(items)
	items = Deduplicate(items)
	if sig != nil {
		// Cross-validation can remove intermediate headings, so the
		// hierarchy must be repaired again on whatever survives.
		items = b.crossValidate(items, sig)
		items = ValidateHierarchy(items)
		items = Deduplicate(items)
	}
	title = b.validateTitle(title, sig)

	// The veto runs last so that a vetoed form keeps its title but loses the
	// formatting-derived outline entirely.
	if TitleVetoed(title, b.tables) {
		b.log.Debug("outline vetoed by title", "title", title)
		items = nil
	}

	out := Outline{Title: title, Items: make([]Item, 0, len(items))}
	for _, it := range items {
		it.Page++ // external contract is 1-based
		out.Items = append(out.Items, it)
	}
	return out
}

func (b *Builder) assigner() LevelAssigner {
	if b.cfg.Strategy == StrategyCluster {
		return &ClusterAssigner{}
	}
	return &ScoringAssigner{Params: b.cfg.Scoring}
}

// collectCandidates walks lines in page order, handing each filter call the
// texts of the surrounding lines as context.
func (b *Builder) collectCandidates(doc *layout.Document, avg float64) []layout.LineRecord {
	var cands []layout.LineRecord
	for _, page := range doc.Pages {
		for i, line := range page.Lines {
			ctx := classify.Context{}
			if i > 0 {
				ctx.Prev = []string{page.Lines[i-1].Text}
			}
			if i+1 < len(page.Lines) {
				ctx.Next = []string{page.Lines[i+1].Text}
			}
			if b.filter.IsCandidate(line.Text, line.FontSize, avg, line.BoldRatio, ctx) {
				cands = append(cands, line)
			}
		}
	}
	return cands
}

// crossValidate keeps only items whose normalized text occurs in the clean
// body signal. Lines that exist solely inside table or form boxes are
// formatting artifacts, not structure.
func (b *Builder) crossValidate(items []Item, sig cleantext.Signal) []Item {
	if sig == nil {
		return items
	}
	kept := items[:0]
	for _, it := range items {
		if sig.Contains(cleantext.Normalize(it.Text)) {
			kept = append(kept, it)
		} else {
			b.log.Debug("outline item outside clean text", "text", it.Text, "page", it.Page)
		}
	}
	return kept
}

func (b *Builder) validateTitle(title string, sig cleantext.Signal) string {
	if sig == nil || title == "" {
		return title
	}
	if !sig.Contains(cleantext.Normalize(title)) {
		return ""
	}
	return title
}
