package relevance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/sections"
)

const (
	topSectionLimit   = 20
	refineSourceLimit = 10
	refinedLimit      = 15
	previewLength     = 300
	themeLimit        = 5
)

// DocumentSections pairs a document name with its extracted sections.
type DocumentSections struct {
	Document string
	Sections []sections.Section
}

// RankedSection is one entry of the analysis output, a scored section with a
// content preview instead of the full body.
type RankedSection struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	Page           int     `json:"page"`
	RelevanceScore float64 `json:"relevance_score"`
	RelevanceTier  string  `json:"relevance_tier"`
	Reasoning      string  `json:"reasoning"`
	ContentPreview string  `json:"content_preview"`
}

// Insights summarizes the scored corpus for the persona.
type Insights struct {
	KeyThemes       []string `json:"key_themes"`
	CrossDocument   []string `json:"cross_document_connections"`
	PersonaFindings []string `json:"persona_specific_findings"`
}

// AnalysisResult is the full analysis output contract.
type AnalysisResult struct {
	Persona              string          `json:"persona"`
	JobDescription       string          `json:"job_description"`
	DocumentsProcessed   int             `json:"documents_processed"`
	Insights             Insights        `json:"insights"`
	TopRelevantSections  []RankedSection `json:"top_relevant_sections"`
	HighRelevanceCount   int             `json:"high_relevance_count"`
	MediumRelevanceCount int             `json:"medium_relevance_count"`
	RefinedSubsections   []Subsection    `json:"refined_subsections"`
}

// Analyzer scores sections across documents and assembles the ranked result.
type Analyzer struct {
	tables   *keywords.Tables
	embedder Embedder
	log      *slog.Logger
}

func NewAnalyzer(tables *keywords.Tables, embedder Embedder, log *slog.Logger) *Analyzer {
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{tables: tables, embedder: embedder, log: log}
}

// Analyze scores every section of every document against the profile and
// merges them into one ranked result. Section order within equal scores is
// stable, so the output is deterministic for a fixed input.
func (a *Analyzer) Analyze(ctx context.Context, profile Profile, docs []DocumentSections) AnalysisResult {
	scorer := NewScorer(ctx, a.tables, a.embedder, profile, a.log)

	var scored []ScoredSection
	for _, doc := range docs {
		for _, sec := range doc.Sections {
			scored = append(scored, scorer.Score(ctx, doc.Document, sec))
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})

	high, medium := 0, 0
	for _, s := range scored {
		switch Tier(s.RelevanceScore) {
		case "high":
			high++
		case "medium":
			medium++
		}
	}

	top := scored
	if len(top) > topSectionLimit {
		top = top[:topSectionLimit]
	}
	ranked := make([]RankedSection, 0, len(top))
	for _, s := range top {
		ranked = append(ranked, RankedSection{
			Document:       s.Document,
			SectionTitle:   s.Title,
			Page:           s.Page,
			RelevanceScore: s.RelevanceScore,
			RelevanceTier:  Tier(s.RelevanceScore),
			Reasoning:      s.Reasoning,
			ContentPreview: truncateText(s.Content, previewLength),
		})
	}

	refined := a.refine(scorer, scored)

	return AnalysisResult{
		Persona:              profile.Persona,
		JobDescription:       profile.JobDescription,
		DocumentsProcessed:   len(docs),
		Insights:             a.insights(scorer, scored),
		TopRelevantSections:  ranked,
		HighRelevanceCount:   high,
		MediumRelevanceCount: medium,
		RefinedSubsections:   refined,
	}
}

// refine drills into the best sections for paragraph-level detail.
func (a *Analyzer) refine(scorer *Scorer, scored []ScoredSection) []Subsection {
	src := scored
	if len(src) > refineSourceLimit {
		src = src[:refineSourceLimit]
	}
	var refined []Subsection
	for _, s := range src {
		refined = append(refined, scorer.RefineSubsections(s)...)
	}
	sort.SliceStable(refined, func(i, j int) bool { return refined[i].Relevance > refined[j].Relevance })
	if len(refined) > refinedLimit {
		refined = refined[:refinedLimit]
	}
	return refined
}

// insights derives themes, cross-document connections and persona findings
// from the scored sections.
func (a *Analyzer) insights(scorer *Scorer, scored []ScoredSection) Insights {
	ins := Insights{}

	// Key themes: most frequent significant words across relevant content.
	freq := make(map[string]int)
	docsPerWord := make(map[string]map[string]bool)
	for _, s := range scored {
		if Tier(s.RelevanceScore) == "low" {
			continue
		}
		for _, w := range wordSplitRe.FindAllString(strings.ToLower(s.Content), -1) {
			if a.tables.StopWords[w] {
				continue
			}
			freq[w]++
			if docsPerWord[w] == nil {
				docsPerWord[w] = make(map[string]bool)
			}
			docsPerWord[w][s.Document] = true
		}
	}
	type wordCount struct {
		word  string
		count int
	}
	var counts []wordCount
	for w, c := range freq {
		if c >= 2 {
			counts = append(counts, wordCount{word: w, count: c})
		}
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].word < counts[j].word
	})
	for i := 0; i < len(counts) && i < themeLimit; i++ {
		ins.KeyThemes = append(ins.KeyThemes, counts[i].word)
	}

	// Cross-document connections: themes spanning more than one document.
	for _, theme := range ins.KeyThemes {
		if n := len(docsPerWord[theme]); n > 1 {
			ins.CrossDocument = append(ins.CrossDocument,
				fmt.Sprintf("%q appears across %d documents", theme, n))
		}
	}

	// Persona findings: where the strongest material sits for this archetype.
	if len(scored) > 0 {
		best := scored[0]
		ins.PersonaFindings = append(ins.PersonaFindings,
			fmt.Sprintf("Most relevant for a %s: %q (%s, page %d)",
				scorer.Archetype(), best.Title, best.Document, best.Page))
		highDocs := make(map[string]bool)
		for _, s := range scored {
			if Tier(s.RelevanceScore) == "high" {
				highDocs[s.Document] = true
			}
		}
		if len(highDocs) > 0 {
			ins.PersonaFindings = append(ins.PersonaFindings,
				fmt.Sprintf("%d document(s) contain highly relevant sections", len(highDocs)))
		}
	}
	return ins
}
