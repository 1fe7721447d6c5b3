package relevance

import (
	"context"
	"strings"
	"testing"

	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/outline"
	"github.com/mgrims/doclens/internal/sections"
)

func analysisFixture() []DocumentSections {
	methods := "The research methodology covers data collection and analysis across 12 experiments. " +
		"Results show a 40% improvement in accuracy. The study concludes with recommendations."
	budget := "Quarterly budget figures and office supply inventory listings for the facilities team."
	return []DocumentSections{
		{
			Document: "paper.pdf",
			Sections: []sections.Section{
				{Title: "Methodology", Content: methods, Page: 1, Level: outline.H1, WordCount: 25},
				{Title: "Appendix C", Content: budget, Page: 9, Level: outline.H3, WordCount: 13},
			},
		},
		{
			Document: "notes.pdf",
			Sections: []sections.Section{
				{Title: "Research Summary", Content: "Analysis of the research data and methodology notes.", Page: 1, Level: outline.H1, WordCount: 9},
			},
		},
	}
}

func TestAnalyzer_RanksAndCounts(t *testing.T) {
	a := NewAnalyzer(keywords.Default(), nil, nil)

	res := a.Analyze(context.Background(), testProfile(), analysisFixture())

	if res.DocumentsProcessed != 2 {
		t.Errorf("documents_processed = %d, want 2", res.DocumentsProcessed)
	}
	if len(res.TopRelevantSections) != 3 {
		t.Fatalf("expected 3 ranked sections, got %d", len(res.TopRelevantSections))
	}
	// Descending by score.
	for i := 1; i < len(res.TopRelevantSections); i++ {
		if res.TopRelevantSections[i].RelevanceScore > res.TopRelevantSections[i-1].RelevanceScore {
			t.Errorf("ranking not descending at %d", i)
		}
	}
	// The methodology section outranks the budget appendix for a researcher.
	if res.TopRelevantSections[0].SectionTitle == "Appendix C" {
		t.Error("irrelevant appendix ranked first")
	}
	for _, rs := range res.TopRelevantSections {
		if rs.RelevanceTier != Tier(rs.RelevanceScore) {
			t.Errorf("tier %q inconsistent with score %v", rs.RelevanceTier, rs.RelevanceScore)
		}
		if rs.Reasoning == "" {
			t.Errorf("section %q missing reasoning", rs.SectionTitle)
		}
	}

	high, medium := 0, 0
	for _, rs := range res.TopRelevantSections {
		switch rs.RelevanceTier {
		case "high":
			high++
		case "medium":
			medium++
		}
	}
	if res.HighRelevanceCount != high || res.MediumRelevanceCount != medium {
		t.Errorf("tier counts %d/%d disagree with ranked sections %d/%d",
			res.HighRelevanceCount, res.MediumRelevanceCount, high, medium)
	}
}

func TestAnalyzer_PreviewTruncated(t *testing.T) {
	a := NewAnalyzer(keywords.Default(), nil, nil)

	long := strings.Repeat("research methodology analysis data ", 30)
	docs := []DocumentSections{{
		Document: "long.pdf",
		Sections: []sections.Section{
			{Title: "Body", Content: long, Page: 1, Level: outline.H1},
		},
	}}

	res := a.Analyze(context.Background(), testProfile(), docs)
	if len(res.TopRelevantSections) != 1 {
		t.Fatal("expected one section")
	}
	preview := res.TopRelevantSections[0].ContentPreview
	if len(preview) > previewLength+3 {
		t.Errorf("preview length %d exceeds limit", len(preview))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("long preview not marked truncated: %q", preview)
	}
}

func TestAnalyzer_InsightsThemesCrossDocuments(t *testing.T) {
	a := NewAnalyzer(keywords.Default(), nil, nil)

	res := a.Analyze(context.Background(), testProfile(), analysisFixture())

	if len(res.Insights.KeyThemes) == 0 {
		t.Fatal("expected key themes")
	}
	for _, theme := range res.Insights.KeyThemes {
		if theme != strings.ToLower(theme) {
			t.Errorf("theme %q not lowercased", theme)
		}
	}
	if len(res.Insights.PersonaFindings) == 0 {
		t.Error("expected persona findings")
	}
}

func TestAnalyzer_RefinedSubsections(t *testing.T) {
	a := NewAnalyzer(keywords.Default(), nil, nil)

	res := a.Analyze(context.Background(), testProfile(), analysisFixture())

	if len(res.RefinedSubsections) > refinedLimit {
		t.Errorf("refined subsections %d exceed limit %d", len(res.RefinedSubsections), refinedLimit)
	}
	for i := 1; i < len(res.RefinedSubsections); i++ {
		if res.RefinedSubsections[i].Relevance > res.RefinedSubsections[i-1].Relevance {
			t.Errorf("refined subsections not descending at %d", i)
		}
	}
}

func TestAnalyzer_EmptyInput(t *testing.T) {
	a := NewAnalyzer(keywords.Default(), nil, nil)

	res := a.Analyze(context.Background(), testProfile(), nil)
	if res.DocumentsProcessed != 0 || len(res.TopRelevantSections) != 0 {
		t.Errorf("unexpected result for empty input: %+v", res)
	}
	if res.HighRelevanceCount != 0 || res.MediumRelevanceCount != 0 {
		t.Error("tier counts non-zero for empty input")
	}
}
