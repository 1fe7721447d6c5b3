package relevance

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/outline"
	"github.com/mgrims/doclens/internal/sections"
)

// stubEmbedder returns canned vectors keyed by substring.
type stubEmbedder struct {
	vectors map[string][]float32
	fail    bool
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.fail {
		return nil, fmt.Errorf("provider down")
	}
	for key, vec := range s.vectors {
		if strings.Contains(text, key) {
			return vec, nil
		}
	}
	return []float32{0, 0, 1}, nil
}

func testProfile() Profile {
	return Profile{
		Persona:        "PhD Researcher in machine learning",
		JobDescription: "survey recent methods and summarize experimental results",
	}
}

func testSection(content string, page int, level outline.Level) sections.Section {
	return sections.Section{
		Title:     "Methods",
		Content:   content,
		Page:      page,
		Level:     level,
		WordCount: len(strings.Fields(content)),
	}
}

func TestScorer_ArchetypeAndKeywords(t *testing.T) {
	s := NewScorer(context.Background(), keywords.Default(), nil, testProfile(), nil)

	if s.Archetype() != "researcher" {
		t.Errorf("archetype = %q, want researcher", s.Archetype())
	}
	if len(s.personaKWs) == 0 {
		t.Fatal("expected persona keywords extracted")
	}
	for _, kw := range s.personaKWs {
		if len(kw) < 4 {
			t.Errorf("keyword %q shorter than 4 characters", kw)
		}
		if kw != strings.ToLower(kw) {
			t.Errorf("keyword %q not lowercased", kw)
		}
	}
}

func TestScorer_NoEmbedderNeutralSemantic(t *testing.T) {
	s := NewScorer(context.Background(), keywords.Default(), nil, testProfile(), nil)

	got := s.Score(context.Background(), "doc.pdf", testSection("Some ordinary content without matches.", 1, outline.H1))
	if got.SemanticSimilarity != 0.5 {
		t.Errorf("semantic = %v, want neutral 0.5 without embedder", got.SemanticSimilarity)
	}
}

func TestScorer_FailedEmbeddingDegrades(t *testing.T) {
	s := NewScorer(context.Background(), keywords.Default(), &stubEmbedder{fail: true}, testProfile(), nil)

	got := s.Score(context.Background(), "doc.pdf", testSection("Any content at all.", 1, outline.H1))
	if got.SemanticSimilarity != 0.5 {
		t.Errorf("semantic = %v, want neutral 0.5 when provider fails", got.SemanticSimilarity)
	}
}

func TestScorer_SemanticMonotonicity(t *testing.T) {
	// Same section text, two embedders differing only in how similar the
	// section vector is to the profile vector.
	near := &stubEmbedder{vectors: map[string][]float32{
		"Researcher":  {1, 0, 0}, // profile query
		"methodology": {0.9, 0.1, 0},
	}}
	far := &stubEmbedder{vectors: map[string][]float32{
		"Researcher":  {1, 0, 0},
		"methodology": {0, 1, 0},
	}}

	sec := testSection("The methodology section describes data collection.", 1, outline.H1)

	sNear := NewScorer(context.Background(), keywords.Default(), near, testProfile(), nil)
	sFar := NewScorer(context.Background(), keywords.Default(), far, testProfile(), nil)

	gotNear := sNear.Score(context.Background(), "a.pdf", sec)
	gotFar := sFar.Score(context.Background(), "a.pdf", sec)

	if gotNear.SemanticSimilarity <= gotFar.SemanticSimilarity {
		t.Fatalf("expected near similarity %v > far %v",
			gotNear.SemanticSimilarity, gotFar.SemanticSimilarity)
	}
	if gotNear.RelevanceScore < gotFar.RelevanceScore {
		t.Errorf("raising semantic similarity lowered the final score: %v < %v",
			gotNear.RelevanceScore, gotFar.RelevanceScore)
	}
}

func TestContentQuality_Bands(t *testing.T) {
	short := contentQuality("tiny")
	optimal := contentQuality(strings.Repeat("A clear sentence with facts. ", 10)) // ~290 chars, 10 sentences
	if optimal <= short {
		t.Errorf("optimal-length content scored %v, short %v", optimal, short)
	}

	withNumbers := contentQuality("Throughput improved 42% across 3 trials. Latency dropped. Costs fell.")
	plain := contentQuality("Throughput improved across trials somewhat. Latency dropped. Costs fell.")
	if withNumbers <= plain {
		t.Errorf("numeric content scored %v, plain %v", withNumbers, plain)
	}

	if q := contentQuality(strings.Repeat("word. ", 1000)); q > 1 {
		t.Errorf("quality %v exceeds cap", q)
	}
}

func TestPositionImportance(t *testing.T) {
	if p1, p5 := positionImportance(1, outline.H1), positionImportance(5, outline.H1); p1 <= p5 {
		t.Errorf("earlier page scored %v, later %v", p1, p5)
	}
	if h1, h3 := positionImportance(1, outline.H1), positionImportance(1, outline.H3); h1 <= h3 {
		t.Errorf("H1 scored %v, H3 %v", h1, h3)
	}
	// Decay floors at zero instead of going negative.
	if p := positionImportance(50, outline.H1); p < 0.4-1e-9 {
		t.Errorf("far page importance %v below level-weight floor", p)
	}
}

func TestTier(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.85, "high"},
		{0.7, "high"},
		{0.55, "medium"},
		{0.4, "medium"},
		{0.39, "low"},
		{0, "low"},
	}
	for _, tt := range tests {
		if got := Tier(tt.score); got != tt.want {
			t.Errorf("Tier(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestScorer_ReasoningMentionsBands(t *testing.T) {
	s := NewScorer(context.Background(), keywords.Default(), nil, testProfile(), nil)
	got := s.Score(context.Background(), "doc.pdf", testSection("Research methods and analysis of data results.", 1, outline.H1))

	if got.Reasoning == "" {
		t.Fatal("expected reasoning string")
	}
	for _, want := range []string{"semantic similarity", "keyword relevance", "content quality", "positional importance"} {
		if !strings.Contains(got.Reasoning, want) {
			t.Errorf("reasoning missing %q: %s", want, got.Reasoning)
		}
	}
}
