// Package relevance ranks content sections against a reader persona and task.
// Each section gets four sub-scores (semantic, keyword, quality, position),
// a weighted composite, and a human-readable reasoning string.
package relevance

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/mgrims/doclens/internal/embed"
	"github.com/mgrims/doclens/internal/keywords"
	"github.com/mgrims/doclens/internal/outline"
	"github.com/mgrims/doclens/internal/sections"
)

// Profile describes the reader the sections are ranked for.
type Profile struct {
	Persona        string `json:"persona"`
	JobDescription string `json:"job_description"`
}

// Query is the text embedded as the semantic anchor for a profile.
func (p Profile) Query() string {
	return p.Persona + ". " + p.JobDescription
}

// Embedder produces embedding vectors. A zero vector signals that embedding
// was unavailable for that text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ScoredSection is a section plus its relevance breakdown.
type ScoredSection struct {
	sections.Section
	Document           string  `json:"document"`
	RelevanceScore     float64 `json:"relevance_score"`
	SemanticSimilarity float64 `json:"semantic_similarity"`
	KeywordRelevance   float64 `json:"keyword_relevance"`
	ContentQuality     float64 `json:"content_quality"`
	PositionImportance float64 `json:"position_importance"`
	Reasoning          string  `json:"reasoning"`
}

// Tier buckets a final score.
func Tier(score float64) string {
	switch {
	case score >= 0.7:
		return "high"
	case score >= 0.4:
		return "medium"
	default:
		return "low"
	}
}

// Weights of the composite score. Fixed, non-negative: raising any sub-score
// never lowers the final score.
const (
	weightSemantic = 0.4
	weightKeyword  = 0.3
	weightQuality  = 0.2
	weightPosition = 0.1
)

// Scorer ranks sections for one profile. Safe for concurrent use once built:
// all state is read-only after New.
type Scorer struct {
	tables   *keywords.Tables
	embedder Embedder
	log      *slog.Logger

	profile     Profile
	archetype   string
	personaKWs  []string
	domainKWs   []string
	queryVector []float32
}

// NewScorer prepares a scorer for profile, embedding the profile query once.
// A nil embedder or failed query embedding degrades semantic similarity to
// the 0.5 neutral value for every section.
func NewScorer(ctx context.Context, tables *keywords.Tables, embedder Embedder, profile Profile, log *slog.Logger) *Scorer {
	if log == nil {
		log = slog.Default()
	}
	s := &Scorer{
		tables:     tables,
		embedder:   embedder,
		log:        log,
		profile:    profile,
		archetype:  tables.ClassifyPersona(profile.Persona),
		personaKWs: extractKeywords(profile.Query(), tables),
	}
	s.domainKWs = tables.DomainKeywords(s.archetype)
	if embedder != nil {
		vec, err := embedder.Embed(ctx, profile.Query())
		if err != nil {
			log.Warn("profile embedding unavailable, semantic scoring degraded", "error", err)
		} else {
			s.queryVector = vec
		}
	}
	return s
}

// Archetype returns the persona archetype the scorer resolved.
func (s *Scorer) Archetype() string { return s.archetype }

// Score computes the relevance breakdown for one section.
func (s *Scorer) Score(ctx context.Context, document string, sec sections.Section) ScoredSection {
	semantic := s.semanticScore(ctx, sec.Content)
	keyword := s.keywordScore(sec)
	quality := contentQuality(sec.Content)
	position := positionImportance(sec.Page, sec.Level)

	final := weightSemantic*semantic + weightKeyword*keyword +
		weightQuality*quality + weightPosition*position

	return ScoredSection{
		Section:            sec,
		Document:           document,
		RelevanceScore:     round3(final),
		SemanticSimilarity: round3(semantic),
		KeywordRelevance:   round3(keyword),
		ContentQuality:     round3(quality),
		PositionImportance: round3(position),
		Reasoning:          reasoning(semantic, keyword, quality, position),
	}
}

// semanticScore is the cosine similarity between the profile query and the
// section content. Either embedding missing means neutral 0.5.
func (s *Scorer) semanticScore(ctx context.Context, content string) float64 {
	if s.embedder == nil || len(s.queryVector) == 0 || embed.IsZero(s.queryVector) {
		return 0.5
	}
	vec, err := s.embedder.Embed(ctx, content)
	if err != nil || len(vec) == 0 || embed.IsZero(vec) {
		if err != nil {
			s.log.Warn("section embedding unavailable, using neutral similarity", "error", err)
		}
		return 0.5
	}
	sim := embed.Cosine(s.queryVector, vec)
	return clamp01((sim + 1) / 2)
}

// keywordScore blends persona/job keyword overlap with archetype domain
// keyword overlap, 0.6/0.4.
func (s *Scorer) keywordScore(sec sections.Section) float64 {
	text := strings.ToLower(sec.Title + " " + sec.Content)

	persona := overlap(text, s.personaKWs)
	domain := overlap(text, s.domainKWs)
	return clamp01(0.6*persona + 0.4*domain)
}

func overlap(lowerText string, kws []string) float64 {
	if len(kws) == 0 {
		return 0
	}
	matched := 0
	for _, kw := range kws {
		if strings.Contains(lowerText, kw) {
			matched++
		}
	}
	return float64(matched) / float64(len(kws))
}

var (
	numericRe   = regexp.MustCompile(`\d+(?:[.,]\d+)?\s*%?`)
	acronymRe   = regexp.MustCompile(`\b[A-Z]{2,6}\b`)
	wordSplitRe = regexp.MustCompile(`[a-zA-Z]{4,}`)
)

// contentQuality bands the section on length, structure and information
// density; additive, capped at 1.
func contentQuality(content string) float64 {
	score := 0.0
	n := len(content)
	switch {
	case n >= 100 && n <= 2000:
		score += 0.3
	case (n >= 50 && n < 100) || (n > 2000 && n <= 3000):
		score += 0.2
	default:
		score += 0.1
	}

	if sentenceCount(content) >= 3 {
		score += 0.2
	}
	if numericRe.MatchString(content) {
		score += 0.2
	}
	if acronymRe.MatchString(content) {
		score += 0.1
	}
	if strings.Count(content, "\n\n") >= 1 {
		score += 0.2
	}
	return clamp01(score)
}

func sentenceCount(content string) int {
	n := 0
	for _, part := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if len(strings.TrimSpace(part)) > 2 {
			n++
		}
	}
	return n
}

// positionImportance blends page recency decay with heading-level weight.
func positionImportance(page int, level outline.Level) float64 {
	decay := 1.0 - float64(page-1)*0.1
	if decay < 0 {
		decay = 0
	}
	var levelWeight float64
	switch level {
	case outline.H1:
		levelWeight = 1.0
	case outline.H2:
		levelWeight = 0.8
	case outline.H3:
		levelWeight = 0.6
	default:
		levelWeight = 0.5
	}
	return clamp01(0.6*decay + 0.4*levelWeight)
}

func reasoning(semantic, keyword, quality, position float64) string {
	parts := []string{
		band(semantic, "semantic similarity to the persona's task"),
		band(keyword, "keyword relevance"),
		band(quality, "content quality"),
		band(position, "positional importance"),
	}
	return strings.Join(parts, "; ")
}

func band(score float64, what string) string {
	switch {
	case score >= 0.7:
		return fmt.Sprintf("High %s (%.2f)", what, score)
	case score >= 0.4:
		return fmt.Sprintf("Moderate %s (%.2f)", what, score)
	default:
		return fmt.Sprintf("Low %s (%.2f)", what, score)
	}
}

// extractKeywords pulls the significant words (≥4 letters, not stop words)
// out of free text, lowercased and deduplicated in first-seen order.
func extractKeywords(text string, tables *keywords.Tables) []string {
	seen := make(map[string]bool)
	var out []string
	for _, w := range wordSplitRe.FindAllString(strings.ToLower(text), -1) {
		if tables.StopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}
