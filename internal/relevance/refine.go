package relevance

import (
	"sort"
	"strings"
)

// Subsection is a paragraph-level refinement of a scored section.
type Subsection struct {
	Document    string  `json:"document"`
	Page        int     `json:"page"`
	RefinedText string  `json:"refined_text"`
	Relevance   float64 `json:"relevance"`
}

// methodologyTerms flag paragraphs that describe how something was done,
// which persona tasks tend to care about regardless of domain.
var methodologyTerms = []string{
	"method", "approach", "technique", "procedure", "analysis",
	"result", "finding", "conclusion", "recommend", "step",
}

// RefineSubsections splits a section's content into paragraphs and keeps the
// ones carrying relevance indicators for the profile: persona or job keyword
// hits, numeric data, or methodology language.
func (s *Scorer) RefineSubsections(sec ScoredSection) []Subsection {
	paras := splitParagraphs(sec.Content)
	var out []Subsection
	for _, p := range paras {
		score := s.paragraphRelevance(p)
		if score <= 0 {
			continue
		}
		out = append(out, Subsection{
			Document:    sec.Document,
			Page:        sec.Page,
			RefinedText: truncateText(p, 500),
			Relevance:   round3(score),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	return out
}

func (s *Scorer) paragraphRelevance(p string) float64 {
	lower := strings.ToLower(p)
	score := 0.0

	hits := 0
	for _, kw := range s.personaKWs {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	if hits > 0 {
		score += 0.4 + 0.1*float64(min(hits, 3))
	}
	for _, kw := range s.domainKWs {
		if strings.Contains(lower, kw) {
			score += 0.2
			break
		}
	}
	if numericRe.MatchString(p) {
		score += 0.1
	}
	for _, term := range methodologyTerms {
		if strings.Contains(lower, term) {
			score += 0.1
			break
		}
	}
	return clamp01(score)
}

// splitParagraphs breaks content on blank lines, falling back to sentence
// grouping when the source had no paragraph structure.
func splitParagraphs(content string) []string {
	var paras []string
	for _, p := range strings.Split(content, "\n\n") {
		p = strings.TrimSpace(p)
		if len(p) >= 40 {
			paras = append(paras, p)
		}
	}
	if len(paras) > 1 {
		return paras
	}

	// Single block: group sentences into chunks of roughly paragraph size.
	sents := strings.SplitAfter(content, ". ")
	var cur strings.Builder
	paras = paras[:0]
	for _, s := range sents {
		cur.WriteString(s)
		if cur.Len() >= 200 {
			paras = append(paras, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
	}
	if t := strings.TrimSpace(cur.String()); len(t) >= 40 {
		paras = append(paras, t)
	}
	return paras
}

func truncateText(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
