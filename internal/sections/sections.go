// Package sections slices a document into titled content sections following
// its outline, so each heading carries the prose that belongs to it.
package sections

import (
	"strings"

	"github.com/mgrims/doclens/internal/layout"
	"github.com/mgrims/doclens/internal/outline"
)

// Section is one titled slice of document content. Page is 1-based, matching
// the outline contract.
type Section struct {
	Title     string        `json:"section_title"`
	Content   string        `json:"content"`
	Page      int           `json:"page"`
	Level     outline.Level `json:"level"`
	WordCount int           `json:"word_count"`
}

const (
	// minContentLen is the shortest useful section body; shorter bodies pull
	// text from the following page before giving up.
	minContentLen = 50
	// maxContentLen bounds a section body so one runaway heading does not
	// swallow the document.
	maxContentLen = 2000
)

// Extract returns the content sections of doc keyed by its outline items.
// When the outline has no items it falls back to one section per page.
func Extract(doc *layout.Document, out outline.Outline) []Section {
	if doc == nil || len(doc.Pages) == 0 {
		return nil
	}
	if len(out.Items) == 0 {
		return perPageSections(doc, out.Title)
	}

	secs := make([]Section, 0, len(out.Items))
	for _, it := range out.Items {
		content := contentAfterHeading(doc, it)
		if content == "" {
			continue
		}
		secs = append(secs, Section{
			Title:     it.Text,
			Content:   content,
			Page:      it.Page,
			Level:     it.Level,
			WordCount: len(strings.Fields(content)),
		})
	}
	if len(secs) == 0 {
		return perPageSections(doc, out.Title)
	}
	return secs
}

// contentAfterHeading collects the lines following it.Text on its page, up to
// the next heading-shaped line, spilling onto the next page when too short.
func contentAfterHeading(doc *layout.Document, it outline.Item) string {
	pageIdx := it.Page - 1
	if pageIdx < 0 || pageIdx >= len(doc.Pages) {
		return ""
	}
	page := doc.Pages[pageIdx]

	start := -1
	for i, l := range page.Lines {
		if strings.TrimSpace(l.Text) == strings.TrimSpace(it.Text) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		// Heading text was normalized away; take the whole page instead.
		return clampContent(pageBody(page))
	}

	var b strings.Builder
	for _, l := range page.Lines[start:] {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		if looksLikeHeading(l, page) {
			break
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
		if b.Len() >= maxContentLen {
			break
		}
	}

	if b.Len() < minContentLen && pageIdx+1 < len(doc.Pages) {
		for _, l := range doc.Pages[pageIdx+1].Lines {
			text := strings.TrimSpace(l.Text)
			if text == "" {
				continue
			}
			if looksLikeHeading(l, doc.Pages[pageIdx+1]) {
				break
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(text)
			if b.Len() >= minContentLen {
				break
			}
		}
	}
	return clampContent(b.String())
}

// looksLikeHeading is a cheap structural check used only to stop content
// collection; the real heading decision belongs to the outline pipeline.
func looksLikeHeading(l layout.LineRecord, page layout.Page) bool {
	words := l.WordCount()
	if words == 0 || words > 12 {
		return false
	}
	if l.BoldRatio >= 0.8 {
		return true
	}
	var sum float64
	var n int
	for _, pl := range page.Lines {
		sum += pl.FontSize
		n++
	}
	if n == 0 {
		return false
	}
	return l.FontSize > (sum/float64(n))*1.15
}

func perPageSections(doc *layout.Document, title string) []Section {
	var secs []Section
	for i := range doc.Pages {
		content := clampContent(pageBody(doc.Pages[i]))
		if strings.TrimSpace(content) == "" {
			continue
		}
		secTitle := title
		if secTitle == "" {
			secTitle = "Document Content"
		}
		secs = append(secs, Section{
			Title:     secTitle,
			Content:   content,
			Page:      i + 1,
			Level:     outline.H1,
			WordCount: len(strings.Fields(content)),
		})
	}
	return secs
}

func pageBody(page layout.Page) string {
	var b strings.Builder
	for _, l := range page.Lines {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
	}
	return b.String()
}

func clampContent(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxContentLen {
		cut := s[:maxContentLen]
		if i := strings.LastIndexByte(cut, ' '); i > maxContentLen/2 {
			cut = cut[:i]
		}
		return cut
	}
	return s
}
