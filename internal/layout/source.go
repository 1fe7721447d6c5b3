package layout

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Source extracts the line-feature view of a document. Implementations never
// interpret the lines; they only report text plus formatting geometry.
type Source interface {
	Extract(ctx context.Context, r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can scan.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate layout source for a filename.
func ForFile(filename string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextSource{}, nil
	case ".md", ".markdown":
		return &MarkdownSource{}, nil
	case ".html", ".htm":
		return &HTMLSource{}, nil
	case ".pdf":
		return &PDFSource{}, nil
	case ".docx":
		return &DOCXSource{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Synthetic page geometry for formats that carry no physical layout.
// Heading levels map to nominal font sizes so the downstream formatting
// heuristics see the same signal a rendered page would give.
const (
	synthPageWidth  = 612.0
	synthPageHeight = 792.0
	synthLineHeight = 16.0
	synthTopMargin  = 48.0
	synthLeftMargin = 56.0
	synthLinesPage  = 44
	synthBodySize   = 11.0
)

func synthHeadingSize(level int) float64 {
	switch level {
	case 1:
		return 24
	case 2:
		return 18
	case 3:
		return 15.5
	case 4:
		return 13.5
	case 5:
		return 12.5
	case 6:
		return 12
	}
	return synthBodySize
}

// lineBuilder accumulates lines with synthetic geometry, paginating as it goes.
type lineBuilder struct {
	doc  *Document
	page Page
}

func newLineBuilder() *lineBuilder {
	lb := &lineBuilder{doc: &Document{}}
	lb.page = Page{Number: 0, Width: synthPageWidth, Height: synthPageHeight}
	return lb
}

func (lb *lineBuilder) add(text string, fontSize, boldRatio float64) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(lb.page.Lines) >= synthLinesPage {
		lb.flushPage()
	}
	y0 := synthTopMargin + float64(len(lb.page.Lines))*synthLineHeight
	charW := fontSize * 0.5
	lb.page.Lines = append(lb.page.Lines, LineRecord{
		Text: text,
		Page: lb.page.Number,
		BBox: BBox{
			X0: synthLeftMargin,
			Y0: y0,
			X1: synthLeftMargin + charW*float64(len(text)),
			Y1: y0 + fontSize*1.2,
		},
		FontSize:  fontSize,
		BoldRatio: boldRatio,
		YCenter:   y0 + fontSize*0.6,
	})
}

// addBlock splits multi-line text into individual body lines.
func (lb *lineBuilder) addBlock(text string) {
	for _, line := range strings.Split(text, "\n") {
		lb.add(line, synthBodySize, 0)
	}
}

func (lb *lineBuilder) flushPage() {
	lb.doc.Pages = append(lb.doc.Pages, lb.page)
	lb.page = Page{Number: lb.page.Number + 1, Width: synthPageWidth, Height: synthPageHeight}
}

func (lb *lineBuilder) done() *Document {
	if len(lb.page.Lines) > 0 {
		lb.flushPage()
	}
	return lb.doc
}
