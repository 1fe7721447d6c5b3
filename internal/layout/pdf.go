package layout

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFSource reads physical layout from PDF files: per-glyph text runs with
// font name and size, grouped into lines.
type PDFSource struct {
	// MaxConcurrentPages bounds the per-page scan fan-out. Zero means 4.
	MaxConcurrentPages int
}

const yLineTolerance = 2.0 // runs within this vertical distance share a line

func (s *PDFSource) Extract(ctx context.Context, r io.Reader, filename string) (*Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "doclens-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	doc := &Document{MetaTitle: metaTitle(reader)}

	numPages := reader.NumPage()
	pages := make([]Page, numPages)

	workers := s.MaxConcurrentPages
	if workers <= 0 {
		workers = 4
	}
	sem := make(chan struct{}, workers)
	done := make(chan int, numPages)

	for i := 1; i <= numPages; i++ {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		go func(i int) {
			defer func() { <-sem }()
			// A failed page yields an empty page, never a document failure.
			pages[i-1] = scanPage(reader.Page(i), i-1)
			done <- i
		}(i)
	}
	for i := 0; i < numPages; i++ {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	doc.Pages = pages
	return doc, nil
}

// scanPage groups a page's text runs into line records. The content stream
// interpreter can panic on malformed streams; that is contained here.
func scanPage(page pdflib.Page, number int) (out Page) {
	out = Page{Number: number, Width: 612, Height: 792}
	defer func() {
		if recover() != nil {
			out.Lines = nil
		}
	}()

	if page.V.IsNull() {
		return out
	}
	if w, h, ok := mediaBoxSize(page); ok {
		out.Width, out.Height = w, h
	}

	content := page.Content()
	if len(content.Text) == 0 {
		return out
	}

	// Bucket runs into rows by baseline Y, then order rows top-down.
	// PDF Y grows upward, so flip to top-left origin.
	type row struct {
		y    float64
		runs []pdflib.Text
	}
	var rows []*row
	for _, t := range content.Text {
		if t.S == "" {
			continue
		}
		var match *row
		for _, rw := range rows {
			if math.Abs(rw.y-t.Y) <= yLineTolerance {
				match = rw
				break
			}
		}
		if match == nil {
			match = &row{y: t.Y}
			rows = append(rows, match)
		}
		match.runs = append(match.runs, t)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	for _, rw := range rows {
		sort.Slice(rw.runs, func(i, j int) bool { return rw.runs[i].X < rw.runs[j].X })
		line := assembleLine(rw.runs, number, out.Height)
		if line.Text != "" {
			out.Lines = append(out.Lines, line)
		}
	}
	return out
}

func assembleLine(runs []pdflib.Text, page int, pageHeight float64) LineRecord {
	var sb strings.Builder
	var sizeSum float64
	boldRuns := 0
	x0, x1 := math.Inf(1), math.Inf(-1)
	maxSize := 0.0
	baseline := runs[0].Y

	for _, t := range runs {
		sb.WriteString(t.S)
		sizeSum += t.FontSize
		if t.FontSize > maxSize {
			maxSize = t.FontSize
		}
		if isBoldFont(t.Font) {
			boldRuns++
		}
		if t.X < x0 {
			x0 = t.X
		}
		if t.X+t.W > x1 {
			x1 = t.X + t.W
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return LineRecord{}
	}
	yTop := pageHeight - baseline - maxSize
	yBot := pageHeight - baseline
	return LineRecord{
		Text:      text,
		Page:      page,
		BBox:      BBox{X0: x0, Y0: yTop, X1: x1, Y1: yBot},
		FontSize:  sizeSum / float64(len(runs)),
		BoldRatio: float64(boldRuns) / float64(len(runs)),
		YCenter:   (yTop + yBot) / 2,
	}
}

// isBoldFont detects bold by font-name substring; PDFs carry no style bit in
// the font resource name beyond this convention.
func isBoldFont(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") || strings.Contains(lower, "black") || strings.Contains(lower, "heavy")
}

func mediaBoxSize(page pdflib.Page) (w, h float64, ok bool) {
	box := page.V.Key("MediaBox")
	if box.Kind() != pdflib.Array || box.Len() < 4 {
		return 0, 0, false
	}
	x0 := box.Index(0).Float64()
	y0 := box.Index(1).Float64()
	x1 := box.Index(2).Float64()
	y1 := box.Index(3).Float64()
	if x1 <= x0 || y1 <= y0 {
		return 0, 0, false
	}
	return x1 - x0, y1 - y0, true
}

func metaTitle(reader *pdflib.Reader) (title string) {
	defer func() {
		if recover() != nil {
			title = ""
		}
	}()
	info := reader.Trailer().Key("Info")
	if info.Kind() != pdflib.Dict {
		return ""
	}
	v := info.Key("Title")
	if v.Kind() != pdflib.String {
		return ""
	}
	return strings.TrimSpace(v.RawString())
}
