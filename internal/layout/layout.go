package layout

// LineRecord is a single formatted text line as observed on a page. Its
// formatting features (size, bold ratio) are derived once during extraction;
// downstream classifiers never re-inspect font names or flag bits.
// Immutable once produced by a Source.
type LineRecord struct {
	Text      string
	Page      int // 0-based page index
	BBox      BBox
	FontSize  float64 // average font size across the line's runs
	BoldRatio float64 // fraction of runs rendered bold, in [0,1]
	YCenter   float64
}

// WordCount returns the number of whitespace-separated words in the line.
func (l LineRecord) WordCount() int {
	n := 0
	inWord := false
	for _, r := range l.Text {
		if r == ' ' || r == '\t' || r == '\n' {
			inWord = false
		} else if !inWord {
			inWord = true
			n++
		}
	}
	return n
}

// Height returns the vertical extent of the line.
func (l LineRecord) Height() float64 {
	return l.BBox.Y1 - l.BBox.Y0
}

// BBox is an axis-aligned rectangle in page coordinates, top-left origin.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Overlaps reports whether two rectangles intersect.
func (b BBox) Overlaps(o BBox) bool {
	return !(b.X1 <= o.X0 || o.X1 <= b.X0 || b.Y1 <= o.Y0 || o.Y1 <= b.Y0)
}

// Page holds the ordered lines of one document page.
type Page struct {
	Number int // 0-based
	Width  float64
	Height float64
	Lines  []LineRecord
}

// Document is the full line-feature view of one document.
type Document struct {
	// MetaTitle is the title carried in document metadata, if any.
	// It is a title-selection fallback, never authoritative.
	MetaTitle string
	Pages     []Page
}

// Lines returns all lines across pages in (page, vertical) order.
func (d *Document) Lines() []LineRecord {
	var out []LineRecord
	for _, p := range d.Pages {
		out = append(out, p.Lines...)
	}
	return out
}

// AvgBodyFontSize computes the mean font size over all lines, ignoring
// footnote-tiny runs below minSize. Returns 0 for an empty document.
func (d *Document) AvgBodyFontSize(minSize float64) float64 {
	var sum float64
	var n int
	for _, p := range d.Pages {
		for _, l := range p.Lines {
			if l.FontSize > minSize {
				sum += l.FontSize
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// PageText joins the text of all lines on page idx (0-based) with newlines.
func (d *Document) PageText(idx int) string {
	if idx < 0 || idx >= len(d.Pages) {
		return ""
	}
	var b []byte
	for i, l := range d.Pages[idx].Lines {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, l.Text...)
	}
	return string(b)
}
