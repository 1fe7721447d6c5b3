package layout

import (
	"bufio"
	"context"
	"io"
)

// TextSource reads plain text files. Every line gets the body size; structure
// can still emerge downstream from numbering prefixes and text shape.
type TextSource struct{}

func (s *TextSource) Extract(ctx context.Context, r io.Reader, filename string) (*Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lb := newLineBuilder()
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lb.add(scanner.Text(), synthBodySize, 0)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lb.done(), nil
}
