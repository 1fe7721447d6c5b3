package cleantext

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/mgrims/doclens/internal/layout"
)

// PageImage is one rasterized page plus the box regions detected on it.
// Rasterization and box geometry come from upstream collaborators; this
// package only masks and recognizes.
type PageImage struct {
	Image image.Image
	Boxes []layout.BBox
}

// OCRSource derives the clean-body-text signal by white-filling every
// detected box region and running recognition on the remainder, so tabular
// and form content never reaches the signal.
type OCRSource struct {
	Lang    string // Tesseract language, default "eng"
	Workers int    // per-page fan-out bound, default 4
	Log     *slog.Logger
}

// FullText recognizes all pages and returns the combined signal.
func (s *OCRSource) FullText(ctx context.Context, pages []PageImage) (*FullText, error) {
	text, err := s.Text(ctx, pages)
	if err != nil {
		return nil, err
	}
	return NewFullText(text), nil
}

// Text recognizes all pages and returns the combined raw text. Pages are
// processed concurrently but joined in page order. A page whose recognition
// fails is skipped; it never fails the document.
func (s *OCRSource) Text(ctx context.Context, pages []PageImage) (string, error) {
	workers := s.Workers
	if workers <= 0 {
		workers = 4
	}
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	texts := make([]string, len(pages))
	sem := make(chan struct{}, workers)
	done := make(chan struct{}, len(pages))

	for i, pg := range pages {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		go func(i int, pg PageImage) {
			defer func() { <-sem; done <- struct{}{} }()
			text, err := s.recognizePage(pg)
			if err != nil {
				log.Warn("page recognition failed, skipping", "page", i, "error", err)
				return
			}
			texts[i] = text
		}(i, pg)
	}
	for range pages {
		select {
		case <-done:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	var joined []string
	for _, t := range texts {
		if t != "" {
			joined = append(joined, t)
		}
	}
	return strings.Join(joined, "\n"), nil
}

// recognizePage masks box regions and OCRs the unboxed remainder.
// One Tesseract client per call; the client is not safe for sharing.
func (s *OCRSource) recognizePage(pg PageImage) (string, error) {
	masked := maskBoxes(pg.Image, pg.Boxes)

	var buf bytes.Buffer
	if err := png.Encode(&buf, masked); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()
	if s.Lang != "" {
		if err := client.SetLanguage(s.Lang); err != nil {
			return "", err
		}
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", err
	}
	text, err := client.Text()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// maskBoxes white-fills each box rectangle on a copy of the page image.
func maskBoxes(src image.Image, boxes []layout.BBox) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	white := &image.Uniform{C: color.White}
	for _, b := range boxes {
		r := image.Rect(int(b.X0), int(b.Y0), int(b.X1), int(b.Y1)).Intersect(bounds)
		if !r.Empty() {
			draw.Draw(dst, r, white, image.Point{}, draw.Src)
		}
	}
	return dst
}
