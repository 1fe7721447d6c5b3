package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"

	"github.com/mgrims/doclens/internal/cleantext"
	"github.com/mgrims/doclens/internal/layout"
)

// boxRect is the wire form of one masked rectangle, in page pixels.
type boxRect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// decodePageImages turns uploaded page rasters plus the boxes form value
// (a JSON array of per-page rectangle arrays, in upload order) into
// masked-OCR input. Pages without a boxes entry are recognized unmasked.
func decodePageImages(files []*multipart.FileHeader, boxesJSON string, maxBytes int64) ([]cleantext.PageImage, error) {
	var boxes [][]boxRect
	if boxesJSON != "" {
		if err := json.Unmarshal([]byte(boxesJSON), &boxes); err != nil {
			return nil, fmt.Errorf("parse boxes: %w", err)
		}
	}

	pages := make([]cleantext.PageImage, 0, len(files))
	for i, fh := range files {
		data, err := readUpload(fh, maxBytes)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("page %d: decode image: %w", i, err)
		}
		pg := cleantext.PageImage{Image: img}
		if i < len(boxes) {
			for _, b := range boxes[i] {
				pg.Boxes = append(pg.Boxes, layout.BBox{X0: b.X0, Y0: b.Y0, X1: b.X1, Y1: b.Y1})
			}
		}
		pages = append(pages, pg)
	}
	return pages, nil
}
