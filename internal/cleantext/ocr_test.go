package cleantext

import (
	"image"
	"image/color"
	"testing"

	"github.com/mgrims/doclens/internal/layout"
)

func TestMaskBoxes(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 20, 20))
	black := color.RGBA{A: 255}
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			src.Set(x, y, black)
		}
	}

	out := maskBoxes(src, []layout.BBox{{X0: 5, Y0: 5, X1: 10, Y1: 10}})

	if got := out.At(7, 7); !isWhite(got) {
		t.Errorf("pixel inside box not masked: %v", got)
	}
	if got := out.At(2, 2); isWhite(got) {
		t.Errorf("pixel outside box was masked: %v", got)
	}
	// Out-of-bounds boxes are clipped, not a panic.
	out = maskBoxes(src, []layout.BBox{{X0: -50, Y0: -50, X1: 500, Y1: 2}})
	if got := out.At(1, 1); !isWhite(got) {
		t.Errorf("clipped box region not masked: %v", got)
	}
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}
