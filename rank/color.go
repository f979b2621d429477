package rank

import (
	"fmt"
	"image/color"
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B uint8
}

// ColorForScore maps an average score from [-2, 2] onto a blue (low) to red
// (high) gradient. Scores outside the range are clamped.
func ColorForScore(score float64) RGB {
	t := (score + 2) / 4
	if t < 0 || t != t {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return RGB{
		R: uint8(roundHalfUp(255 * t)),
		B: uint8(roundHalfUp(255 * (1 - t))),
	}
}

// CSS formats c as rgb(r, g, b).
func (c RGB) CSS() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex formats c as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Color returns c as an opaque color.RGBA.
func (c RGB) Color() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
