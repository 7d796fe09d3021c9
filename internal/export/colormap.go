package export

import (
	"fmt"
	"image/color"
)

// densityMax is the count at which the colormap saturates at red.
const densityMax = 60

// DensityColor maps a leaf result count onto a green→yellow→red scale over
// 0..60 results, matching the coverage map legend. Zero results render gray
// so empty cells stay distinguishable from sparse ones.
func DensityColor(count int) color.NRGBA {
	if count <= 0 {
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	}

	t := float64(count) / densityMax
	if t > 1 {
		t = 1
	}

	// green (0,128,0) → yellow (255,255,0) → red (255,0,0)
	if t < 0.5 {
		f := t * 2
		return color.NRGBA{
			R: uint8(255 * f),
			G: uint8(128 + 127*f),
			A: 0xFF,
		}
	}

	f := (t - 0.5) * 2
	return color.NRGBA{
		R: 255,
		G: uint8(255 * (1 - f)),
		A: 0xFF,
	}
}

// DensityHex is DensityColor formatted for CSS.
func DensityHex(count int) string {
	c := DensityColor(count)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
