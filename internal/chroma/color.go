package chroma

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB represents a color with 8-bit components and no alpha.
//
// Each component ranges from 0 to 255.
type RGB struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSV represents a color in HSV (Hue, Saturation, Value) color space.
//
// HSV separates "which color" from "how colorful" and "how bright", which
// makes it the natural space for chromakey work:
//   - H: hue angle in degrees, [0, 360). Circular: 0 and 359 are neighbors.
//   - S: saturation, [0, 1]. 0 = gray, 1 = fully vivid.
//   - V: value (brightness), [0, 1]. 0 = black.
type HSV struct {
	H float64 `json:"h"` // Hue in degrees (0=red, 120=green, 240=blue)
	S float64 `json:"s"` // Saturation (0-1)
	V float64 `json:"v"` // Value/brightness (0-1)
}

// ToHSV converts the color to HSV using the standard max/min-channel formula.
//
// Edge cases follow the usual convention: hue is 0 when all channels are
// equal (no dominant color), and saturation is 0 for pure black.
func (c RGB) ToHSV() HSV {
	h, s, v := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hsv()
	return HSV{H: h, S: s, V: v}
}

// Hex returns the color in "#rrggbb" form.
func (c RGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// ToRGB converts back to 8-bit RGB, rounding each channel half-up.
//
// ToRGB is the algebraic inverse of RGB.ToHSV up to that rounding: a
// round-trip drifts by at most 1 per channel.
func (h HSV) ToRGB() RGB {
	col := colorful.Hsv(h.H, h.S, h.V)
	return RGB{
		R: uint8(col.R*255.0 + 0.5),
		G: uint8(col.G*255.0 + 0.5),
		B: uint8(col.B*255.0 + 0.5),
	}
}

// IsChromakeyCandidate reports whether the color is plausible as a key
// color: some real saturation and not near-black.
//
// This is a coarse filter used by the clustering path to reject
// gray/black/near-white centroids. The threshold is deliberately looser
// than the histogram's grayscale cutoff (0.15); the two serve different
// purposes and are not interchangeable.
func (h HSV) IsChromakeyCandidate() bool {
	return h.S > 0.3 && h.V > 0.1
}

// hueDistance returns the circular distance between two hue angles in
// degrees: min(|a-b|, 360-|a-b|), always in [0, 180].
func hueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360.0-d)
}
