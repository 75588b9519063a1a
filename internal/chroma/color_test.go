package chroma

import (
	"math"
	"testing"
)

func TestRGBToHSV_KnownColors(t *testing.T) {
	tests := []struct {
		name  string
		rgb   RGB
		wantH float64
		wantS float64
		wantV float64
	}{
		{"pure red", RGB{255, 0, 0}, 0, 1, 1},
		{"pure green", RGB{0, 255, 0}, 120, 1, 1},
		{"pure blue", RGB{0, 0, 255}, 240, 1, 1},
		{"white", RGB{255, 255, 255}, 0, 0, 1},
		{"black", RGB{0, 0, 0}, 0, 0, 0},
		{"mid gray", RGB{128, 128, 128}, 0, 0, 128.0 / 255.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hsv := tt.rgb.ToHSV()
			if math.Abs(hsv.H-tt.wantH) > 1e-9 {
				t.Errorf("H: got %v, want %v", hsv.H, tt.wantH)
			}
			if math.Abs(hsv.S-tt.wantS) > 1e-9 {
				t.Errorf("S: got %v, want %v", hsv.S, tt.wantS)
			}
			if math.Abs(hsv.V-tt.wantV) > 1e-9 {
				t.Errorf("V: got %v, want %v", hsv.V, tt.wantV)
			}
		})
	}
}

func TestHSVToRGB_Primaries(t *testing.T) {
	tests := []struct {
		name string
		hsv  HSV
		want RGB
	}{
		{"pure red", HSV{H: 0, S: 1, V: 1}, RGB{255, 0, 0}},
		{"pure green", HSV{H: 120, S: 1, V: 1}, RGB{0, 255, 0}},
		{"pure blue", HSV{H: 240, S: 1, V: 1}, RGB{0, 0, 255}},
		{"white", HSV{H: 0, S: 0, V: 1}, RGB{255, 255, 255}},
		{"black", HSV{H: 0, S: 0, V: 0}, RGB{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.hsv.ToRGB()
			if got != tt.want {
				t.Errorf("got (%d,%d,%d), want (%d,%d,%d)",
					got.R, got.G, got.B, tt.want.R, tt.want.G, tt.want.B)
			}
		})
	}
}

// Round trips may drift by at most one per channel from 8-bit rounding.
func TestRoundTrip_WithinRounding(t *testing.T) {
	for r := 0; r <= 255; r += 15 {
		for g := 0; g <= 255; g += 15 {
			for b := 0; b <= 255; b += 15 {
				in := RGB{uint8(r), uint8(g), uint8(b)}
				out := in.ToHSV().ToRGB()
				if channelDiff(in.R, out.R) > 1 || channelDiff(in.G, out.G) > 1 || channelDiff(in.B, out.B) > 1 {
					t.Fatalf("round trip (%d,%d,%d) -> (%d,%d,%d) drifted more than 1",
						in.R, in.G, in.B, out.R, out.G, out.B)
				}
			}
		}
	}
}

func channelDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d
}

func TestIsChromakeyCandidate(t *testing.T) {
	tests := []struct {
		name string
		hsv  HSV
		want bool
	}{
		{"vivid green", HSV{H: 120, S: 0.8, V: 0.8}, true},
		{"pale green", HSV{H: 120, S: 0.2, V: 0.8}, false},
		{"near-black green", HSV{H: 120, S: 0.8, V: 0.1}, false},
		{"just above thresholds", HSV{H: 240, S: 0.31, V: 0.11}, true},
		{"pure gray", HSV{H: 0, S: 0, V: 0.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hsv.IsChromakeyCandidate(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHueDistance_Wraparound(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{0, 0, 0},
		{10, 350, 20},
		{350, 10, 20},
		{120, 240, 120},
		{0, 180, 180},
	}

	for _, tt := range tests {
		if got := hueDistance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("hueDistance(%v, %v): got %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestPixelAt_BoundsChecks(t *testing.T) {
	// A 2x2 frame with only 3 pixels worth of bytes: the last pixel is
	// unreachable and must be skipped, not panic.
	pixels := make([]byte, 3*4)
	pixels[0], pixels[1], pixels[2] = 10, 20, 30

	if c, ok := pixelAt(pixels, 2, 2, 0, 0); !ok || c != (RGB{10, 20, 30}) {
		t.Errorf("in-range pixel: got (%v, %v)", c, ok)
	}
	if _, ok := pixelAt(pixels, 2, 2, 1, 1); ok {
		t.Error("pixel beyond buffer end should be skipped")
	}
	if _, ok := pixelAt(pixels, 2, 2, 2, 0); ok {
		t.Error("x outside logical frame should be skipped")
	}
	if _, ok := pixelAt(pixels, 2, 2, 0, -1); ok {
		t.Error("negative y should be skipped")
	}
}
