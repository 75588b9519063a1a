package chroma

import (
	"encoding/json"
	"math"
	"testing"
)

// solidFrame builds a width x height RGBA buffer filled with one color.
func solidFrame(width, height int, r, g, b uint8) []byte {
	return solidRGBA(make([]byte, 0, width*height*4), r, g, b, width*height)
}

func TestDetect_PureGreenScreen(t *testing.T) {
	pixels := solidFrame(100, 100, 0, 255, 0)

	result, ok := Detect(pixels, 100, 100, DefaultConfig())
	if !ok {
		t.Fatal("expected a detection for a solid green frame")
	}
	if math.Abs(result.Hue-120) >= 5 {
		t.Errorf("hue: got %v, want within 5 of 120", result.Hue)
	}
	if result.Confidence <= 0.8 {
		t.Errorf("confidence: got %v, want > 0.8", result.Confidence)
	}
	if result.Color.G <= 240 {
		t.Errorf("green channel: got %d, want > 240", result.Color.G)
	}
	if result.Method != MethodHybrid {
		t.Errorf("method: got %v, want hybrid", result.Method)
	}
}

func TestDetect_PureBlueScreen(t *testing.T) {
	pixels := solidFrame(100, 100, 0, 0, 255)

	result, ok := Detect(pixels, 100, 100, DefaultConfig())
	if !ok {
		t.Fatal("expected a detection for a solid blue frame")
	}
	if math.Abs(result.Hue-240) >= 5 {
		t.Errorf("hue: got %v, want within 5 of 240", result.Hue)
	}
	if result.Confidence <= 0.8 {
		t.Errorf("confidence: got %v, want > 0.8", result.Confidence)
	}
}

// A green band covering 40% of a black frame: full-frame confidence stays
// under the short-circuit threshold, so the result comes from fusion, but
// the colored band must still win over the grayscale mass.
func TestDetect_GreenBandOnBlack(t *testing.T) {
	width, height := 100, 100
	pixels := solidFrame(width, height, 0, 0, 0)
	for y := 30; y < 70; y++ {
		for x := 0; x < width; x++ {
			idx := (y*width + x) * 4
			pixels[idx], pixels[idx+1], pixels[idx+2] = 0, 255, 0
		}
	}

	result, ok := Detect(pixels, width, height, DefaultConfig())
	if !ok {
		t.Fatal("expected a detection")
	}
	if math.Abs(result.Hue-120) >= 5 {
		t.Errorf("hue: got %v, want within 5 of 120", result.Hue)
	}
	if result.Coverage <= 0.35 {
		t.Errorf("coverage: got %v, want > 0.35", result.Coverage)
	}
}

func TestDetect_EmptyBuffer(t *testing.T) {
	if _, ok := Detect(nil, 100, 100, DefaultConfig()); ok {
		t.Error("empty buffer should report no detection")
	}
	if _, ok := Detect(nil, 0, 0, DefaultConfig()); ok {
		t.Error("zero-size frame should report no detection")
	}
}

// A buffer shorter than width*height*4 must not panic; whatever pixels
// are reachable still feed detection.
func TestDetect_UndersizedBufferTolerated(t *testing.T) {
	pixels := solidRGBA(nil, 0, 255, 0, 10)

	result, ok := Detect(pixels, 100, 100, DefaultConfig())
	if !ok {
		t.Fatal("expected the reachable green pixels to be detected")
	}
	if math.Abs(result.Hue-120) >= 5 {
		t.Errorf("hue: got %v, want within 5 of 120", result.Hue)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MinAreaPercentage != 0.25 {
		t.Errorf("MinAreaPercentage: got %v, want 0.25", cfg.MinAreaPercentage)
	}
	if cfg.MinSaturation != 0.6 {
		t.Errorf("MinSaturation: got %v, want 0.6", cfg.MinSaturation)
	}
	if cfg.EdgeSamplePercentage != 0.15 {
		t.Errorf("EdgeSamplePercentage: got %v, want 0.15", cfg.EdgeSamplePercentage)
	}
	if cfg.ConfidenceThreshold != 0.7 {
		t.Errorf("ConfidenceThreshold: got %v, want 0.7", cfg.ConfidenceThreshold)
	}
}

func TestMethod_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		method Method
		want   string
	}{
		{MethodEdge, `"edge"`},
		{MethodCluster, `"cluster"`},
		{MethodHybrid, `"hybrid"`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			data, err := json.Marshal(tt.method)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("marshal: got %s, want %s", data, tt.want)
			}

			var back Method
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != tt.method {
				t.Errorf("round trip: got %v, want %v", back, tt.method)
			}
		})
	}

	var m Method
	if err := json.Unmarshal([]byte(`"sorcery"`), &m); err == nil {
		t.Error("unknown method name should fail to unmarshal")
	}
}

func TestChooseBest_TieKeepsEarlier(t *testing.T) {
	a := ChromakeyResult{Hue: 120, Confidence: 0.5, Method: MethodHybrid}
	b := ChromakeyResult{Hue: 240, Confidence: 0.5, Method: MethodCluster}

	got, ok := chooseBest(a, true, b, true)
	if !ok || got.Hue != 120 {
		t.Errorf("tie should keep the earlier candidate, got hue %v", got.Hue)
	}

	b.Confidence = 0.6
	got, _ = chooseBest(a, true, b, true)
	if got.Hue != 240 {
		t.Errorf("strictly higher confidence should win, got hue %v", got.Hue)
	}

	got, ok = chooseBest(a, false, b, true)
	if !ok || got.Hue != 240 {
		t.Errorf("absent first candidate should yield second, got %v ok=%v", got.Hue, ok)
	}
	if _, ok := chooseBest(a, false, b, false); ok {
		t.Error("two absent candidates should fuse to absence")
	}
}
