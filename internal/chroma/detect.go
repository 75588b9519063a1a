package chroma

import (
	"encoding/json"
	"fmt"
)

// Adaptive full-frame sampling strides. Frames up to 100k pixels are
// sampled exhaustively, up to 500k every 2nd pixel, larger every 4th.
const (
	fullSampleMaxPixels = 100_000
	halfSampleMaxPixels = 500_000
)

// edgePeakThreshold is the looser find-peaks threshold used for the
// border ring, which is a much smaller sample than the full frame.
const edgePeakThreshold = 0.05

// clusterCount is the k used by the clustering strategy. Three clusters
// are enough to separate backdrop, subject, and shadow/noise.
const clusterCount = 3

// DetectionConfig tunes a detection call. The zero value is not useful;
// start from DefaultConfig.
type DetectionConfig struct {
	// MinAreaPercentage is the fraction of the frame a hue region must
	// cover to qualify as a full-frame peak. Default 0.25.
	MinAreaPercentage float64 `json:"min_area_percentage"`

	// MinSaturation is reserved for future use; the canonical pipeline
	// does not consult it. Default 0.6.
	MinSaturation float64 `json:"min_saturation"`

	// EdgeSamplePercentage is the border ring width as a fraction of the
	// frame dimension. Default 0.15.
	EdgeSamplePercentage float64 `json:"edge_sample_percentage"`

	// ConfidenceThreshold is the full-frame confidence above which the
	// other strategies are skipped. Default 0.7.
	ConfidenceThreshold float64 `json:"confidence_threshold"`
}

// DefaultConfig returns the standard detection configuration.
func DefaultConfig() DetectionConfig {
	return DetectionConfig{
		MinAreaPercentage:    0.25,
		MinSaturation:        0.6,
		EdgeSamplePercentage: 0.15,
		ConfidenceThreshold:  0.7,
	}
}

// Method identifies which strategy produced a ChromakeyResult.
type Method int

const (
	// MethodEdge means the result came from border-ring analysis.
	MethodEdge Method = iota

	// MethodCluster means the result came from k-means clustering.
	MethodCluster

	// MethodHybrid means full-frame analysis or cross-method fusion.
	MethodHybrid
)

// String returns the lowercase wire name of the method.
func (m Method) String() string {
	switch m {
	case MethodEdge:
		return "edge"
	case MethodCluster:
		return "cluster"
	case MethodHybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// MarshalJSON encodes the method as its lowercase name.
func (m Method) MarshalJSON() ([]byte, error) {
	switch m {
	case MethodEdge, MethodCluster, MethodHybrid:
		return json.Marshal(m.String())
	default:
		return nil, fmt.Errorf("unknown detection method %d", int(m))
	}
}

// UnmarshalJSON decodes a lowercase method name.
func (m *Method) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "edge":
		*m = MethodEdge
	case "cluster":
		*m = MethodCluster
	case "hybrid":
		*m = MethodHybrid
	default:
		return fmt.Errorf("unknown detection method %q", s)
	}
	return nil
}

// ChromakeyResult is the engine's sole output: one best-guess key color
// plus metrics describing how strongly it dominates the frame.
type ChromakeyResult struct {
	// Color is the detected key color (average over its region).
	Color RGB `json:"color"`

	// Confidence in the detection, 0-1.
	Confidence float64 `json:"confidence"`

	// Coverage is the fraction of sampled pixels matching the color, 0-1.
	Coverage float64 `json:"coverage"`

	// Hue of the detected color in degrees.
	Hue float64 `json:"hue"`

	// Method tags the strategy that produced this result.
	Method Method `json:"method"`
}

// Detect finds the dominant chromakey color in an RGBA frame.
//
// Strategies run in priority order with confidence-gated short-circuiting:
//
//  1. Full-frame histogram analysis (most robust). If its confidence
//     exceeds config.ConfidenceThreshold the result is returned at once.
//  2. Otherwise border-ring histogram analysis and k-means clustering
//     each produce an independent candidate, and the candidate with the
//     strictly highest confidence wins; ties keep the earlier strategy.
//
// The second return value is false when no strategy produced a candidate.
// That is a normal outcome for ambiguous footage, not an error, and
// malformed buffers (wrong length for the stated dimensions) only cause
// pixels to be skipped.
func Detect(pixels []byte, width, height int, config DetectionConfig) (ChromakeyResult, bool) {
	if full, ok := analyzeFullFrame(pixels, width, height, config); ok {
		if full.Confidence > config.ConfidenceThreshold {
			return full, true
		}

		edge, edgeOK := analyzeEdges(pixels, width, height, config)
		cluster, clusterOK := analyzeClusters(pixels, width, height)

		best, bestOK := chooseBest(edge, edgeOK, cluster, clusterOK)
		return chooseBest(full, true, best, bestOK)
	}

	edge, edgeOK := analyzeEdges(pixels, width, height, config)
	cluster, clusterOK := analyzeClusters(pixels, width, height)
	return chooseBest(edge, edgeOK, cluster, clusterOK)
}

// analyzeFullFrame histograms the whole frame with an adaptive stride and
// turns the top peak into a Hybrid-tagged candidate.
func analyzeFullFrame(pixels []byte, width, height int, config DetectionConfig) (ChromakeyResult, bool) {
	totalPixels := width * height
	stride := 1
	switch {
	case totalPixels > halfSampleMaxPixels:
		stride = 4
	case totalPixels > fullSampleMaxPixels:
		stride = 2
	}

	histogram := NewColorHistogram()
	for y := 0; y < height; y += stride {
		for x := 0; x < width; x += stride {
			if p, ok := pixelAt(pixels, width, height, x, y); ok {
				histogram.AddPixel(p)
			}
		}
	}

	peaks := histogram.FindPeaks(config.MinAreaPercentage)
	if len(peaks) == 0 {
		return ChromakeyResult{}, false
	}

	best := peaks[0]
	return ChromakeyResult{
		Color:      best.AverageColor,
		Confidence: clampUnit(best.Percentage),
		Coverage:   best.Percentage,
		Hue:        best.Hue,
		Method:     MethodHybrid,
	}, true
}

// analyzeEdges histograms only a border ring around the frame. Chromakey
// backdrops almost always touch the frame edge, so even a partly occluded
// backdrop dominates there.
func analyzeEdges(pixels []byte, width, height int, config DetectionConfig) (ChromakeyResult, bool) {
	histogram := NewColorHistogram()

	borderWidth := int(float64(width) * config.EdgeSamplePercentage)
	borderHeight := int(float64(height) * config.EdgeSamplePercentage)

	// Top and bottom bands.
	for y := 0; y < borderHeight; y++ {
		for x := 0; x < width; x++ {
			if p, ok := pixelAt(pixels, width, height, x, y); ok {
				histogram.AddPixel(p)
			}
			if p, ok := pixelAt(pixels, width, height, x, height-1-y); ok {
				histogram.AddPixel(p)
			}
		}
	}
	// Left and right bands, excluding the corners already covered above.
	for x := 0; x < borderWidth; x++ {
		for y := borderHeight; y < height-borderHeight; y++ {
			if p, ok := pixelAt(pixels, width, height, x, y); ok {
				histogram.AddPixel(p)
			}
			if p, ok := pixelAt(pixels, width, height, width-1-x, y); ok {
				histogram.AddPixel(p)
			}
		}
	}

	peaks := histogram.FindPeaks(edgePeakThreshold)
	if len(peaks) == 0 {
		return ChromakeyResult{}, false
	}

	best := peaks[0]
	return ChromakeyResult{
		Color:      best.AverageColor,
		Confidence: clampUnit(best.Percentage),
		Coverage:   best.Percentage,
		Hue:        best.Hue,
		Method:     MethodEdge,
	}, true
}

// analyzeClusters runs k-means over the frame and takes the largest
// cluster whose centroid passes the chromakey candidacy filter.
func analyzeClusters(pixels []byte, width, height int) (ChromakeyResult, bool) {
	clusters := NewKMeans(clusterCount).FindClusters(pixels, width, height)

	for _, c := range clusters {
		if !c.Centroid.IsChromakeyCandidate() {
			continue
		}
		return ChromakeyResult{
			Color:      c.Centroid.ToRGB(),
			Confidence: clampUnit(c.Percentage),
			Coverage:   c.Percentage,
			Hue:        c.Centroid.H,
			Method:     MethodCluster,
		}, true
	}
	return ChromakeyResult{}, false
}

// chooseBest fuses two optional candidates, keeping the one with the
// strictly higher confidence. A tie keeps a, the earlier-evaluated
// candidate.
func chooseBest(a ChromakeyResult, aOK bool, b ChromakeyResult, bOK bool) (ChromakeyResult, bool) {
	switch {
	case aOK && bOK:
		if b.Confidence > a.Confidence {
			return b, true
		}
		return a, true
	case aOK:
		return a, true
	case bOK:
		return b, true
	default:
		return ChromakeyResult{}, false
	}
}

func clampUnit(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}
