package chroma

import "sort"

const (
	hueBinCount   = 360 // one bin per integer degree
	satBinCount   = 100
	valueBinCount = 100

	// grayscaleSaturationCutoff splits pixels into the hue histogram vs the
	// grayscale accumulator. Distinct from HSV.IsChromakeyCandidate's 0.3.
	grayscaleSaturationCutoff = 0.15

	// peakWindow is the half-width in degrees of the local-maximum test.
	peakWindow = 5

	// maxPeakExpansion caps region growth on each side of a peak. Real
	// chromakeys spread over roughly 10-40 hue degrees; expanding further
	// starts merging unrelated colors.
	maxPeakExpansion = 15
)

// rgbAccumulator sums RGB channels with 64-bit headroom so a full-frame
// histogram cannot overflow.
type rgbAccumulator struct {
	rSum, gSum, bSum uint64
	count            uint32
}

func (a *rgbAccumulator) add(c RGB) {
	a.rSum += uint64(c.R)
	a.gSum += uint64(c.G)
	a.bSum += uint64(c.B)
	a.count++
}

func (a *rgbAccumulator) average() RGB {
	if a.count == 0 {
		return RGB{}
	}
	return RGB{
		R: uint8(a.rSum / uint64(a.count)),
		G: uint8(a.gSum / uint64(a.count)),
		B: uint8(a.bSum / uint64(a.count)),
	}
}

// ColorHistogram collects bucketed hue/saturation/value statistics over a
// stream of pixels.
//
// Colored pixels (saturation >= 0.15) land in one of 360 hue bins, each
// paired with an RGB accumulator so a peak can report the real average
// color of its region rather than a reconstructed one. Low-saturation
// pixels are kept separately as a single grayscale mass with its own
// average, so that an all-white or all-black backdrop is still detectable.
type ColorHistogram struct {
	hueBins         [hueBinCount]uint32
	rgbAccumulators [hueBinCount]rgbAccumulator
	saturationBins  [satBinCount]uint32
	valueBins       [valueBinCount]uint32
	grayscale       rgbAccumulator
	grayscaleCount  uint32
	totalPixels     uint32
}

// NewColorHistogram creates an empty histogram.
func NewColorHistogram() *ColorHistogram {
	return &ColorHistogram{}
}

// TotalPixels returns the number of pixels added so far.
func (h *ColorHistogram) TotalPixels() uint32 { return h.totalPixels }

// GrayscaleCount returns the number of low-saturation pixels added so far.
func (h *ColorHistogram) GrayscaleCount() uint32 { return h.grayscaleCount }

// AddPixel classifies one pixel into the histogram.
func (h *ColorHistogram) AddPixel(c RGB) {
	hsv := c.ToHSV()

	if hsv.S < grayscaleSaturationCutoff {
		valueIdx := int(hsv.V * 99.0)
		if valueIdx > valueBinCount-1 {
			valueIdx = valueBinCount - 1
		}
		h.valueBins[valueIdx]++
		h.grayscale.add(c)
		h.grayscaleCount++
		h.totalPixels++
		return
	}

	hueIdx := int(hsv.H)
	if hueIdx > hueBinCount-1 {
		hueIdx = hueBinCount - 1
	}
	satIdx := int(hsv.S * 99.0)
	if satIdx > satBinCount-1 {
		satIdx = satBinCount - 1
	}

	h.hueBins[hueIdx]++
	h.rgbAccumulators[hueIdx].add(c)
	h.saturationBins[satIdx]++
	h.totalPixels++
}

// Peak is a hue-histogram region whose pixel count is a local maximum
// above a relative threshold, expanded to its contiguous extent.
type Peak struct {
	// Hue is the peak bin's hue in degrees.
	Hue float64 `json:"hue"`

	// Count is the number of sampled pixels in the grown region.
	Count uint32 `json:"count"`

	// Percentage is Count divided by the total sampled pixel count (0-1).
	Percentage float64 `json:"percentage"`

	// AverageColor is the mean RGB color over the region's pixels.
	AverageColor RGB `json:"average_color"`
}

// FindPeaks locates dominant hue regions covering at least minPercentage
// of the sampled pixels.
//
// A bin qualifies as a peak when its count meets the threshold and no bin
// within 5 degrees on either side (circularly) has an equal or greater
// count. Each peak is then grown outward to capture the full spread of a
// real-world chromakey: expansion continues up to 15 degrees per side
// while the 5-bin circular moving average stays above the valley
// threshold of peakCount/5. The moving average bridges single-bin gaps
// left by hue quantization; the valley threshold and the 15-degree cap
// keep the region from swallowing unrelated nearby colors.
//
// If low-saturation pixels alone exceed minPercentage of the total, one
// additional peak describes that grayscale mass, so white or black
// backdrops are reported too.
//
// The returned slice puts colorful peaks (region average saturation
// >= 0.15) before grayscale ones, each group ordered by descending count,
// so a true chromakey color is preferred over an incidental gray
// background whenever both are present. Empty if no pixels were added.
func (h *ColorHistogram) FindPeaks(minPercentage float64) []Peak {
	var peaks []Peak
	if h.totalPixels == 0 {
		return peaks
	}

	threshold := uint32(float64(h.totalPixels) * minPercentage)

	for i := 0; i < hueBinCount; i++ {
		count := h.hueBins[i]
		if count < threshold {
			continue
		}

		isPeak := true
		for j := 1; j <= peakWindow; j++ {
			prevIdx := (i + hueBinCount - j) % hueBinCount
			nextIdx := (i + j) % hueBinCount
			if h.hueBins[prevIdx] >= count || h.hueBins[nextIdx] >= count {
				isPeak = false
				break
			}
		}
		if !isPeak {
			continue
		}

		regionCount := count
		regionR := h.rgbAccumulators[i].rSum
		regionG := h.rgbAccumulators[i].gSum
		regionB := h.rgbAccumulators[i].bSum
		regionPixels := h.rgbAccumulators[i].count

		valleyThreshold := count / 5

		// Grow left, then right, stopping each side at its own valley.
		for j := 1; j <= maxPeakExpansion; j++ {
			idx := (i + hueBinCount - j) % hueBinCount
			if h.smoothedCount(idx) < valleyThreshold {
				break
			}
			regionCount += h.hueBins[idx]
			regionR += h.rgbAccumulators[idx].rSum
			regionG += h.rgbAccumulators[idx].gSum
			regionB += h.rgbAccumulators[idx].bSum
			regionPixels += h.rgbAccumulators[idx].count
		}
		for j := 1; j <= maxPeakExpansion; j++ {
			idx := (i + j) % hueBinCount
			if h.smoothedCount(idx) < valleyThreshold {
				break
			}
			regionCount += h.hueBins[idx]
			regionR += h.rgbAccumulators[idx].rSum
			regionG += h.rgbAccumulators[idx].gSum
			regionB += h.rgbAccumulators[idx].bSum
			regionPixels += h.rgbAccumulators[idx].count
		}

		avgColor := h.rgbAccumulators[i].average()
		if regionPixels > 0 {
			avgColor = RGB{
				R: uint8(regionR / uint64(regionPixels)),
				G: uint8(regionG / uint64(regionPixels)),
				B: uint8(regionB / uint64(regionPixels)),
			}
		}

		peaks = append(peaks, Peak{
			Hue:          float64(i),
			Count:        regionCount,
			Percentage:   float64(regionCount) / float64(h.totalPixels),
			AverageColor: avgColor,
		})
	}

	// A dominant grayscale mass (white/black backdrop) counts as a peak of
	// its own, hued by its average color.
	grayscalePercentage := float64(h.grayscaleCount) / float64(h.totalPixels)
	if grayscalePercentage > minPercentage && h.grayscaleCount > 0 {
		avgColor := h.grayscale.average()
		peaks = append(peaks, Peak{
			Hue:          avgColor.ToHSV().H,
			Count:        h.grayscaleCount,
			Percentage:   grayscalePercentage,
			AverageColor: avgColor,
		})
	}

	sort.SliceStable(peaks, func(a, b int) bool {
		aGray := peaks[a].AverageColor.ToHSV().S < grayscaleSaturationCutoff
		bGray := peaks[b].AverageColor.ToHSV().S < grayscaleSaturationCutoff
		if aGray != bGray {
			return bGray
		}
		return peaks[a].Count > peaks[b].Count
	})
	return peaks
}

// smoothedCount returns the 5-bin centered circular moving average of the
// hue bins around center.
func (h *ColorHistogram) smoothedCount(center int) uint32 {
	var sum uint32
	for offset := -2; offset <= 2; offset++ {
		idx := (center + offset + hueBinCount) % hueBinCount
		sum += h.hueBins[idx]
	}
	return sum / 5
}
