package chroma

import (
	"math"
	"sort"
)

const (
	kmeansMaxIterations = 10

	// downsampleThreshold is the pixel count above which FindClusters
	// samples every 4th pixel to bound worst-case cost.
	downsampleThreshold = 1_000_000
	downsampleStride    = 4

	// Hue dominates the distance metric: chromakey separation is about
	// which color a pixel is, not lighting-driven brightness variation.
	hueWeight        = 0.6
	saturationWeight = 0.3
	valueWeight      = 0.1
)

// KMeans partitions pixels into k clusters in HSV space.
//
// Seeding is deterministic (no PRNG): initial centroids are picked evenly
// through the sample sequence, so identical input always yields identical
// clusters. Iteration stops after 10 passes or when a pass reassigns
// nothing.
type KMeans struct {
	k             int
	maxIterations int
}

// Cluster is one k-means cluster over the sampled pixels.
type Cluster struct {
	// Centroid is the mean HSV position of the cluster's members.
	Centroid HSV `json:"centroid"`

	// Size is the number of sampled pixels assigned to the cluster.
	Size uint32 `json:"size"`

	// Percentage is Size divided by the total sampled pixel count (0-1).
	Percentage float64 `json:"percentage"`
}

// NewKMeans creates a clusterer with k clusters and the default iteration
// cap of 10 passes.
func NewKMeans(k int) *KMeans {
	return &KMeans{k: k, maxIterations: kmeansMaxIterations}
}

// FindClusters clusters the RGBA buffer's pixels and returns the clusters
// sorted by descending size.
//
// Buffers above one million pixels are downsampled to every 4th pixel
// first. Returns an empty slice when no samples result (or k is not
// positive); never an error.
//
// The width and height describe the logical frame; sampling itself is
// driven by the buffer length, so an inconsistent pair cannot cause an
// out-of-range read.
func (km *KMeans) FindClusters(pixels []byte, width, height int) []Cluster {
	if km.k <= 0 {
		return nil
	}

	samples := downsamplePixels(pixels)
	if len(samples) == 0 {
		return nil
	}

	hsvs := make([]HSV, len(samples))
	for i, s := range samples {
		hsvs[i] = s.ToHSV()
	}

	// Deterministic seeding: k samples spread evenly through the sequence.
	centroids := make([]HSV, km.k)
	for i := 0; i < km.k; i++ {
		idx := len(samples) * (i + 1) / (km.k + 1)
		centroids[i] = hsvs[idx]
	}

	assignments := make([]int, len(samples))
	sizes := make([]uint32, km.k)

	for iter := 0; iter < km.maxIterations; iter++ {
		changes := 0
		for i := range sizes {
			sizes[i] = 0
		}

		for i, hsv := range hsvs {
			best := 0
			minDist := math.MaxFloat64
			for cIdx, centroid := range centroids {
				hDist := hueDistance(hsv.H, centroid.H) / 180.0
				sDist := math.Abs(hsv.S - centroid.S)
				vDist := math.Abs(hsv.V - centroid.V)
				dist := hDist*hueWeight + sDist*saturationWeight + vDist*valueWeight
				if dist < minDist {
					minDist = dist
					best = cIdx
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changes++
			}
			sizes[best]++
		}

		if changes == 0 {
			break
		}

		sumsH := make([]float64, km.k)
		sumsS := make([]float64, km.k)
		sumsV := make([]float64, km.k)
		counts := make([]uint32, km.k)
		for i, hsv := range hsvs {
			c := assignments[i]
			sumsH[c] += hsv.H
			sumsS[c] += hsv.S
			sumsV[c] += hsv.V
			counts[c]++
		}
		// Centroids with no members keep their previous position.
		for i := 0; i < km.k; i++ {
			if counts[i] > 0 {
				centroids[i] = HSV{
					H: sumsH[i] / float64(counts[i]),
					S: sumsS[i] / float64(counts[i]),
					V: sumsV[i] / float64(counts[i]),
				}
			}
		}
	}

	totalSamples := float64(len(samples))
	clusters := make([]Cluster, km.k)
	for i, centroid := range centroids {
		clusters[i] = Cluster{
			Centroid:   centroid,
			Size:       sizes[i],
			Percentage: float64(sizes[i]) / totalSamples,
		}
	}

	sort.Slice(clusters, func(a, b int) bool {
		return clusters[a].Size > clusters[b].Size
	})
	return clusters
}

// downsamplePixels flattens an RGBA buffer into RGB samples, taking every
// 4th pixel for buffers above the downsample threshold.
func downsamplePixels(pixels []byte) []RGB {
	pixelCount := len(pixels) / 4

	step := 1
	if pixelCount > downsampleThreshold {
		step = downsampleStride
	}

	sampled := make([]RGB, 0, pixelCount/step+1)
	for i := 0; i < pixelCount; i += step {
		idx := i * 4
		if idx+2 >= len(pixels) {
			continue
		}
		sampled = append(sampled, RGB{
			R: pixels[idx],
			G: pixels[idx+1],
			B: pixels[idx+2],
		})
	}
	return sampled
}
