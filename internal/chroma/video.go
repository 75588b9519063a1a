package chroma

import "gonum.org/v1/gonum/stat"

// consensusHueTolerance is the circular hue distance (degrees) within
// which two frame results are considered the same color.
const consensusHueTolerance = 10.0

// VideoSession accumulates per-frame detection results so that a stable
// consensus can be computed over a whole clip.
//
// The session is caller-owned and append-only: every analyzed frame's
// ChromakeyResult is recorded for the session's lifetime. A session is
// single-writer/single-reader by construction; concurrent use from
// multiple goroutines requires external synchronization.
type VideoSession struct {
	config       DetectionConfig
	frameResults []ChromakeyResult
}

// NewVideoSession creates an empty session. The config is retained for
// reference (it is the config frames should be detected with); the
// consensus algorithm itself does not consult it.
func NewVideoSession(config DetectionConfig) *VideoSession {
	return &VideoSession{config: config}
}

// Config returns the session's current detection configuration.
func (s *VideoSession) Config() DetectionConfig { return s.config }

// SetConfig replaces the session's detection configuration. It affects
// only how the caller detects subsequent frames; results already recorded
// are untouched.
func (s *VideoSession) SetConfig(config DetectionConfig) { s.config = config }

// AddFrameResult records one frame's detection result.
func (s *VideoSession) AddFrameResult(result ChromakeyResult) {
	s.frameResults = append(s.frameResults, result)
}

// FrameCount returns the number of recorded frame results.
func (s *VideoSession) FrameCount() int { return len(s.frameResults) }

// Consensus reduces the recorded frame results to one stable result.
//
// Frames are grouped in arrival order by hue: a frame joins the first
// group whose representative hue (the group's first member) is within 10
// degrees circularly, otherwise it starts a new group. The largest group
// wins (first group to reach the maximum on ties) and its color channels,
// confidence, coverage, and hue are averaged arithmetically. Hue is
// deliberately not averaged circularly, consistent with the grouping's
// own arithmetic mean.
//
// The final confidence is the group's mean confidence scaled by the
// fraction of frames in the group: a color seen in every frame keeps its
// full confidence, one seen in a minority is proportionally discounted.
//
// Returns false when no frames have been recorded.
func (s *VideoSession) Consensus() (ChromakeyResult, bool) {
	if len(s.frameResults) == 0 {
		return ChromakeyResult{}, false
	}

	groups := s.groupByHue()
	largest := groups[0]
	for _, g := range groups[1:] {
		if len(g) > len(largest) {
			largest = g
		}
	}

	consensus := averageResults(largest, s.frameResults)
	agreement := float64(len(largest)) / float64(len(s.frameResults))

	return ChromakeyResult{
		Color:      consensus.Color,
		Confidence: consensus.Confidence * agreement,
		Coverage:   consensus.Coverage,
		Hue:        consensus.Hue,
		Method:     MethodHybrid,
	}, true
}

// groupByHue partitions frame indices into hue-similarity groups, scanning
// frames in arrival order.
func (s *VideoSession) groupByHue() [][]int {
	var groups [][]int

	for i, result := range s.frameResults {
		added := false
		for gi, group := range groups {
			representative := s.frameResults[group[0]]
			if hueDistance(result.Hue, representative.Hue) < consensusHueTolerance {
				groups[gi] = append(group, i)
				added = true
				break
			}
		}
		if !added {
			groups = append(groups, []int{i})
		}
	}
	return groups
}

// averageResults takes the arithmetic mean of each field over the group.
func averageResults(group []int, results []ChromakeyResult) ChromakeyResult {
	n := len(group)
	rs := make([]float64, n)
	gs := make([]float64, n)
	bs := make([]float64, n)
	confidences := make([]float64, n)
	coverages := make([]float64, n)
	hues := make([]float64, n)

	for i, idx := range group {
		r := results[idx]
		rs[i] = float64(r.Color.R)
		gs[i] = float64(r.Color.G)
		bs[i] = float64(r.Color.B)
		confidences[i] = r.Confidence
		coverages[i] = r.Coverage
		hues[i] = r.Hue
	}

	return ChromakeyResult{
		Color: RGB{
			R: uint8(stat.Mean(rs, nil) + 0.5),
			G: uint8(stat.Mean(gs, nil) + 0.5),
			B: uint8(stat.Mean(bs, nil) + 0.5),
		},
		Confidence: stat.Mean(confidences, nil),
		Coverage:   stat.Mean(coverages, nil),
		Hue:        stat.Mean(hues, nil),
		Method:     MethodHybrid,
	}
}
