package chroma

import (
	"math"
	"testing"
)

func greenFrameResult(confidence float64) ChromakeyResult {
	return ChromakeyResult{
		Color:      RGB{0, 255, 0},
		Confidence: confidence,
		Coverage:   0.5,
		Hue:        120,
		Method:     MethodEdge,
	}
}

func TestConsensus_PerfectAgreement(t *testing.T) {
	session := NewVideoSession(DefaultConfig())
	for i := 0; i < 5; i++ {
		session.AddFrameResult(greenFrameResult(0.9))
	}

	consensus, ok := session.Consensus()
	if !ok {
		t.Fatal("expected a consensus")
	}
	if math.Abs(consensus.Hue-120) >= 0.1 {
		t.Errorf("hue: got %v, want 120", consensus.Hue)
	}
	// Full agreement keeps full confidence: 0.9 * 5/5.
	if consensus.Confidence <= 0.89 {
		t.Errorf("confidence: got %v, want > 0.89", consensus.Confidence)
	}
	if consensus.Method != MethodHybrid {
		t.Errorf("method: got %v, want hybrid", consensus.Method)
	}
}

func TestConsensus_OutlierDiscounted(t *testing.T) {
	session := NewVideoSession(DefaultConfig())
	for i := 0; i < 4; i++ {
		session.AddFrameResult(greenFrameResult(0.9))
	}
	session.AddFrameResult(ChromakeyResult{
		Color:      RGB{0, 0, 255},
		Confidence: 0.9,
		Coverage:   0.5,
		Hue:        240,
		Method:     MethodEdge,
	})

	consensus, ok := session.Consensus()
	if !ok {
		t.Fatal("expected a consensus")
	}
	if math.Abs(consensus.Hue-120) >= 1 {
		t.Errorf("hue: got %v, want ~120 (outlier must not win)", consensus.Hue)
	}
	// 4 of 5 frames agree: 0.9 * 0.8 = 0.72.
	if math.Abs(consensus.Confidence-0.72) >= 0.01 {
		t.Errorf("confidence: got %v, want ~0.72", consensus.Confidence)
	}
}

func TestConsensus_HueWraparoundGrouping(t *testing.T) {
	session := NewVideoSession(DefaultConfig())
	// 355 and 3 degrees are 8 degrees apart circularly; they form one group.
	session.AddFrameResult(ChromakeyResult{Hue: 355, Confidence: 0.8, Method: MethodEdge})
	session.AddFrameResult(ChromakeyResult{Hue: 3, Confidence: 0.8, Method: MethodEdge})
	session.AddFrameResult(ChromakeyResult{Hue: 120, Confidence: 0.8, Method: MethodEdge})

	consensus, ok := session.Consensus()
	if !ok {
		t.Fatal("expected a consensus")
	}
	// The red group (2 frames) wins; its arithmetic mean hue is 179, an
	// accepted artifact of the non-circular averaging.
	if math.Abs(consensus.Confidence-0.8*2.0/3.0) >= 0.01 {
		t.Errorf("confidence: got %v, want ~%v", consensus.Confidence, 0.8*2.0/3.0)
	}
}

func TestConsensus_EmptySession(t *testing.T) {
	session := NewVideoSession(DefaultConfig())
	if _, ok := session.Consensus(); ok {
		t.Error("empty session should report no consensus")
	}
	if session.FrameCount() != 0 {
		t.Errorf("FrameCount: got %d, want 0", session.FrameCount())
	}
}

func TestSession_SetConfigLeavesFramesUntouched(t *testing.T) {
	session := NewVideoSession(DefaultConfig())
	session.AddFrameResult(greenFrameResult(0.9))

	cfg := session.Config()
	cfg.ConfidenceThreshold = 0.9
	session.SetConfig(cfg)

	if session.Config().ConfidenceThreshold != 0.9 {
		t.Errorf("config not replaced: got %v", session.Config().ConfidenceThreshold)
	}
	if session.FrameCount() != 1 {
		t.Errorf("recorded frames must survive a config change, got %d", session.FrameCount())
	}

	consensus, ok := session.Consensus()
	if !ok || math.Abs(consensus.Hue-120) >= 0.1 {
		t.Errorf("consensus changed after config update: %v ok=%v", consensus.Hue, ok)
	}
}
