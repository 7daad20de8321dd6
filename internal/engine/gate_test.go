package engine

import (
	"testing"

	"github.com/arkandaru/simdoc/internal/config"
)

func gateFixture() ([]Candidate, []CandidateMatch) {
	cands := []Candidate{
		{CorpusID: 1, Approx: 0.92},
		{CorpusID: 2, Approx: 0.55},
		{CorpusID: 3, Approx: 0.30},
		{CorpusID: 4, Approx: 0.10},
		{CorpusID: 5, Approx: 0.05},
	}
	matches := []CandidateMatch{
		{CorpusID: 1, Coverage: 0.90},
		{CorpusID: 2, Coverage: 0.40},
		{CorpusID: 3, Coverage: 0.60},
		{CorpusID: 4, Coverage: 0.12},
		{CorpusID: 5, Coverage: 0.02},
	}
	return cands, matches
}

func TestApplyCandidateGateKeepsEitherSignal(t *testing.T) {
	cands, matches := gateFixture()

	retained, kept := applyCandidateGate(config.GateCandidates, 0.5, cands, matches)
	if len(retained) != len(kept) {
		t.Fatalf("retained candidates and matches diverged: %d vs %d", len(retained), len(kept))
	}

	// 1 and 2 clear on approx, 3 clears on coverage alone, 4 and 5 on neither.
	wantIDs := []int64{1, 2, 3}
	if len(retained) != len(wantIDs) {
		t.Fatalf("expected %d retained, got %d", len(wantIDs), len(retained))
	}
	for i, id := range wantIDs {
		if retained[i].CorpusID != id || kept[i].CorpusID != id {
			t.Errorf("position %d: expected corpus %d, got candidate %d / match %d",
				i, id, retained[i].CorpusID, kept[i].CorpusID)
		}
	}
}

func TestApplyCandidateGateInactiveStages(t *testing.T) {
	cands, matches := gateFixture()

	for _, gate := range []config.ThresholdGate{config.GateMatches, ""} {
		retained, kept := applyCandidateGate(gate, 0.99, cands, matches)
		if len(retained) != len(cands) || len(kept) != len(matches) {
			t.Errorf("gate %q: expected passthrough, got %d/%d", gate, len(retained), len(kept))
		}
	}
}

// Raising the threshold must never retain more candidates.
func TestApplyCandidateGateMonotonicInThreshold(t *testing.T) {
	cands, matches := gateFixture()

	for _, gate := range []config.ThresholdGate{config.GateCandidates, config.GateBoth} {
		prev := len(cands) + 1
		for _, threshold := range []float64{0.0, 0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
			retained, _ := applyCandidateGate(gate, threshold, cands, matches)
			if len(retained) > prev {
				t.Fatalf("gate %q: threshold %.2f retained %d, more than %d at a lower threshold",
					gate, threshold, len(retained), prev)
			}
			prev = len(retained)
		}
	}
}

func TestSpanPassesGate(t *testing.T) {
	low := SpanPair{Score: 0.2}
	high := SpanPair{Score: 0.8}

	if spanPassesGate(config.GateMatches, 0.5, low) {
		t.Error("low span should be dropped when the gate covers matches")
	}
	if !spanPassesGate(config.GateMatches, 0.5, high) {
		t.Error("high span should pass when the gate covers matches")
	}
	if !spanPassesGate(config.GateBoth, 0.5, high) {
		t.Error("high span should pass under both-stage gating")
	}
	if !spanPassesGate(config.GateCandidates, 0.5, low) {
		t.Error("candidate-stage gating must not drop spans")
	}
}
