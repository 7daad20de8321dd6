package engine

import "github.com/arkandaru/simdoc/internal/config"

// applyCandidateGate drops candidate/match pairs below the threshold when the
// gate covers the candidate stage. A candidate survives when either its
// approximate score or its aligned coverage clears the threshold, so a short
// but heavily copied passage is not discarded on the cheap estimate alone.
// cands and matches are parallel slices.
func applyCandidateGate(gate config.ThresholdGate, threshold float64, cands []Candidate, matches []CandidateMatch) ([]Candidate, []CandidateMatch) {
	if gate != config.GateCandidates && gate != config.GateBoth {
		return cands, matches
	}

	var (
		retained []Candidate
		kept     []CandidateMatch
	)
	for i, cand := range cands {
		if cand.Approx < threshold && matches[i].Coverage < threshold {
			continue
		}
		retained = append(retained, cand)
		kept = append(kept, matches[i])
	}
	return retained, kept
}

// spanPassesGate reports whether an aligned span survives the threshold when
// the gate covers the match stage.
func spanPassesGate(gate config.ThresholdGate, threshold float64, span SpanPair) bool {
	if gate != config.GateMatches && gate != config.GateBoth {
		return true
	}
	return span.Score >= threshold
}
