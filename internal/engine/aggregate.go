package engine

// Aggregator turns per-candidate match results into the single check-level
// similarity in [0,1]. The exact rule is a deployment decision, so it is
// pluggable; the default is span coverage.
type Aggregator interface {
	Aggregate(docLen int, matches []CandidateMatch) float64
}

// CoverageAggregator reports the fraction of the document covered by the
// union of merged match spans across all retained candidates. This is the
// documented default.
type CoverageAggregator struct{}

func (CoverageAggregator) Aggregate(docLen int, matches []CandidateMatch) float64 {
	var all []SpanPair
	for _, m := range matches {
		all = append(all, m.Spans...)
	}
	return coveredFraction(all, docLen)
}

// BestAggregator reports the best single candidate's coverage.
type BestAggregator struct{}

func (BestAggregator) Aggregate(docLen int, matches []CandidateMatch) float64 {
	best := 0.0
	for _, m := range matches {
		if m.Coverage > best {
			best = m.Coverage
		}
	}
	return best
}

// NewAggregator maps a config name to an Aggregator, defaulting to coverage.
func NewAggregator(name string) Aggregator {
	if name == "best" {
		return BestAggregator{}
	}
	return CoverageAggregator{}
}
