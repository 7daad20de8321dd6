package engine

import "testing"

func TestCoverageAggregatorUnion(t *testing.T) {
	matches := []CandidateMatch{
		{CorpusID: 1, Coverage: 0.1, Spans: []SpanPair{{DocStart: 0, DocEnd: 10}}},
		{CorpusID: 2, Coverage: 0.1, Spans: []SpanPair{{DocStart: 5, DocEnd: 15}}},
	}

	got := CoverageAggregator{}.Aggregate(100, matches)
	if got != 0.15 {
		t.Fatalf("expected union 15/100 across candidates, got %f", got)
	}
}

func TestBestAggregator(t *testing.T) {
	matches := []CandidateMatch{
		{CorpusID: 1, Coverage: 0.4},
		{CorpusID: 2, Coverage: 0.7},
		{CorpusID: 3, Coverage: 0.2},
	}

	got := BestAggregator{}.Aggregate(100, matches)
	if got != 0.7 {
		t.Fatalf("expected best candidate coverage 0.7, got %f", got)
	}
	if (BestAggregator{}).Aggregate(100, nil) != 0 {
		t.Fatalf("no matches means zero similarity")
	}
}

func TestNewAggregator(t *testing.T) {
	if _, ok := NewAggregator("best").(BestAggregator); !ok {
		t.Fatalf("best must map to BestAggregator")
	}
	if _, ok := NewAggregator("coverage").(CoverageAggregator); !ok {
		t.Fatalf("coverage must map to CoverageAggregator")
	}
	if _, ok := NewAggregator("").(CoverageAggregator); !ok {
		t.Fatalf("unknown names must fall back to coverage")
	}
}
