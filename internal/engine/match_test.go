package engine

import "testing"

func TestMatchCandidateSelfSimilarity(t *testing.T) {
	params := testParams()
	text := NormalizeText("Sebuah dokumen yang dibandingkan dengan dirinya sendiri harus tertutup penuh.")

	fp, _ := fingerprintFor(params, text)
	match := MatchCandidate(fp, text, 1, "self", fp, text)

	if match.Coverage != 1.0 {
		t.Fatalf("self comparison must cover the whole document, got %f", match.Coverage)
	}
	if len(match.Spans) != 1 {
		t.Fatalf("self comparison should collapse to one span, got %d", len(match.Spans))
	}
	span := match.Spans[0]
	if span.DocStart != 0 || span.DocEnd != len([]rune(text)) {
		t.Fatalf("span does not cover the document: [%d,%d)", span.DocStart, span.DocEnd)
	}
	if span.Score != 1.0 {
		t.Fatalf("full-document span must score 1.0, got %f", span.Score)
	}
}

func TestMatchCandidateDisjointTexts(t *testing.T) {
	params := testParams()
	docText := NormalizeText("metode penelitian kualitatif pada studi kasus")
	srcText := NormalizeText("zyxw wxyz vwxq qxwv zzxx qqvv")

	docFP, _ := fingerprintFor(params, docText)
	srcFP, _ := fingerprintFor(params, srcText)

	match := MatchCandidate(docFP, docText, 2, "other", srcFP, srcText)
	if len(match.Spans) != 0 {
		t.Fatalf("disjoint texts must produce no spans, got %d", len(match.Spans))
	}
	if match.Coverage != 0 {
		t.Fatalf("disjoint texts must have zero coverage, got %f", match.Coverage)
	}
}

func TestMatchCandidatePartialOverlap(t *testing.T) {
	params := testParams()
	shared := "algoritma winnowing memilih sidik jari dokumen secara deterministik"
	docText := NormalizeText(shared + " dan bagian ini hanya milik dokumen uji")
	srcText := NormalizeText(shared + " zzxx qqvv wwyy zyxw wxyz vwxq qxwv")

	docFP, _ := fingerprintFor(params, docText)
	srcFP, _ := fingerprintFor(params, srcText)

	match := MatchCandidate(docFP, docText, 3, "partial", srcFP, srcText)
	if len(match.Spans) == 0 {
		t.Fatalf("expected spans over the shared prefix")
	}
	if match.Coverage <= 0 || match.Coverage >= 1 {
		t.Fatalf("partial overlap coverage must be in (0,1), got %f", match.Coverage)
	}
	if match.Spans[0].DocStart != 0 {
		t.Fatalf("best span should start at the shared prefix, got %d", match.Spans[0].DocStart)
	}
}

func TestMatchCandidateSpanOrdering(t *testing.T) {
	params := testParams()
	docText := NormalizeText("bagian pertama yang sama persis. teks penghubung dokumen uji. bagian kedua juga sama.")
	srcText := NormalizeText("bagian pertama yang sama persis. zzxx qqvv wwyy. bagian kedua juga sama.")

	docFP, _ := fingerprintFor(params, docText)
	srcFP, _ := fingerprintFor(params, srcText)

	match := MatchCandidate(docFP, docText, 4, "two-block", srcFP, srcText)
	for i := 1; i < len(match.Spans); i++ {
		if match.Spans[i].Score > match.Spans[i-1].Score {
			t.Fatalf("spans must be ordered by score descending")
		}
	}
	for _, s := range match.Spans {
		if s.DocEnd <= s.DocStart || s.SrcEnd <= s.SrcStart {
			t.Fatalf("degenerate span %+v", s)
		}
	}
}

// A longer shared region can never score lower than a shorter one.
func TestMatchCoverageMonotonicWithOverlap(t *testing.T) {
	params := testParams()
	short := "algoritma winnowing memilih sidik jari"
	long := short + " dokumen secara deterministik dan stabil"
	suffix := " bagian ini hanya milik dokumen uji dan cukup panjang"

	docText := NormalizeText(long + suffix)
	docFP, _ := fingerprintFor(params, docText)

	srcShort := NormalizeText(short + " zzxx qqvv wwyy zyxw wxyz vwxq")
	srcLong := NormalizeText(long + " zzxx qqvv wwyy zyxw wxyz vwxq")

	srcShortFP, _ := fingerprintFor(params, srcShort)
	srcLongFP, _ := fingerprintFor(params, srcLong)

	covShort := MatchCandidate(docFP, docText, 1, "short", srcShortFP, srcShort).Coverage
	covLong := MatchCandidate(docFP, docText, 2, "long", srcLongFP, srcLong).Coverage

	if covLong < covShort {
		t.Fatalf("coverage must not decrease with more overlap: short %f long %f", covShort, covLong)
	}
	if covLong <= 0 {
		t.Fatalf("expected positive coverage for the shared region")
	}
}

func TestCoveredFraction(t *testing.T) {
	spans := []SpanPair{
		{DocStart: 0, DocEnd: 10},
		{DocStart: 5, DocEnd: 15}, // overlaps the first
		{DocStart: 20, DocEnd: 30},
	}
	got := coveredFraction(spans, 100)
	if got != 0.25 {
		t.Fatalf("expected union 25/100, got %f", got)
	}

	if coveredFraction(nil, 100) != 0 {
		t.Fatalf("no spans means zero coverage")
	}
	if coveredFraction(spans, 0) != 0 {
		t.Fatalf("zero-length document means zero coverage")
	}
}

func TestSnippetHash(t *testing.T) {
	text := "dokumen untuk pengujian snippet"

	a := SnippetHash(text, 0, 7)
	b := SnippetHash(text, 0, 7)
	if a == "" || a != b {
		t.Fatalf("snippet hash must be stable and non-empty")
	}
	if SnippetHash(text, 0, 7) == SnippetHash(text, 8, 14) {
		t.Fatalf("different snippets should hash differently")
	}
	if SnippetHash(text, 5, 5) != "" {
		t.Fatalf("empty range must hash to empty string")
	}
	if SnippetHash(text, -3, 1000) == "" {
		t.Fatalf("out-of-range bounds should clamp, not fail")
	}
}
