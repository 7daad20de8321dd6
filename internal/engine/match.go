package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// SpanPair is one matched region: a half-open rune span in the checked
// document and the corresponding span in the corpus source.
type SpanPair struct {
	DocStart int
	DocEnd   int
	SrcStart int
	SrcEnd   int
	Score    float64
}

// CandidateMatch is the exact-match outcome against one corpus candidate.
type CandidateMatch struct {
	CorpusID int64
	Title    string
	Spans    []SpanPair
	Coverage float64
}

// MatchCandidate aligns the shared fingerprint hashes of the document and one
// corpus candidate back to text spans, expands each run outward while the raw
// texts keep agreeing, merges overlapping runs, and scores every span by the
// fraction of the document it covers. Both texts must be normalized and both
// fingerprints must come from the same params version (the caller checks).
func MatchCandidate(docFP *Fingerprint, docText string, corpusID int64, title string, srcFP *Fingerprint, srcText string) CandidateMatch {
	match := CandidateMatch{CorpusID: corpusID, Title: title}

	docRunes := []rune(docText)
	srcRunes := []rune(srcText)
	if len(docRunes) == 0 || len(srcRunes) == 0 {
		return match
	}

	srcByHash := make(map[uint64][]int)
	for _, s := range srcFP.Shingles {
		srcByHash[s.Hash] = append(srcByHash[s.Hash], s.Pos)
	}

	type pair struct{ doc, src int }
	var pairs []pair
	for _, s := range docFP.Shingles {
		for _, srcPos := range srcByHash[s.Hash] {
			pairs = append(pairs, pair{doc: s.Pos, src: srcPos})
		}
	}
	if len(pairs) == 0 {
		return match
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].doc != pairs[j].doc {
			return pairs[i].doc < pairs[j].doc
		}
		return pairs[i].src < pairs[j].src
	})

	k := docFP.K

	// Chain pairs into runs: a pair joins the current run when its spans
	// overlap or adjoin the run on both sides with the source advancing.
	var runs []SpanPair
	cur := SpanPair{DocStart: pairs[0].doc, DocEnd: pairs[0].doc + k, SrcStart: pairs[0].src, SrcEnd: pairs[0].src + k}
	for _, p := range pairs[1:] {
		if p.doc <= cur.DocEnd && p.src >= cur.SrcStart && p.src <= cur.SrcEnd {
			if p.doc+k > cur.DocEnd {
				cur.DocEnd = p.doc + k
			}
			if p.src+k > cur.SrcEnd {
				cur.SrcEnd = p.src + k
			}
			continue
		}
		runs = append(runs, cur)
		cur = SpanPair{DocStart: p.doc, DocEnd: p.doc + k, SrcStart: p.src, SrcEnd: p.src + k}
	}
	runs = append(runs, cur)

	// Expand each run outward while the underlying texts still agree, then
	// drop runs contained in another to avoid reporting span islands.
	for i := range runs {
		runs[i] = expandRun(runs[i], docRunes, srcRunes)
	}
	runs = dropContained(runs)

	for i := range runs {
		runs[i].Score = clamp01(float64(runs[i].DocEnd-runs[i].DocStart) / float64(len(docRunes)))
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Score != runs[j].Score {
			return runs[i].Score > runs[j].Score
		}
		if runs[i].DocStart != runs[j].DocStart {
			return runs[i].DocStart < runs[j].DocStart
		}
		return runs[i].SrcStart < runs[j].SrcStart
	})

	match.Spans = runs
	match.Coverage = coveredFraction(runs, len(docRunes))

	return match
}

func expandRun(r SpanPair, docRunes, srcRunes []rune) SpanPair {
	for r.DocStart > 0 && r.SrcStart > 0 && docRunes[r.DocStart-1] == srcRunes[r.SrcStart-1] {
		r.DocStart--
		r.SrcStart--
	}
	for r.DocEnd < len(docRunes) && r.SrcEnd < len(srcRunes) && docRunes[r.DocEnd] == srcRunes[r.SrcEnd] {
		r.DocEnd++
		r.SrcEnd++
	}
	return r
}

// dropContained removes runs whose doc and src spans both lie inside another
// run, including exact duplicates after expansion.
func dropContained(runs []SpanPair) []SpanPair {
	kept := make([]SpanPair, 0, len(runs))
	for i, r := range runs {
		contained := false
		for j, other := range runs {
			if i == j {
				continue
			}
			inside := other.DocStart <= r.DocStart && r.DocEnd <= other.DocEnd &&
				other.SrcStart <= r.SrcStart && r.SrcEnd <= other.SrcEnd
			if !inside {
				continue
			}
			strictly := other.DocEnd-other.DocStart > r.DocEnd-r.DocStart ||
				other.SrcEnd-other.SrcStart > r.SrcEnd-r.SrcStart
			if strictly || j < i {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, r)
		}
	}
	return kept
}

// coveredFraction computes the fraction of the document covered by the union
// of the doc-side spans.
func coveredFraction(spans []SpanPair, docLen int) float64 {
	if docLen == 0 || len(spans) == 0 {
		return 0
	}

	intervals := make([][2]int, 0, len(spans))
	for _, s := range spans {
		intervals = append(intervals, [2]int{s.DocStart, s.DocEnd})
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i][0] < intervals[j][0] })

	covered := 0
	curStart, curEnd := intervals[0][0], intervals[0][1]
	for _, iv := range intervals[1:] {
		if iv[0] <= curEnd {
			if iv[1] > curEnd {
				curEnd = iv[1]
			}
			continue
		}
		covered += curEnd - curStart
		curStart, curEnd = iv[0], iv[1]
	}
	covered += curEnd - curStart

	return clamp01(float64(covered) / float64(docLen))
}

// SnippetHash returns a stable hex digest of the matched document snippet.
func SnippetHash(docText string, start, end int) string {
	runes := []rune(docText)
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	sum := sha256.Sum256([]byte(string(runes[start:end])))
	return hex.EncodeToString(sum[:])
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
