package engine

// Winnow selects the fingerprint from a shingle sequence: the minimum hash of
// every window of w consecutive shingles, tie-broken toward the rightmost
// occurrence, without re-selecting the pick of the previous overlapping
// window. A sequence shorter than w is treated as a single window.
//
// Output is ordered by position and holds no duplicate positions: with the
// rightmost tie-break a selected index can never become the minimum again
// after a later index has been selected, so the adjacent-window guard is
// enough.
func Winnow(shingles []Shingle, w int) []Shingle {
	if len(shingles) == 0 || w <= 0 {
		return nil
	}

	if len(shingles) < w {
		return []Shingle{shingles[minIndex(shingles, 0, len(shingles))]}
	}

	selected := make([]Shingle, 0, (len(shingles)+w-1)/w)
	lastPicked := -1

	for start := 0; start+w <= len(shingles); start++ {
		idx := minIndex(shingles, start, start+w)
		if idx != lastPicked {
			selected = append(selected, shingles[idx])
			lastPicked = idx
		}
	}

	return selected
}

// minIndex returns the index of the minimum hash in [lo, hi), preferring the
// rightmost position on ties.
func minIndex(shingles []Shingle, lo, hi int) int {
	idx := lo
	for i := lo + 1; i < hi; i++ {
		if shingles[i].Hash <= shingles[idx].Hash {
			idx = i
		}
	}
	return idx
}

// Fingerprint is the winnowed hash set of one document under one params
// version. Fingerprints from different params versions are never comparable.
type Fingerprint struct {
	ParamsID int64
	K        int
	Shingles []Shingle
}

// HashSet returns the distinct hash values of the fingerprint.
func (f *Fingerprint) HashSet() map[uint64]struct{} {
	set := make(map[uint64]struct{}, len(f.Shingles))
	for _, s := range f.Shingles {
		set[s.Hash] = struct{}{}
	}
	return set
}
