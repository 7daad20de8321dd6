package engine

import "testing"

func mkShingles(hashes ...uint64) []Shingle {
	out := make([]Shingle, len(hashes))
	for i, h := range hashes {
		out[i] = Shingle{Pos: i, Hash: h}
	}
	return out
}

// Every window of w consecutive shingles must contain at least one selected
// position.
func TestWinnowWindowCoverage(t *testing.T) {
	shingles := ShingleText(NormalizeText("belajar algoritma winnowing untuk deteksi kemiripan dokumen"), 3, 257)
	w := 4

	selected := Winnow(shingles, w)
	if len(selected) == 0 {
		t.Fatalf("expected selections")
	}

	picked := make(map[int]bool)
	for _, s := range selected {
		picked[s.Pos] = true
	}

	for start := 0; start+w <= len(shingles); start++ {
		covered := false
		for i := start; i < start+w; i++ {
			if picked[shingles[i].Pos] {
				covered = true
				break
			}
		}
		if !covered {
			t.Fatalf("window starting at %d has no selected shingle", start)
		}
	}
}

func TestWinnowRightmostTieBreak(t *testing.T) {
	// All hashes equal: each window must pick its rightmost element.
	selected := Winnow(mkShingles(7, 7, 7, 7, 7), 3)

	want := []int{2, 3, 4}
	if len(selected) != len(want) {
		t.Fatalf("expected %d picks, got %d", len(want), len(selected))
	}
	for i, s := range selected {
		if s.Pos != want[i] {
			t.Fatalf("pick %d at position %d, want %d", i, s.Pos, want[i])
		}
	}
}

func TestWinnowNoAdjacentDuplicates(t *testing.T) {
	selected := Winnow(mkShingles(9, 1, 8, 7, 1, 6, 5, 2, 4), 3)

	for i := 1; i < len(selected); i++ {
		if selected[i].Pos <= selected[i-1].Pos {
			t.Fatalf("positions not strictly increasing: %d then %d", selected[i-1].Pos, selected[i].Pos)
		}
	}
}

func TestWinnowShorterThanWindow(t *testing.T) {
	selected := Winnow(mkShingles(5, 3, 3), 10)

	if len(selected) != 1 {
		t.Fatalf("expected a single pick, got %d", len(selected))
	}
	// Minimum 3 occurs twice; the rightmost occurrence wins.
	if selected[0].Pos != 2 {
		t.Fatalf("expected position 2, got %d", selected[0].Pos)
	}
}

func TestWinnowEmptyAndInvalid(t *testing.T) {
	if got := Winnow(nil, 4); got != nil {
		t.Fatalf("nil input should yield nil")
	}
	if got := Winnow(mkShingles(1, 2, 3), 0); got != nil {
		t.Fatalf("non-positive window should yield nil")
	}
}

// The selection is a subsequence of the input, so no shingle count can grow.
func TestWinnowBoundedByInput(t *testing.T) {
	shingles := ShingleText("sistem informasi akademik dan basis data relasional", 4, 31)
	selected := Winnow(shingles, 5)

	if len(selected) > len(shingles) {
		t.Fatalf("selected %d from %d shingles", len(selected), len(shingles))
	}
	idx := make(map[int]uint64)
	for _, s := range shingles {
		idx[s.Pos] = s.Hash
	}
	for _, s := range selected {
		if idx[s.Pos] != s.Hash {
			t.Fatalf("selected shingle %+v not present in input", s)
		}
	}
}

// Pins the selection density on a known phrase. With a small window the
// minimum shifts on most slides, so the pick count sits well above one per
// window stride; only the at-least-one-per-window guarantee holds, not a
// one-per-stride ceiling.
func TestWinnowDensityOnKnownPhrase(t *testing.T) {
	shingles := ShingleText("the quick brown fox", 3, 101)
	if len(shingles) != 17 {
		t.Fatalf("expected 17 shingles, got %d", len(shingles))
	}

	selected := Winnow(shingles, 2)
	if len(selected) != 11 {
		t.Fatalf("expected 11 selected shingles, got %d", len(selected))
	}

	wantPos := []int{1, 2, 3, 4, 6, 7, 9, 10, 12, 14, 15}
	for i, s := range selected {
		if s.Pos != wantPos[i] {
			t.Fatalf("selection %d: expected position %d, got %d", i, wantPos[i], s.Pos)
		}
	}
}
