package engine

import "testing"

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("  The   Quick\tBrown\n\nFox  ")
	if got != "the quick brown fox" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	if NormalizeText("") != "" {
		t.Fatalf("empty input should stay empty")
	}
	if NormalizeText(" \t\n ") != "" {
		t.Fatalf("whitespace-only input should normalize to empty")
	}
}

func TestShingleTextCount(t *testing.T) {
	text := "the quick brown fox"
	k := 3
	shingles := ShingleText(text, k, 257)

	want := len([]rune(text)) - k + 1
	if len(shingles) != want {
		t.Fatalf("expected %d shingles, got %d", want, len(shingles))
	}
	for i, s := range shingles {
		if s.Pos != i {
			t.Fatalf("shingle %d has position %d", i, s.Pos)
		}
	}
}

func TestShingleTextShortInput(t *testing.T) {
	if got := ShingleText("ab", 3, 257); got != nil {
		t.Fatalf("expected nil for text shorter than k, got %v", got)
	}
	if got := ShingleText("", 3, 257); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
}

// The rolling hash must agree with a direct polynomial evaluation of every
// window, wraparound included.
func TestShingleTextRollingMatchesDirect(t *testing.T) {
	text := "pemrograman terstruktur dan algoritma dasar"
	k, base := 5, 31
	runes := []rune(text)

	shingles := ShingleText(text, k, base)
	if len(shingles) != len(runes)-k+1 {
		t.Fatalf("unexpected shingle count %d", len(shingles))
	}

	for _, s := range shingles {
		var direct uint64
		for j := 0; j < k; j++ {
			direct = direct*uint64(base) + uint64(runes[s.Pos+j])
		}
		if s.Hash != direct {
			t.Fatalf("hash mismatch at pos %d: rolling %d direct %d", s.Pos, s.Hash, direct)
		}
	}
}

func TestShingleTextDeterministic(t *testing.T) {
	text := "identical input must always produce identical output"
	a := ShingleText(text, 4, 257)
	b := ShingleText(text, 4, 257)

	if len(a) != len(b) {
		t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("shingle %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestShingleTextEqualContentEqualHash(t *testing.T) {
	a := ShingleText("abcabc", 3, 257)
	if a[0].Hash != a[3].Hash {
		t.Fatalf("identical trigrams must hash identically: %d vs %d", a[0].Hash, a[3].Hash)
	}
	if a[0].Hash == a[1].Hash {
		t.Fatalf("distinct trigrams abc/bca collided in a trivial case")
	}
}
