package engine

import (
	"strings"
	"unicode"
)

// Shingle is one k-gram: its rune position in the normalized text and the
// rolling hash of the k runes starting there.
type Shingle struct {
	Pos  int
	Hash uint64
}

// NormalizeText applies the deterministic normalization used for both corpus
// and submitted documents: Unicode lowercasing, whitespace runs collapsed to
// single spaces, leading/trailing space trimmed.
func NormalizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteRune(' ')
		}
		inSpace = false
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// ShingleText slides a k-rune window over the normalized text and computes a
// rolling polynomial hash with the given base for each window. Arithmetic is
// uint64 with natural wraparound, so results are identical across platforms.
// Returns len(text)-k+1 shingles, or none when the text is shorter than k.
func ShingleText(text string, k, base int) []Shingle {
	runes := []rune(text)
	if k <= 0 || len(runes) < k {
		return nil
	}

	b := uint64(base)

	// base^(k-1), computed once for the roll-out term.
	pow := uint64(1)
	for i := 0; i < k-1; i++ {
		pow *= b
	}

	var h uint64
	for i := 0; i < k; i++ {
		h = h*b + uint64(runes[i])
	}

	shingles := make([]Shingle, 0, len(runes)-k+1)
	shingles = append(shingles, Shingle{Pos: 0, Hash: h})

	for i := 1; i+k <= len(runes); i++ {
		h = (h - uint64(runes[i-1])*pow) * b
		h += uint64(runes[i+k-1])
		shingles = append(shingles, Shingle{Pos: i, Hash: h})
	}

	return shingles
}
