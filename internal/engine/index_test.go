package engine

import (
	"fmt"
	"testing"

	"github.com/arkandaru/simdoc/internal/models"
)

func testParams() *models.Params {
	return &models.Params{ID: 1, K: 3, W: 4, Base: 257, Threshold: 0.35}
}

func fingerprintFor(params *models.Params, text string) (*Fingerprint, string) {
	norm := NormalizeText(text)
	fp := &Fingerprint{
		ParamsID: params.ID,
		K:        params.K,
		Shingles: Winnow(ShingleText(norm, params.K, params.Base), params.W),
	}
	return fp, norm
}

func TestSelectCandidatesRanking(t *testing.T) {
	params := testParams()
	query := "metode penelitian kualitatif pada studi kasus pembelajaran daring"

	items := []*models.CorpusItem{
		{ID: 1, Title: "identical", IsActive: 1, Text: query},
		{ID: 2, Title: "unrelated", IsActive: 1, Text: "zyxw wxyz vwxq qxwv zzxx qqvv wwyy"},
		{ID: 3, Title: "partial", IsActive: 1, Text: "metode penelitian kualitatif pada studi eksperimen laboratorium"},
	}
	snap := BuildIndex(params, items, 1)

	fp, _ := fingerprintFor(params, query)
	candidates, err := snap.SelectCandidates(fp, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) == 0 {
		t.Fatalf("expected candidates")
	}
	if candidates[0].CorpusID != 1 {
		t.Fatalf("identical corpus item should rank first, got %d", candidates[0].CorpusID)
	}
	if candidates[0].Approx != 1.0 {
		t.Fatalf("identical corpus item should have approx 1.0, got %f", candidates[0].Approx)
	}
	for _, c := range candidates {
		if c.CorpusID == 2 {
			t.Fatalf("unrelated corpus item should share no hashes")
		}
	}
}

func TestSelectCandidatesTieBreakByID(t *testing.T) {
	params := testParams()
	text := "dua dokumen korpus dengan isi yang persis sama untuk menguji urutan"

	items := []*models.CorpusItem{
		{ID: 9, Title: "b", IsActive: 1, Text: text},
		{ID: 4, Title: "a", IsActive: 1, Text: text},
	}
	snap := BuildIndex(params, items, 1)

	fp, _ := fingerprintFor(params, text)
	candidates, err := snap.SelectCandidates(fp, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].CorpusID != 4 || candidates[1].CorpusID != 9 {
		t.Fatalf("equal approx must order by corpus id ascending: %d, %d", candidates[0].CorpusID, candidates[1].CorpusID)
	}
}

func TestSelectCandidatesCap(t *testing.T) {
	params := testParams()
	text := "satu kalimat yang diindeks berulang kali untuk menguji pemotongan kandidat"

	var items []*models.CorpusItem
	for i := int64(1); i <= 60; i++ {
		items = append(items, &models.CorpusItem{ID: i, Title: fmt.Sprintf("copy-%d", i), IsActive: 1, Text: text})
	}
	snap := BuildIndex(params, items, 1)

	fp, _ := fingerprintFor(params, text)

	candidates, err := snap.SelectCandidates(fp, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != MaxCandidatesHard {
		t.Fatalf("expected hard cap %d, got %d", MaxCandidatesHard, len(candidates))
	}

	candidates, err = snap.SelectCandidates(fp, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 5 {
		t.Fatalf("expected requested cap 5, got %d", len(candidates))
	}
}

func TestBuildIndexSkipsInactive(t *testing.T) {
	params := testParams()
	text := "dokumen korpus nonaktif tidak boleh muncul sebagai kandidat"

	snap := BuildIndex(params, []*models.CorpusItem{
		{ID: 1, Title: "inactive", IsActive: 0, Text: text},
	}, 1)

	if snap.Size() != 0 {
		t.Fatalf("inactive items must not be indexed, size %d", snap.Size())
	}

	fp, _ := fingerprintFor(params, text)
	candidates, err := snap.SelectCandidates(fp, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("empty index must yield no candidates, got %d", len(candidates))
	}
}

func TestSelectCandidatesParamsMismatch(t *testing.T) {
	params := testParams()
	snap := BuildIndex(params, nil, 1)

	stale := &Fingerprint{ParamsID: 99, K: params.K}
	if _, err := snap.SelectCandidates(stale, 10); err == nil {
		t.Fatalf("expected error for mismatched params version")
	}
}
