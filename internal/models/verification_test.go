package models

import "testing"

func TestUpsertNoteRequestValidate(t *testing.T) {
	ok := UpsertNoteRequest{Status: VerifWajar}
	if err := ok.Validate(); err != nil {
		t.Fatalf("wajar without note should pass: %v", err)
	}

	withNote := UpsertNoteRequest{Status: VerifPlagiarisme, NoteText: "salinan bab 2 hampir utuh"}
	if err := withNote.Validate(); err != nil {
		t.Fatalf("plagiarisme with note should pass: %v", err)
	}

	missing := UpsertNoteRequest{Status: VerifPerluRevisi}
	if err := missing.Validate(); err == nil {
		t.Fatalf("perlu_revisi without note must be rejected")
	}
	missing.Status = VerifPlagiarisme
	if err := missing.Validate(); err == nil {
		t.Fatalf("plagiarisme without note must be rejected")
	}

	unknown := UpsertNoteRequest{Status: "ragu", NoteText: "x"}
	if err := unknown.Validate(); err == nil {
		t.Fatalf("unknown status must be rejected")
	}
}
