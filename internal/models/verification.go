package models

import (
	"fmt"
	"time"
)

const (
	VerifWajar       = "wajar"
	VerifPerluRevisi = "perlu_revisi"
	VerifPlagiarisme = "plagiarisme"
)

// VerificationNote is one reviewer verdict for a result. Notes are
// append-only; the current verdict is the latest by CreatedAt.
type VerificationNote struct {
	ID         int64     `bson:"id_note" json:"id_note"`
	ResultID   int64     `bson:"result_id" json:"result_id"`
	VerifierID int64     `bson:"verifier_id" json:"verifier_id"`
	Status     string    `bson:"status" json:"status"`
	NoteText   string    `bson:"note_text" json:"note_text"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

// UpsertNoteRequest is the POST /api/verification/:result_id body.
type UpsertNoteRequest struct {
	Status   string `json:"status" binding:"required"`
	NoteText string `json:"note_text"`
}

// Validate enforces the workflow preconditions: a known status, and a
// justification for any verdict other than wajar.
func (r *UpsertNoteRequest) Validate() error {
	switch r.Status {
	case VerifWajar, VerifPerluRevisi, VerifPlagiarisme:
	default:
		return fmt.Errorf("unknown verification status: %s", r.Status)
	}
	if r.Status != VerifWajar && r.NoteText == "" {
		return fmt.Errorf("note_text is required for status %s", r.Status)
	}
	return nil
}

// VerificationResultRow is the reviewer inbox projection: a result joined
// with its requester, document and latest note (nil fields when pending).
type VerificationResultRow struct {
	IDResult        int64      `json:"id_result"`
	Similarity      float64    `json:"similarity"`
	ResultCreatedAt time.Time  `json:"result_created_at"`
	IDCheck         int64      `json:"id_check"`
	DocID           int64      `json:"doc_id"`
	RequestedBy     int64      `json:"requested_by"`
	RequesterName   string     `json:"requester_name"`
	RequesterEmail  string     `json:"requester_email"`
	DocTitle        string     `json:"doc_title"`
	FinishedAt      *time.Time `json:"finished_at"`
	IDNote          *int64     `json:"id_note"`
	Status          *string    `json:"verification_status"`
	NoteText        *string    `json:"note_text"`
	NoteCreatedAt   *time.Time `json:"note_created_at"`
	VerifierName    *string    `json:"verifier_name"`
	VerifierNIDN    *string    `json:"verifier_nidn"`
}

// VerificationListFilter narrows the reviewer inbox query.
type VerificationListFilter struct {
	Limit         int
	Offset        int
	MinSimilarity *float64
	Status        string
	OnlyPending   bool
	RequestedBy   *int64
}
