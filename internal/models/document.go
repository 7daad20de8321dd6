package models

import "time"

const (
	DocStatusQueued     = "queued"
	DocStatusProcessing = "processing"
	DocStatusDone       = "done"
	DocStatusFailed     = "failed"
)

// Document represents a submitted document. Text extracted from uploads
// arrives via the extraction stream; text submissions carry it inline.
type Document struct {
	ID          int64     `bson:"id_doc" json:"id_doc"`
	OwnerUserID int64     `bson:"owner_user_id" json:"owner_user_id"`
	Title       string    `bson:"title" json:"title"`
	MimeType    string    `bson:"mime_type" json:"mime_type"`
	SizeBytes   int64     `bson:"size_bytes" json:"size_bytes"`
	Status      string    `bson:"status" json:"status"`
	PathRaw     *string   `bson:"path_raw,omitempty" json:"path_raw"`
	PathText    *string   `bson:"path_text,omitempty" json:"path_text"`
	Text        string    `bson:"text" json:"-"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// SubmitTextRequest is the POST /api/documents/text body.
type SubmitTextRequest struct {
	Title string `json:"title" binding:"required"`
	Text  string `json:"text" binding:"required"`
}
