package models

import "time"

// Policy is the single upload policy row enforced on document and corpus
// uploads. AllowedMime is a comma-separated list.
type Policy struct {
	ID          int64     `bson:"id_policy" json:"id_policy"`
	MaxFileSize int64     `bson:"max_file_size" json:"max_file_size"`
	AllowedMime string    `bson:"allowed_mime" json:"allowed_mime"`
	Notes       string    `bson:"notes" json:"notes"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// PolicyUpdate is the PUT /api/admin/policy body.
type PolicyUpdate struct {
	MaxFileSize *int64  `json:"max_file_size"`
	AllowedMime *string `json:"allowed_mime"`
	Notes       *string `json:"notes"`
}
