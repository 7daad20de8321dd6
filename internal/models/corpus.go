package models

import "time"

// CorpusItem is a reference document. Only active items participate as
// candidates; toggling activity invalidates the corpus index snapshot.
type CorpusItem struct {
	ID        int64     `bson:"id_corpus" json:"id_corpus"`
	Title     string    `bson:"title" json:"title"`
	SourceRef string    `bson:"source_ref" json:"source_ref"`
	IsActive  int       `bson:"is_active" json:"is_active"`
	Text      string    `bson:"text" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CorpusPatch is the PATCH /api/corpus/:id body.
type CorpusPatch struct {
	Title    *string `json:"title"`
	IsActive *int    `json:"is_active"`
}
