package models

import "time"

const (
	CheckStatusQueued     = "queued"
	CheckStatusProcessing = "processing"
	CheckStatusDone       = "done"
	CheckStatusFailed     = "failed"
	CheckStatusCancelled  = "cancelled"
)

// Check is one run of the pipeline for one document under one params
// snapshot. ParamsID is fixed at creation and never changes.
type Check struct {
	ID          int64      `bson:"id_check" json:"id_check"`
	RequestedBy int64      `bson:"requested_by" json:"requested_by"`
	DocID       int64      `bson:"doc_id" json:"doc_id"`
	ParamsID    int64      `bson:"params_id" json:"params_id"`
	Status      string     `bson:"status" json:"status"`
	MaxCand     int        `bson:"max_candidates" json:"-"`
	QueuedAt    time.Time  `bson:"queued_at" json:"queued_at"`
	StartedAt   *time.Time `bson:"started_at" json:"started_at"`
	FinishedAt  *time.Time `bson:"finished_at" json:"finished_at"`
}

// CheckResult is the single result row of a completed check. Similarity is
// the percentage-scale aggregate the dashboard displays.
type CheckResult struct {
	ID          int64     `bson:"id_result" json:"id_result"`
	CheckID     int64     `bson:"check_id" json:"check_id"`
	Similarity  float64   `bson:"similarity" json:"similarity"`
	ReportPath  *string   `bson:"report_path" json:"report_path"`
	SummaryJSON string    `bson:"summary_json" json:"summary_json"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// CheckMatch is one merged span pair against a corpus source.
type CheckMatch struct {
	ID           int64   `bson:"id_match" json:"id_match"`
	ResultID     int64   `bson:"result_id" json:"result_id"`
	SourceType   string  `bson:"source_type" json:"source_type"`
	SourceID     int64   `bson:"source_id" json:"source_id"`
	DocSpanStart int     `bson:"doc_span_start" json:"doc_span_start"`
	DocSpanEnd   int     `bson:"doc_span_end" json:"doc_span_end"`
	SrcSpanStart int     `bson:"src_span_start" json:"src_span_start"`
	SrcSpanEnd   int     `bson:"src_span_end" json:"src_span_end"`
	MatchScore   float64 `bson:"match_score" json:"match_score"`
	SnippetHash  string  `bson:"snippet_hash" json:"snippet_hash"`
	CorpusTitle  string  `bson:"corpus_title,omitempty" json:"corpus_title,omitempty"`
}

// SummaryParams echoes the params snapshot inside summary_json.
type SummaryParams struct {
	IDParams  int64   `json:"id_params"`
	K         int     `json:"k"`
	W         int     `json:"w"`
	Base      int     `json:"base"`
	Threshold float64 `json:"threshold"`
}

// SummaryCandidate is one ranked candidate inside summary_json.
type SummaryCandidate struct {
	IDCorpus int64   `json:"id_corpus"`
	Title    string  `json:"title"`
	Approx   float64 `json:"approx"`
}

// CheckSummary is the decoded form of CheckResult.SummaryJSON.
type CheckSummary struct {
	Params         SummaryParams      `json:"params"`
	Candidates     []SummaryCandidate `json:"candidates"`
	BestSimilarity float64            `json:"best_similarity"`
}

// CreateCheckRequest is the POST /api/checks body.
type CreateCheckRequest struct {
	DocID         int64 `json:"doc_id" binding:"required"`
	MaxCandidates int   `json:"max_candidates"`
}

// CreateCheckResponse matches the contract the dashboard expects once the
// pipeline finishes.
type CreateCheckResponse struct {
	OK              bool    `json:"ok"`
	CheckID         int64   `json:"check_id"`
	ResultID        int64   `json:"result_id"`
	Similarity      float64 `json:"similarity"`
	Threshold       float64 `json:"threshold"`
	CandidatesCount int     `json:"candidates_count"`
	MatchesInserted int     `json:"matches_inserted"`
}

// CheckListRow is the flattened list projection joining check, document and
// result.
type CheckListRow struct {
	IDCheck    int64      `json:"id_check"`
	Status     string     `json:"status"`
	QueuedAt   time.Time  `json:"queued_at"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	IDDoc      int64      `json:"id_doc"`
	DocTitle   string     `json:"doc_title"`
	IDResult   *int64     `json:"id_result"`
	Similarity *float64   `json:"similarity"`
}

// Step values mirrored into Redis status keys while a check progresses.
type Step string

const (
	StepQueued     Step = "queued"
	StepProcessing Step = "processing"
	StepDone       Step = "done"
	StepFailed     Step = "failed"
	StepCancelled  Step = "cancelled"
)
