package models

// ExtractionEvent is one message from the out-of-process text extractor,
// published onto the Redis stream after a raw upload is converted to text.
type ExtractionEvent struct {
	DocID  int64  `json:"doc_id"`
	Status string `json:"status"`
	Text   string `json:"text"`
	Error  string `json:"error"`
}
