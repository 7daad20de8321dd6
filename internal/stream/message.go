package stream

import (
	"fmt"
	"strconv"

	"github.com/arkandaru/simdoc/internal/models"
)

// StreamMessage is one raw entry read from the extraction stream.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseExtractionEvent decodes an extraction result published by the
// out-of-process extractor.
func ParseExtractionEvent(msg *StreamMessage) (*models.ExtractionEvent, error) {
	rawID, ok := msg.Fields["doc_id"]
	if !ok {
		return nil, fmt.Errorf("message %s missing doc_id", msg.ID)
	}

	docID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("message %s has invalid doc_id %q: %w", msg.ID, rawID, err)
	}

	status := msg.Fields["status"]
	switch status {
	case models.DocStatusDone, models.DocStatusFailed:
	default:
		return nil, fmt.Errorf("message %s has invalid status %q", msg.ID, status)
	}

	if status == models.DocStatusDone && msg.Fields["text"] == "" {
		return nil, fmt.Errorf("message %s reports done without text", msg.ID)
	}

	return &models.ExtractionEvent{
		DocID:  docID,
		Status: status,
		Text:   msg.Fields["text"],
		Error:  msg.Fields["error"],
	}, nil
}
