package stream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseExtractionEventDone(t *testing.T) {
	event, err := ParseExtractionEvent(&StreamMessage{
		ID: "1-0",
		Fields: map[string]string{
			"doc_id": "42",
			"status": "done",
			"text":   "isi dokumen hasil ekstraksi",
		},
	})
	require.NoError(t, err)
	require.Equal(t, int64(42), event.DocID)
	require.Equal(t, "done", event.Status)
	require.Equal(t, "isi dokumen hasil ekstraksi", event.Text)
}

func TestParseExtractionEventFailed(t *testing.T) {
	event, err := ParseExtractionEvent(&StreamMessage{
		ID: "2-0",
		Fields: map[string]string{
			"doc_id": "7",
			"status": "failed",
			"error":  "unsupported encoding",
		},
	})
	require.NoError(t, err)
	require.Equal(t, "failed", event.Status)
	require.Equal(t, "unsupported encoding", event.Error)
}

func TestParseExtractionEventRejectsBadMessages(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]string
	}{
		{"missing doc_id", map[string]string{"status": "done", "text": "x"}},
		{"non-numeric doc_id", map[string]string{"doc_id": "abc", "status": "done", "text": "x"}},
		{"unknown status", map[string]string{"doc_id": "1", "status": "pending"}},
		{"done without text", map[string]string{"doc_id": "1", "status": "done"}},
	}
	for _, tc := range cases {
		_, err := ParseExtractionEvent(&StreamMessage{ID: "3-0", Fields: tc.fields})
		require.Error(t, err, tc.name)
	}
}
