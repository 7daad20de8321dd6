package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/arkandaru/simdoc/internal/models"
)

// The startup sweep must only touch processing checks that started before
// the cutoff, and must move them to a terminal failed state so they never
// look in-flight again.
func TestStaleProcessingSweepDocuments(t *testing.T) {
	cutoff := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	filter := staleProcessingFilter(cutoff)
	if got := filter["status"]; got != models.CheckStatusProcessing {
		t.Errorf("expected status filter %q, got %v", models.CheckStatusProcessing, got)
	}
	started, ok := filter["started_at"].(bson.M)
	if !ok {
		t.Fatalf("expected started_at range filter, got %T", filter["started_at"])
	}
	if got := started["$lt"]; got != cutoff {
		t.Errorf("expected started_at < %v, got %v", cutoff, got)
	}

	now := cutoff.Add(time.Minute)
	update := staleProcessingUpdate(now)
	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected $set update, got %v", update)
	}
	if got := set["status"]; got != models.CheckStatusFailed {
		t.Errorf("expected terminal status %q, got %v", models.CheckStatusFailed, got)
	}
	if got := set["finished_at"]; got != now {
		t.Errorf("expected finished_at %v, got %v", now, got)
	}
}
