package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/arkandaru/simdoc/internal/models"
)

// fakeSnapshotSource serves a canned current snapshot and swaps in the next
// one on Rebuild, mimicking an index that lags a params activation.
type fakeSnapshotSource struct {
	current  *IndexSnapshot
	rebuilt  *IndexSnapshot
	err      error
	rebuilds int
}

func (f *fakeSnapshotSource) Current() *IndexSnapshot { return f.current }

func (f *fakeSnapshotSource) Rebuild(ctx context.Context) (*IndexSnapshot, error) {
	f.rebuilds++
	if f.err != nil {
		return nil, f.err
	}
	f.current = f.rebuilt
	return f.rebuilt, nil
}

func snapshotWithParams(id int64) *IndexSnapshot {
	return BuildIndex(&models.Params{ID: id, K: 3, W: 4, Base: 257, Threshold: 0.35}, nil, uint64(id))
}

func TestResolveSnapshotCurrentMatches(t *testing.T) {
	src := &fakeSnapshotSource{current: snapshotWithParams(1)}

	snap, err := resolveSnapshot(context.Background(), src, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Params.ID != 1 {
		t.Fatalf("expected params 1, got %d", snap.Params.ID)
	}
	if src.rebuilds != 0 {
		t.Errorf("expected no rebuild, got %d", src.rebuilds)
	}
}

// A check created right after a params activation can run before the async
// rebuild publishes the new snapshot. The resolver must rebuild and proceed
// instead of failing the check.
func TestResolveSnapshotRebuildsWhenLagging(t *testing.T) {
	src := &fakeSnapshotSource{
		current: snapshotWithParams(1),
		rebuilt: snapshotWithParams(2),
	}

	snap, err := resolveSnapshot(context.Background(), src, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Params.ID != 2 {
		t.Fatalf("expected params 2 after rebuild, got %d", snap.Params.ID)
	}
	if src.rebuilds != 1 {
		t.Errorf("expected exactly one rebuild, got %d", src.rebuilds)
	}
}

func TestResolveSnapshotFailsWhenParamsInactive(t *testing.T) {
	src := &fakeSnapshotSource{
		current: snapshotWithParams(3),
		rebuilt: snapshotWithParams(3),
	}

	_, err := resolveSnapshot(context.Background(), src, 2)
	if err == nil {
		t.Fatal("expected an error for superseded params")
	}
	if !strings.Contains(err.Error(), "no longer active") {
		t.Errorf("unexpected error message: %v", err)
	}
	if src.rebuilds != 1 {
		t.Errorf("expected one rebuild before failing, got %d", src.rebuilds)
	}
}

func TestResolveSnapshotNoActiveParams(t *testing.T) {
	src := &fakeSnapshotSource{}

	_, err := resolveSnapshot(context.Background(), src, 1)
	if err == nil {
		t.Fatal("expected an error when no params are active")
	}
	if src.rebuilds != 1 {
		t.Errorf("expected one rebuild attempt, got %d", src.rebuilds)
	}
}

func TestResolveSnapshotPropagatesRebuildError(t *testing.T) {
	src := &fakeSnapshotSource{err: fmt.Errorf("mongo down")}

	_, err := resolveSnapshot(context.Background(), src, 1)
	if err == nil || !strings.Contains(err.Error(), "mongo down") {
		t.Fatalf("expected rebuild error, got %v", err)
	}
}
