package progress

import (
	"context"
	"testing"
	"time"
)

func TestTrackerLifecycle(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store, "upload-1", "feed_a.xlsx", time.Hour)

	ctx := context.Background()
	tracker.Stage(ctx, "parsing", 20, "")

	state, found, err := store.Get(ctx, "upload-1")
	if err != nil || !found {
		t.Fatalf("expected progress state, found=%v err=%v", found, err)
	}
	if state.Stage != "parsing" || state.Percent != 20 || state.Done {
		t.Fatalf("unexpected progress state: %+v", state)
	}

	tracker.Complete(ctx, "completed", "done")
	state, found, err = store.Get(ctx, "upload-1")
	if err != nil || !found {
		t.Fatalf("expected completed state, found=%v err=%v", found, err)
	}
	if !state.Done || state.Percent != 100 {
		t.Fatalf("expected done state, got %+v", state)
	}
}

func TestTrackerFailRecordsError(t *testing.T) {
	store := NewMemoryStore()
	tracker := NewTracker(store, "upload-2", "feed_b.xlsx", time.Hour)

	ctx := context.Background()
	tracker.Fail(ctx, "merging", context.DeadlineExceeded)

	state, found, err := store.Get(ctx, "upload-2")
	if err != nil || !found {
		t.Fatalf("expected failed state, found=%v err=%v", found, err)
	}
	if !state.Done || state.Error == "" {
		t.Fatalf("expected error recorded, got %+v", state)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	if err := store.Put(ctx, "stale", State{UploadID: "stale"}, time.Millisecond); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, found, _ := store.Get(ctx, "stale"); found {
		t.Fatalf("expected expired entry to be invisible")
	}
	// 后续写入会顺带清理过期项
	if err := store.Put(ctx, "fresh", State{UploadID: "fresh"}, time.Hour); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	store.mu.RLock()
	_, stale := store.entries["stale"]
	store.mu.RUnlock()
	if stale {
		t.Fatalf("expected expired entry to be purged on write")
	}
}
