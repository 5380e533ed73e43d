package checkpoint

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/agenticpal/agenticpal"
)

func suspendedTurn(threadID string) *agenticpal.TurnState {
	ts := agenticpal.NewTurnState(threadID, "delete my 3pm meeting", nil)
	ts.Suspended = true
	return ts
}

func TestMemory_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Minute)

	if err := store.Put(ctx, "th-1", suspendedTurn("th-1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := store.Get(ctx, "th-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.UserMessage != "delete my 3pm meeting" {
		t.Errorf("wrong state returned: %+v", got)
	}

	if err := store.Delete(ctx, "th-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "th-1"); !agenticpal.IsNoPendingTurn(err) {
		t.Errorf("expected NO_PENDING_TURN after delete, got %v", err)
	}
}

func TestMemory_MissingThread(t *testing.T) {
	store := NewMemory(time.Minute)
	if _, err := store.Get(context.Background(), "nope"); !agenticpal.IsNoPendingTurn(err) {
		t.Errorf("expected NO_PENDING_TURN, got %v", err)
	}
}

func TestMemory_ExpiredEntryIsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(time.Nanosecond)

	if err := store.Put(ctx, "th-1", suspendedTurn("th-1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := store.Get(ctx, "th-1"); !agenticpal.IsNoPendingTurn(err) {
		t.Errorf("expired checkpoint should count as absent, got %v", err)
	}
}

func TestMemory_DeleteAbsentIsNoop(t *testing.T) {
	if err := NewMemory(time.Minute).Delete(context.Background(), "nope"); err != nil {
		t.Errorf("deleting an absent checkpoint should succeed, got %v", err)
	}
}

func TestFile_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "checkpoints.json")

	first := NewFile(time.Minute, path)
	if err := first.Put(ctx, "th-1", suspendedTurn("th-1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// A fresh instance over the same file sees the suspended turn.
	second := NewFile(time.Minute, path)
	got, err := second.Get(ctx, "th-1")
	if err != nil {
		t.Fatalf("Get after reload failed: %v", err)
	}
	if got.ThreadID != "th-1" || !got.Suspended {
		t.Errorf("reloaded state mismatch: %+v", got)
	}

	if err := second.Delete(ctx, "th-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	third := NewFile(time.Minute, path)
	if _, err := third.Get(ctx, "th-1"); !agenticpal.IsNoPendingTurn(err) {
		t.Errorf("delete should persist across restarts, got %v", err)
	}
}

func newTestRedis(t *testing.T) *Redis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, time.Minute)
}

func TestRedis_PutGetRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newTestRedis(t)

	state := suspendedTurn("th-9")
	state.UserConfirmation = ""
	if err := store.Put(ctx, "th-9", state); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "th-9")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ThreadID != "th-9" || got.UserMessage != state.UserMessage || !got.Suspended {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestRedis_MissingThread(t *testing.T) {
	store := newTestRedis(t)
	if _, err := store.Get(context.Background(), "nope"); !agenticpal.IsNoPendingTurn(err) {
		t.Errorf("expected NO_PENDING_TURN, got %v", err)
	}
}

func TestRedis_Delete(t *testing.T) {
	ctx := context.Background()
	store := newTestRedis(t)

	if err := store.Put(ctx, "th-1", suspendedTurn("th-1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Delete(ctx, "th-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "th-1"); !agenticpal.IsNoPendingTurn(err) {
		t.Errorf("expected NO_PENDING_TURN after delete, got %v", err)
	}
	if err := store.Delete(ctx, "th-1"); err != nil {
		t.Errorf("deleting an absent key should be a no-op, got %v", err)
	}
}
