package internal

import (
	"context"
	"testing"
	"time"
)

func TestRegistry_RefreshSortsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	for _, r := range []ChatRecord{
		{ID: "old", Title: "old", CreatedAt: 1000, Messages: []Message{NewUserMessage("a", "")}},
		{ID: "new", Title: "new", CreatedAt: 3000, Messages: []Message{NewUserMessage("b", "")}},
		{ID: "mid", Title: "mid", CreatedAt: 2000, Messages: []Message{NewUserMessage("c", "")}},
	} {
		if err := store.Upsert(r); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	registry := NewRegistry(store, time.Minute)
	registry.Refresh()

	snapshot := registry.Snapshot()
	want := []string{"new", "mid", "old"}
	if len(snapshot) != len(want) {
		t.Fatalf("snapshot has %d records, want %d", len(snapshot), len(want))
	}
	for i, id := range want {
		if snapshot[i].ID != id {
			t.Errorf("snapshot[%d].ID = %s, want %s", i, snapshot[i].ID, id)
		}
	}
}

func TestRegistry_ObservesStoreWrites(t *testing.T) {
	store := newTestStore(t)
	// Long polling interval: the subscription, not the tick, must drive this.
	registry := NewRegistry(store, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go registry.Run(ctx)

	if err := store.Upsert(*CreateTestChat("chat1")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	waitFor(t, func() bool { return len(registry.Snapshot()) == 1 })

	if err := store.Delete("chat1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	waitFor(t, func() bool { return len(registry.Snapshot()) == 0 })
}

func TestRegistry_SnapshotIsolation(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert(*CreateTestChat("chat1")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	registry := NewRegistry(store, time.Minute)
	registry.Refresh()

	snapshot := registry.Snapshot()
	snapshot[0].Messages[0].Content = "mutated"

	fresh := registry.Snapshot()
	if fresh[0].Messages[0].Content == "mutated" {
		t.Error("Snapshot() shares message storage between callers")
	}
}

func TestRegistry_Find(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert(*CreateTestChat("chat1")); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	registry := NewRegistry(store, time.Minute)
	registry.Refresh()

	if _, ok := registry.Find("chat1"); !ok {
		t.Error("Find(chat1) = not found")
	}
	if _, ok := registry.Find("ghost"); ok {
		t.Error("Find(ghost) unexpectedly found a record")
	}
}
