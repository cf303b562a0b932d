package cache

import (
	"context"
	"errors"
	"testing"
)

func TestHashSource_DeterministicAndDistinct(t *testing.T) {
	a := HashSource("body1", "state=self.s")
	b := HashSource("body1", "state=self.s")
	if a != b {
		t.Error("expected HashSource to be deterministic for identical inputs")
	}

	c := HashSource("body2", "state=self.s")
	if a == c {
		t.Error("expected different body text to hash differently")
	}

	d := HashSource("body1", "state=self.other")
	if a == d {
		t.Error("expected different directive text to hash differently")
	}
}

func TestMemStore_GetMiss(t *testing.T) {
	store := NewMemStore()
	_, err := store.Get(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStore_PutThenGet(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()
	entry := Entry{EmittedText: "for {}", CFGNodes: 3, StatesAssigned: 2, StatesFinal: 1}

	if err := store.Put(ctx, "hash1", entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "hash1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != entry {
		t.Errorf("Get = %+v, want %+v", got, entry)
	}
}

func TestMemStore_PutOverwrites(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	_ = store.Put(ctx, "hash1", Entry{EmittedText: "old"})
	_ = store.Put(ctx, "hash1", Entry{EmittedText: "new"})

	got, err := store.Get(ctx, "hash1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.EmittedText != "new" {
		t.Errorf("EmittedText = %q, want %q", got.EmittedText, "new")
	}
}

func TestMemStore_IsolatedKeys(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	_ = store.Put(ctx, "a", Entry{EmittedText: "a-text"})
	_ = store.Put(ctx, "b", Entry{EmittedText: "b-text"})

	a, _ := store.Get(ctx, "a")
	b, _ := store.Get(ctx, "b")
	if a.EmittedText != "a-text" || b.EmittedText != "b-text" {
		t.Error("expected distinct keys to hold distinct entries")
	}
}

func TestStore_InterfaceCompliance(t *testing.T) {
	var _ Store = (*MemStore)(nil)
	var _ Store = (*SQLiteStore)(nil)
	var _ Store = (*MySQLStore)(nil)
}
