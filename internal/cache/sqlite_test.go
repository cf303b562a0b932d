package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	return store
}

func TestSQLiteStore_GetMiss(t *testing.T) {
	store := newTestSQLiteStore(t)
	defer store.Close()

	_, err := store.Get(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStore_PutThenGet(t *testing.T) {
	store := newTestSQLiteStore(t)
	defer store.Close()
	ctx := context.Background()

	entry := Entry{EmittedText: "for gocoroOuter {}", CFGNodes: 4, StatesAssigned: 3, StatesFinal: 2}
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

func TestSQLiteStore_PutUpserts(t *testing.T) {
	store := newTestSQLiteStore(t)
	defer store.Close()
	ctx := context.Background()

	_ = store.Put(ctx, "hash1", Entry{EmittedText: "old", CFGNodes: 1})
	_ = store.Put(ctx, "hash1", Entry{EmittedText: "new", CFGNodes: 2})

	got, err := store.Get(ctx, "hash1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.EmittedText != "new" || got.CFGNodes != 2 {
		t.Errorf("Get = %+v, want the overwritten entry", got)
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	store1, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	entry := Entry{EmittedText: "persisted", CFGNodes: 5, StatesAssigned: 4, StatesFinal: 3}
	if err := store1.Put(ctx, "hash1", entry); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store2, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore (reopen): %v", err)
	}
	defer store2.Close()

	got, err := store2.Get(ctx, "hash1")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got != entry {
		t.Errorf("Get after reopen = %+v, want %+v", got, entry)
	}
}
