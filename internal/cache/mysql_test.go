package cache

import (
	"context"
	"errors"
	"os"
	"testing"
)

// getTestDSN returns the DSN for a real MySQL instance from TEST_MYSQL_DSN,
// or "" if unset. Grounded on the teacher's graph/store/mysql_test.go: these
// tests only run against a real server, never mocked.
func getTestDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Log("MySQL tests skipped: set TEST_MYSQL_DSN to run")
	}
	return dsn
}

func TestMySQLStore_InvalidDSNFails(t *testing.T) {
	_, err := NewMySQLStore("not a valid dsn @@@")
	if err == nil {
		t.Error("expected an error for a malformed DSN")
	}
}

func TestMySQLStore_PutThenGet(t *testing.T) {
	dsn := getTestDSN(t)
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	store, err := NewMySQLStore(dsn)
	if err != nil {
		t.Fatalf("NewMySQLStore: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	entry := Entry{EmittedText: "for gocoroOuter {}", CFGNodes: 3, StatesAssigned: 2, StatesFinal: 1}
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

func TestMySQLStore_PutUpserts(t *testing.T) {
	dsn := getTestDSN(t)
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	store, err := NewMySQLStore(dsn)
	if err != nil {
		t.Fatalf("NewMySQLStore: %v", err)
	}
	defer store.Close()
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

func TestMySQLStore_GetMiss(t *testing.T) {
	dsn := getTestDSN(t)
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	store, err := NewMySQLStore(dsn)
	if err != nil {
		t.Fatalf("NewMySQLStore: %v", err)
	}
	defer store.Close()

	_, err = store.Get(context.Background(), "nonexistent-hash")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
