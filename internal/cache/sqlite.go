package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a single-file, on-disk Store for one developer's
// incremental builds: zero setup, survives across `go generate` runs in
// the same checkout.
//
// Adapted from the teacher's graph/store/sqlite.go (modernc.org/sqlite,
// one table, upsert-on-conflict writes); gocoro's table drops the
// step/checkpoint history the teacher's workflow-resume schema needs,
// since a cache entry is just the latest result for a given source hash,
// never a timeline of past ones.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) a SQLite database at path
// and ensures the rewrite_cache table exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	const schema = `
CREATE TABLE IF NOT EXISTS rewrite_cache (
	source_hash     TEXT PRIMARY KEY,
	emitted_text    TEXT NOT NULL,
	cfg_nodes       INTEGER NOT NULL,
	states_assigned INTEGER NOT NULL,
	states_final    INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: migrate sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, sourceHash string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT emitted_text, cfg_nodes, states_assigned, states_final FROM rewrite_cache WHERE source_hash = ?`,
		sourceHash)

	var e Entry
	if err := row.Scan(&e.EmittedText, &e.CFGNodes, &e.StatesAssigned, &e.StatesFinal); err != nil {
		if err == sql.ErrNoRows {
			return Entry{}, fmt.Errorf("%s: %w", sourceHash, ErrNotFound)
		}
		return Entry{}, fmt.Errorf("cache: query: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) Put(ctx context.Context, sourceHash string, entry Entry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO rewrite_cache (source_hash, emitted_text, cfg_nodes, states_assigned, states_final)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(source_hash) DO UPDATE SET
	emitted_text = excluded.emitted_text,
	cfg_nodes = excluded.cfg_nodes,
	states_assigned = excluded.states_assigned,
	states_final = excluded.states_final`,
		sourceHash, entry.EmittedText, entry.CFGNodes, entry.StatesAssigned, entry.StatesFinal)
	if err != nil {
		return fmt.Errorf("cache: upsert: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
