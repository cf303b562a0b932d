package cache

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a shared, team-wide build cache backend: the same Store
// interface as SQLiteStore, but suitable for a CI fleet or a team of
// developers sharing one cache across machines.
//
// Adapted from the teacher's graph/store/mysql.go (go-sql-driver/mysql,
// upsert via ON DUPLICATE KEY UPDATE).
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore opens a connection using dsn (a go-sql-driver/mysql DSN)
// and ensures the rewrite_cache table exists.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: open mysql: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS rewrite_cache (
	source_hash     VARCHAR(64) PRIMARY KEY,
	emitted_text    MEDIUMTEXT NOT NULL,
	cfg_nodes       INT NOT NULL,
	states_assigned INT NOT NULL,
	states_final    INT NOT NULL
) ENGINE=InnoDB;`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: migrate mysql: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) Get(ctx context.Context, sourceHash string) (Entry, error) {
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

func (s *MySQLStore) Put(ctx context.Context, sourceHash string, entry Entry) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO rewrite_cache (source_hash, emitted_text, cfg_nodes, states_assigned, states_final)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
	emitted_text = VALUES(emitted_text),
	cfg_nodes = VALUES(cfg_nodes),
	states_assigned = VALUES(states_assigned),
	states_final = VALUES(states_final)`,
		sourceHash, entry.EmittedText, entry.CFGNodes, entry.StatesAssigned, entry.StatesFinal)
	if err != nil {
		return fmt.Errorf("cache: upsert: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
