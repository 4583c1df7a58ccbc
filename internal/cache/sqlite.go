package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iwvelando/retirement-forecast/internal/simulation"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS simulation_cache (
	inputs_hash TEXT PRIMARY KEY,
	results     TEXT NOT NULL,
	created_at  INTEGER NOT NULL,
	expires_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_simulation_cache_expires_at
	ON simulation_cache(expires_at);
`

// SQLiteStore persists cache rows in a local sqlite database. Cache rows
// are the only durable artifact this system owns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get returns the entry for the hash, or nil when absent.
func (s *SQLiteStore) Get(hash string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT results, created_at, expires_at FROM simulation_cache WHERE inputs_hash = ?`,
		hash,
	)

	var resultsJSON string
	var createdAt, expiresAt int64
	if err := row.Scan(&resultsJSON, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache row: %w", err)
	}

	var results simulation.AggregatedResult
	if err := json.Unmarshal([]byte(resultsJSON), &results); err != nil {
		return nil, fmt.Errorf("failed to decode cached results: %w", err)
	}

	return &Entry{
		InputsHash: hash,
		Results:    results,
		CreatedAt:  time.Unix(createdAt, 0),
		ExpiresAt:  time.Unix(expiresAt, 0),
	}, nil
}

// Upsert writes the entry, superseding any row with the same hash.
func (s *SQLiteStore) Upsert(entry Entry) error {
	resultsJSON, err := json.Marshal(entry.Results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO simulation_cache (inputs_hash, results, created_at, expires_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(inputs_hash) DO UPDATE SET
			results = excluded.results,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		entry.InputsHash, string(resultsJSON), entry.CreatedAt.Unix(), entry.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert cache row: %w", err)
	}
	return nil
}

// DeleteExpired removes rows whose expiry precedes now.
func (s *SQLiteStore) DeleteExpired(now time.Time) error {
	if _, err := s.db.Exec(
		`DELETE FROM simulation_cache WHERE expires_at < ?`, now.Unix(),
	); err != nil {
		return fmt.Errorf("failed to purge expired cache rows: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
