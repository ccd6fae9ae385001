// Package sqlitestore provides a SQLite-backed durable tier.
//
// It persists cache envelopes across process restarts so independent
// orchestrator instances sharing one database file observe each other's
// writes. Retention is external to the cache: expired records are ignored
// on read and reclaimed by PurgeOlderThan.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonwraymond/swrcache/swr"
)

const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key           TEXT PRIMARY KEY,
	value         BLOB NOT NULL,
	updated_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_cache_entries_updated_at ON cache_entries (updated_at_ms);
`

// Store persists cache envelopes in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store at path, creating the schema when absent.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlitestore: storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlitestore: ping db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlitestore: create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the stored envelope for key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var value []byte
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM cache_entries WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlitestore: get %q: %w", key, err)
	}
	return value, true, nil
}

// Put stores an envelope under key, replacing any prior value.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, updated_at_ms) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at_ms = excluded.updated_at_ms`,
		key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlitestore: put %q: %w", key, err)
	}
	return nil
}

// Delete removes a key. Idempotent: deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE key = ?`, key,
	); err != nil {
		return fmt.Errorf("sqlitestore: delete %q: %w", key, err)
	}
	return nil
}

// PurgeOlderThan removes records whose last write is older than age,
// returning the number removed. Intended for periodic housekeeping; the
// cache itself never calls it.
func (s *Store) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cutoff := time.Now().UTC().Add(-age).UnixMilli()
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE updated_at_ms < ?`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: purge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlitestore: purge rows affected: %w", err)
	}
	return n, nil
}

// Len reports the number of stored records.
func (s *Store) Len(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int64
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cache_entries`,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlitestore: len: %w", err)
	}
	return n, nil
}

// Ensure Store satisfies the cache tier contracts.
var (
	_ swr.Store   = (*Store)(nil)
	_ swr.Deleter = (*Store)(nil)
)
