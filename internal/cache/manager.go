// Package cache is the device-resident mirror of query results. It is never
// authoritative: every error degrades to a miss and the whole store is safe
// to discard, the backing store remains the source of truth.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// lastRefreshKey is the fixed metadata key holding the refresh timestamp.
const lastRefreshKey = "last_refreshed_at"

// KeyDailyLog returns the cache key for a date's daily log query result.
func KeyDailyLog(date time.Time) string {
	return "daily-log:" + date.Format("2006-01-02")
}

// KeyFrequentFoods is the cache key for the frequent-foods query result.
const KeyFrequentFoods = "frequent-foods"

// Manager stores query results in a local SQLite file with size accounting,
// manual invalidation, and a last-refresh timestamp.
type Manager struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens (or creates) the cache store at path and ensures its schema.
func Open(path string, logger zerolog.Logger) (*Manager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache store: %w", err)
	}

	m := &Manager{
		db:     db,
		logger: logger.With().Str("component", "cache").Logger(),
	}

	if err := m.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise cache schema: %w", err)
	}

	return m, nil
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		size_bytes INTEGER NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cache_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	if _, err := m.db.Exec(schema); err != nil {
		return err
	}

	return nil
}

// Get returns the cached value for key. Misses and read errors both report
// (nil, false); the caller re-fetches from the backing store either way.
func (m *Manager) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	query := `SELECT value FROM cache_entries WHERE key = ?`
	err := m.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			m.logger.Warn().Err(err).Str("key", key).Msg("cache read failed, treating as miss")
		}
		return nil, false
	}
	return value, true
}

// Put stores a query result under key, overwriting any previous value.
// Failures are logged and swallowed: caching is best effort.
func (m *Manager) Put(ctx context.Context, key string, value []byte) {
	query := `
		INSERT INTO cache_entries (key, value, size_bytes, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			size_bytes = excluded.size_bytes,
			updated_at = excluded.updated_at
	`
	if _, err := m.db.ExecContext(ctx, query, key, value, len(value), time.Now().UTC()); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Invalidate drops a single cached query result.
func (m *Manager) Invalidate(ctx context.Context, key string) {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
		m.logger.Warn().Err(err).Str("key", key).Msg("cache invalidation failed")
	}
}

// Size reports the summed size of all cached values in bytes. A computation
// failure is logged and reported as zero rather than blocking the caller.
func (m *Manager) Size(ctx context.Context) int64 {
	var size sql.NullInt64
	err := m.db.QueryRowContext(ctx, `SELECT SUM(size_bytes) FROM cache_entries`).Scan(&size)
	if err != nil {
		m.logger.Warn().Err(err).Msg("cache size computation failed, reporting zero")
		return 0
	}
	if !size.Valid {
		return 0
	}
	return size.Int64
}

// Clear discards every cached entry and the recorded refresh timestamp.
// Backend state is untouched; any read issued afterwards is a miss.
func (m *Manager) Clear(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	if _, err := m.db.ExecContext(ctx, `DELETE FROM cache_meta WHERE key = ?`, lastRefreshKey); err != nil {
		return fmt.Errorf("failed to clear refresh timestamp: %w", err)
	}

	m.logger.Info().Msg("cache cleared")

	return nil
}

// RefreshAll invalidates every cached query so subsequent reads re-fetch
// from the backing store, then stamps a new refresh timestamp.
func (m *Manager) RefreshAll(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	query := `
		INSERT INTO cache_meta (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := m.db.ExecContext(ctx, query, lastRefreshKey, stamp); err != nil {
		return fmt.Errorf("failed to stamp refresh timestamp: %w", err)
	}

	m.logger.Info().Str("refreshed_at", stamp).Msg("cache refreshed")

	return nil
}

// LastRefreshedAt returns the time of the last RefreshAll, or nil when no
// refresh has happened since the cache was created or cleared.
func (m *Manager) LastRefreshedAt(ctx context.Context) *time.Time {
	var stamp string
	query := `SELECT value FROM cache_meta WHERE key = ?`
	err := m.db.QueryRowContext(ctx, query, lastRefreshKey).Scan(&stamp)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			m.logger.Warn().Err(err).Msg("failed to read refresh timestamp")
		}
		return nil
	}

	parsed, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		m.logger.Warn().Err(err).Str("value", stamp).Msg("malformed refresh timestamp")
		return nil
	}

	return &parsed
}
