package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/rental_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_fx/internal/core/ports/repositories"
)

const snapshotKey = "rates:" + string(domain.BaseCurrency)

// SQLiteStore persists the snapshot as a JSON blob in a local SQLite file so the
// stale tier survives restarts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the store, creating its table if needed.
// db must be opened with the modernc "sqlite" driver.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS rate_snapshots (
			snapshot_key TEXT PRIMARY KEY,
			data         TEXT NOT NULL,
			cached_at    INTEGER NOT NULL
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate_snapshots table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

var _ portsrepo.RateSnapshotStore = (*SQLiteStore)(nil)

// Load returns the stored snapshot regardless of age, or nil if none exists.
func (s *SQLiteStore) Load(ctx context.Context) (*domain.RatesSnapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM rate_snapshots WHERE snapshot_key = ?`, snapshotKey,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rate snapshot: %w", err)
	}

	var snap domain.RatesSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to decode rate snapshot: %w", err)
	}
	return &snap, nil
}

// Save upserts the snapshot. A row with a later cached_at is left in place.
func (s *SQLiteStore) Save(ctx context.Context, snapshot domain.RatesSnapshot) error {
	snapshot.Source = ""
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode rate snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rate_snapshots (snapshot_key, data, cached_at) VALUES (?, ?, ?)
		ON CONFLICT (snapshot_key) DO UPDATE SET
			data = excluded.data,
			cached_at = excluded.cached_at
		WHERE excluded.cached_at >= rate_snapshots.cached_at`,
		snapshotKey, string(data), snapshot.CachedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to store rate snapshot: %w", err)
	}
	return nil
}
