package repositories

import (
	"context"

	"github.com/SscSPs/rental_fx/internal/core/domain"
)

// RateSnapshotStore persists the cache client's last known snapshot locally.
type RateSnapshotStore interface {
	// Load returns the stored snapshot, or nil with no error if nothing was ever stored.
	Load(ctx context.Context) (*domain.RatesSnapshot, error)
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot domain.RatesSnapshot) error
}
