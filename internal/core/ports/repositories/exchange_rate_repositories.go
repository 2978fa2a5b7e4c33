package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/rental_fx/internal/core/domain"
)

// ExchangeRateReader defines read operations for the authoritative rate store
type ExchangeRateReader interface {
	// FindExchangeRate retrieves the record for one currency.
	// Returns apperrors.ErrNotFound when no record exists.
	FindExchangeRate(ctx context.Context, currency domain.CurrencyCode) (*domain.ExchangeRateRecord, error)

	// ListExchangeRates retrieves every stored record ordered by currency code.
	ListExchangeRates(ctx context.Context) ([]domain.ExchangeRateRecord, error)

	// LatestFetchedAt returns the most recent FetchedAt across all records, or nil if the store is empty.
	LatestFetchedAt(ctx context.Context) (*time.Time, error)

	// ListExchangeRateHistory retrieves a page of history rows for one currency,
	// newest first, and a token for the next page (nil when there is none).
	ListExchangeRateHistory(ctx context.Context, currency domain.CurrencyCode, limit int, nextToken *string) ([]domain.ExchangeRateHistoryEntry, *string, error)
}

// ExchangeRateWriter defines write operations for the authoritative rate store
type ExchangeRateWriter interface {
	// UpsertExchangeRate inserts or replaces the record keyed by its currency
	// and appends a history row in the same transaction.
	UpsertExchangeRate(ctx context.Context, record domain.ExchangeRateRecord) error

	// DeleteHistoryBefore prunes history rows fetched before cutoff and returns how many were removed.
	DeleteHistoryBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
// This is a facade for clients that need access to all operations
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}

// ExchangeRateRepositoryWithTx extends ExchangeRateRepositoryFacade with transaction capabilities
type ExchangeRateRepositoryWithTx interface {
	ExchangeRateRepositoryFacade
	TransactionManager
}
