package services

import (
	"context"
	"time"

	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateReaderSvc defines read operations for stored exchange rates
type ExchangeRateReaderSvc interface {
	// GetAllRates lists every stored record. An empty store triggers one
	// synchronous refresh before the list is returned.
	GetAllRates(ctx context.Context) ([]domain.ExchangeRateRecord, error)

	// GetRate retrieves the stored record for one currency.
	GetRate(ctx context.Context, currency domain.CurrencyCode) (*domain.ExchangeRateRecord, error)

	// GetLatestFetchedAt returns the newest FetchedAt in the store, or nil when empty.
	GetLatestFetchedAt(ctx context.Context) (*time.Time, error)

	// GetRateHistory pages through the stored history of one currency, newest first.
	GetRateHistory(ctx context.Context, currency domain.CurrencyCode, limit int, nextToken *string) (*domain.RateHistoryPage, error)
}

// RatesSource is the remote tier consumed by the rate cache client.
type RatesSource interface {
	// GetRatesSnapshot returns the stored display rates as a snapshot.
	// An empty store is reported as an error.
	GetRatesSnapshot(ctx context.Context) (domain.RatesSnapshot, error)
}

// ExchangeRateWriterSvc defines write operations for exchange rates
type ExchangeRateWriterSvc interface {
	// RefreshRates fetches the provider once and upserts every supported currency it returned.
	RefreshRates(ctx context.Context) ([]domain.ExchangeRateRecord, error)

	// PruneHistory removes history rows older than retention.
	PruneHistory(ctx context.Context, retention time.Duration) (int64, error)
}

// ExchangeRateSvcFacade combines all exchange rate-related service interfaces
type ExchangeRateSvcFacade interface {
	ExchangeRateReaderSvc
	ExchangeRateWriterSvc
	RatesSource
}

// RateCacheSvc serves rates to in-process consumers and never fails.
type RateCacheSvc interface {
	GetRates(ctx context.Context) domain.RatesSnapshot
}

// ConversionSvc converts and formats amounts between supported currencies.
type ConversionSvc interface {
	// Convert converts amount using rates, or the cache client's snapshot when rates is nil.
	Convert(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyCode, rates *domain.RatesSnapshot) (decimal.Decimal, error)

	// Quote converts amount with cached rates and returns the formatted result with its rate source.
	Quote(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyCode) (*domain.ConversionQuote, error)
}

// RateRefresher triggers a refresh under the single in-flight guard.
type RateRefresher interface {
	// Trigger runs a refresh now. Returns apperrors.ErrRefreshInProgress if one is already running.
	Trigger(ctx context.Context) ([]domain.ExchangeRateRecord, error)
}

// RateEventPublisher announces refreshed rates to downstream consumers.
type RateEventPublisher interface {
	PublishRatesRefreshed(ctx context.Context, event domain.RatesRefreshedEvent) error
	Close() error
}
