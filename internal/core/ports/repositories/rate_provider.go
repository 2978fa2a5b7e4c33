package repositories

import (
	"context"

	"github.com/SscSPs/rental_fx/internal/core/domain"
)

// RateProvider fetches the latest rates from an external source.
type RateProvider interface {
	// FetchLatest returns rates quoted against base.
	// Any transport, status or schema failure wraps apperrors.ErrProviderUnavailable.
	FetchLatest(ctx context.Context, base domain.CurrencyCode) (*domain.ProviderRates, error)
}
