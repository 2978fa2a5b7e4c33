package services

import (
	"context"

	"github.com/SscSPs/rental_fx/internal/core/domain"
)

// CurrencyReaderSvc defines read operations over the currency registry
type CurrencyReaderSvc interface {
	// GetCurrencyByCode retrieves a specific currency profile by its code.
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.CurrencyProfile, error)

	// ListCurrencies retrieves all supported currencies in registry order.
	ListCurrencies(ctx context.Context) ([]domain.CurrencyProfile, error)
}

// CurrencySvcFacade combines all currency-related service interfaces
type CurrencySvcFacade interface {
	CurrencyReaderSvc
}
