package services

import (
	"context"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
)

// currencyService exposes the static currency registry.
type currencyService struct {
	BaseService
}

// NewCurrencyService creates a service over the in-code currency registry.
func NewCurrencyService() portssvc.CurrencySvcFacade {
	return &currencyService{BaseService: BaseService{Component: "currency"}}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.CurrencyProfile, error) {
	code, ok := domain.ParseCurrencyCode(currencyCode)
	if !ok {
		s.LogDebug(ctx, "Unsupported currency requested", "currency", currencyCode)
		return nil, apperrors.NewNotFoundError("currency " + currencyCode + " is not supported")
	}
	profile, _ := domain.LookupCurrency(code)
	return &profile, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.CurrencyProfile, error) {
	return domain.SupportedCurrencies(), nil
}
