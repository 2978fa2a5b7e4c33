package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/rental_fx/internal/core/domain"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/SscSPs/rental_fx/internal/platform/metrics"
	"github.com/SscSPs/rental_fx/internal/utils"
	"github.com/SscSPs/rental_fx/internal/utils/fx"
	"github.com/shopspring/decimal"
)

// conversionService converts amounts using either caller-supplied rates or the cache client.
type conversionService struct {
	BaseService
	cache   portssvc.RateCacheSvc
	metrics *metrics.RateMetrics
}

// NewConversionService creates a conversion service backed by cache.
func NewConversionService(cache portssvc.RateCacheSvc, m *metrics.RateMetrics) portssvc.ConversionSvc {
	return &conversionService{BaseService: BaseService{Component: "conversion"}, cache: cache, metrics: m}
}

var _ portssvc.ConversionSvc = (*conversionService)(nil)

// Convert converts amount between two supported currencies. With an explicit
// rate table a missing rate is an error; with rates == nil the cached snapshot
// is used and gaps are filled from the bootstrap table, so only an unsupported
// currency can fail.
func (s *conversionService) Convert(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyCode, rates *domain.RatesSnapshot) (decimal.Decimal, error) {
	var snap domain.RatesSnapshot
	if rates != nil {
		snap = *rates
	} else {
		snap = s.cachedRates(ctx)
	}

	result, err := fx.Convert(amount, from, to, snap)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to convert %s to %s: %w", from, to, err)
	}
	s.metrics.RecordConversion(from.String(), to.String())
	return result, nil
}

// Quote converts with cached rates and formats the result for display.
func (s *conversionService) Quote(ctx context.Context, amount decimal.Decimal, from, to domain.CurrencyCode) (*domain.ConversionQuote, error) {
	snap := s.cachedRates(ctx)

	result, err := s.Convert(ctx, amount, from, to, &snap)
	if err != nil {
		return nil, err
	}
	formatted, err := utils.FormatCurrency(result, to)
	if err != nil {
		return nil, err
	}

	return &domain.ConversionQuote{
		Amount:         amount,
		From:           from,
		To:             to,
		Result:         result,
		Formatted:      formatted,
		Source:         snap.Source,
		RatesUpdatedAt: snap.UpdatedAt,
	}, nil
}

// cachedRates returns the cache client's snapshot with any missing supported
// currency filled from the bootstrap table.
func (s *conversionService) cachedRates(ctx context.Context) domain.RatesSnapshot {
	snap := s.cache.GetRates(ctx).Clone()
	if snap.Base == "" {
		snap.Base = domain.BaseCurrency
	}
	bootstrap := domain.BootstrapSnapshot()
	for _, code := range domain.QuoteCurrencies() {
		if rate, ok := snap.Rates[code]; ok && rate.IsPositive() {
			continue
		}
		s.LogWarn(ctx, "Cached rates missing currency, using bootstrap rate",
			slog.String("currency", code.String()),
			slog.String("source", string(snap.Source)))
		snap.Rates[code] = bootstrap.Rates[code]
	}
	return snap
}
