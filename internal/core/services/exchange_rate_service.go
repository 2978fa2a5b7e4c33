package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/rental_fx/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/SscSPs/rental_fx/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultMarginPercent is the spread applied to raw rates when none is configured.
var DefaultMarginPercent = decimal.RequireFromString("2.5")

const (
	defaultHistoryPageSize = 20
	maxHistoryPageSize     = 100
)

// exchangeRateService fetches provider rates into the rate store and serves stored rates.
type exchangeRateService struct {
	BaseService
	rateRepo      portsrepo.ExchangeRateRepositoryFacade
	provider      portsrepo.RateProvider
	publisher     portssvc.RateEventPublisher
	metrics       *metrics.RateMetrics
	marginPercent decimal.Decimal
	now           func() time.Time
	gate          *RefreshGate
}

// ExchangeRateServiceOption is a functional option for configuring the exchange rate service
type ExchangeRateServiceOption func(*exchangeRateService)

// WithMarginPercent sets the spread applied to every stored rate.
func WithMarginPercent(margin decimal.Decimal) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.marginPercent = margin
	}
}

// WithEventPublisher publishes a rates.refreshed event after each refresh that stored rates.
func WithEventPublisher(p portssvc.RateEventPublisher) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.publisher = p
	}
}

// WithExchangeRateMetrics records refresh outcomes.
func WithExchangeRateMetrics(m *metrics.RateMetrics) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.metrics = m
	}
}

// WithRefreshGate shares the at-most-one-refresh guard with other refresh callers,
// such as the scheduled refresh job.
func WithRefreshGate(g *RefreshGate) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.gate = g
	}
}

// WithExchangeRateClock injects the time source used for audit timestamps.
func WithExchangeRateClock(now func() time.Time) ExchangeRateServiceOption {
	return func(s *exchangeRateService) {
		s.now = now
	}
}

// NewExchangeRateService creates a new exchange rate service with the provided options
func NewExchangeRateService(repo portsrepo.ExchangeRateRepositoryFacade, provider portsrepo.RateProvider, options ...ExchangeRateServiceOption) portssvc.ExchangeRateSvcFacade {
	svc := &exchangeRateService{
		BaseService:   BaseService{Component: "exchange_rate"},
		rateRepo:      repo,
		provider:      provider,
		marginPercent: DefaultMarginPercent,
		now:           time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	if svc.gate == nil {
		svc.gate = NewRefreshGate()
	}
	return svc
}

var _ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)

type upsertOutcome struct {
	record    domain.ExchangeRateRecord
	attempted bool
	err       error
}

// RefreshRates calls the provider once and upserts every supported currency it
// returned. Currencies the provider omitted keep their previous record.
func (s *exchangeRateService) RefreshRates(ctx context.Context) ([]domain.ExchangeRateRecord, error) {
	start := s.now()

	provided, err := s.provider.FetchLatest(ctx, domain.BaseCurrency)
	if err != nil {
		if !errors.Is(err, apperrors.ErrProviderUnavailable) {
			err = fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
		}
		s.LogWarn(ctx, "Rate provider unavailable, store left untouched", slog.String("error", err.Error()))
		s.metrics.RecordRefresh("failure", s.now().Sub(start), start)
		return nil, fmt.Errorf("failed to refresh exchange rates: %w", err)
	}

	quotes := domain.QuoteCurrencies()
	outcomes := make([]upsertOutcome, len(quotes))
	var skipped []domain.CurrencyCode
	var wg sync.WaitGroup

	for i, code := range quotes {
		rate, ok := provided.Rates[code]
		if !ok || rate.IsNegative() {
			skipErr := fmt.Errorf("%w: provider returned no usable rate for %s", apperrors.ErrMissingCurrencyRate, code)
			s.LogWarn(ctx, "Skipping currency", slog.String("currency", code.String()), slog.String("error", skipErr.Error()))
			s.metrics.RecordCurrencySkipped(code.String())
			skipped = append(skipped, code)
			continue
		}

		record := domain.NewExchangeRateRecord(code, rate, s.marginPercent, provided.FetchedAt)
		stamp := s.now()
		record.CreatedAt = stamp
		record.LastUpdatedAt = stamp

		outcomes[i].attempted = true
		wg.Add(1)
		go func(i int, record domain.ExchangeRateRecord) {
			defer wg.Done()
			outcomes[i].record = record
			outcomes[i].err = s.rateRepo.UpsertExchangeRate(ctx, record)
		}(i, record)
	}
	wg.Wait()

	updated := make([]domain.ExchangeRateRecord, 0, len(quotes))
	var upsertErrs []error
	for _, o := range outcomes {
		if !o.attempted {
			continue
		}
		code := o.record.Currency.String()
		if o.err != nil {
			s.LogError(ctx, o.err, "Failed to store exchange rate", slog.String("currency", code))
			s.metrics.RecordCurrencyUpdate(code, false)
			upsertErrs = append(upsertErrs, fmt.Errorf("upsert %s: %w", code, o.err))
			continue
		}
		s.metrics.RecordCurrencyUpdate(code, true)
		updated = append(updated, o.record)
	}

	outcome := "success"
	if len(upsertErrs) > 0 || len(skipped) > 0 {
		outcome = "partial"
	}
	if len(updated) == 0 {
		outcome = "failure"
	}
	s.metrics.RecordRefresh(outcome, s.now().Sub(start), provided.FetchedAt)

	if len(updated) > 0 {
		s.publishRefreshed(ctx, updated, skipped, provided.FetchedAt)
	}

	s.LogInfo(ctx, "Exchange rates refreshed",
		slog.Int("updated", len(updated)),
		slog.Int("skipped", len(skipped)),
		slog.Int("failed", len(upsertErrs)))

	if len(upsertErrs) > 0 {
		return updated, errors.Join(upsertErrs...)
	}
	return updated, nil
}

func (s *exchangeRateService) publishRefreshed(ctx context.Context, updated []domain.ExchangeRateRecord, skipped []domain.CurrencyCode, fetchedAt time.Time) {
	if s.publisher == nil {
		return
	}
	event := domain.RatesRefreshedEvent{
		EventID:   uuid.NewString(),
		Base:      domain.BaseCurrency,
		Rates:     make(map[domain.CurrencyCode]decimal.Decimal, len(updated)),
		Skipped:   skipped,
		FetchedAt: fetchedAt,
	}
	for _, r := range updated {
		event.Rates[r.Currency] = r.DisplayRate
	}
	if err := s.publisher.PublishRatesRefreshed(ctx, event); err != nil {
		s.LogWarn(ctx, "Failed to publish rates refreshed event", slog.String("error", err.Error()))
	}
}

// GetAllRates lists stored records in registry order. On an empty store it
// refreshes once synchronously through the refresh gate, joining a refresh that
// is already running; a failed refresh yields an empty list.
func (s *exchangeRateService) GetAllRates(ctx context.Context) ([]domain.ExchangeRateRecord, error) {
	records, err := s.rateRepo.ListExchangeRates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates")
		return nil, fmt.Errorf("failed to list exchange rates in service: %w", err)
	}
	if len(records) > 0 {
		return sortByRegistry(records), nil
	}

	s.LogInfo(ctx, "Rate store is empty, refreshing before first read")
	if _, err := s.gate.RunOrWait(ctx, func() ([]domain.ExchangeRateRecord, error) {
		return s.RefreshRates(ctx)
	}); err != nil {
		s.LogError(ctx, err, "Self-healing refresh failed")
	}

	records, err = s.rateRepo.ListExchangeRates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rates after refresh")
		return nil, fmt.Errorf("failed to list exchange rates in service: %w", err)
	}
	return sortByRegistry(records), nil
}

// GetRate retrieves the stored record for one non-base currency.
func (s *exchangeRateService) GetRate(ctx context.Context, currency domain.CurrencyCode) (*domain.ExchangeRateRecord, error) {
	if !currency.IsSupported() {
		return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrInvalidCurrencyPair, currency)
	}
	if currency == domain.BaseCurrency {
		return nil, apperrors.NewValidationError(currency.String() + " is the base currency and has no stored rate")
	}

	record, err := s.rateRepo.FindExchangeRate(ctx, currency)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find exchange rate", slog.String("currency", currency.String()))
		}
		return nil, fmt.Errorf("failed to get exchange rate in service: %w", err)
	}
	return record, nil
}

func (s *exchangeRateService) GetLatestFetchedAt(ctx context.Context) (*time.Time, error) {
	latest, err := s.rateRepo.LatestFetchedAt(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest fetch time in service: %w", err)
	}
	return latest, nil
}

// GetRateHistory pages through the audit history of one currency, newest first.
// A non-positive limit uses the default page size; larger limits are capped.
func (s *exchangeRateService) GetRateHistory(ctx context.Context, currency domain.CurrencyCode, limit int, nextToken *string) (*domain.RateHistoryPage, error) {
	if !currency.IsSupported() {
		return nil, fmt.Errorf("%w: unsupported currency %q", apperrors.ErrInvalidCurrencyPair, currency)
	}
	if currency == domain.BaseCurrency {
		return nil, apperrors.NewValidationError(currency.String() + " is the base currency and has no rate history")
	}
	if limit <= 0 {
		limit = defaultHistoryPageSize
	}
	if limit > maxHistoryPageSize {
		limit = maxHistoryPageSize
	}

	entries, next, err := s.rateRepo.ListExchangeRateHistory(ctx, currency, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list exchange rate history", slog.String("currency", currency.String()))
		return nil, fmt.Errorf("failed to get exchange rate history in service: %w", err)
	}
	if entries == nil {
		entries = []domain.ExchangeRateHistoryEntry{}
	}
	return &domain.RateHistoryPage{Currency: currency, Entries: entries, NextToken: next}, nil
}

// GetRatesSnapshot returns the stored display rates. An empty store is an error
// so that the cache client falls through to its degraded tiers.
func (s *exchangeRateService) GetRatesSnapshot(ctx context.Context) (domain.RatesSnapshot, error) {
	records, err := s.GetAllRates(ctx)
	if err != nil {
		return domain.RatesSnapshot{}, err
	}
	if len(records) == 0 {
		return domain.RatesSnapshot{}, apperrors.NewNotFoundError("no exchange rates stored")
	}
	return domain.NewSnapshotFromRecords(records), nil
}

// PruneHistory deletes history rows fetched more than retention ago.
func (s *exchangeRateService) PruneHistory(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	removed, err := s.rateRepo.DeleteHistoryBefore(ctx, cutoff)
	if err != nil {
		s.LogError(ctx, err, "Failed to prune exchange rate history")
		return 0, fmt.Errorf("failed to prune exchange rate history: %w", err)
	}
	s.metrics.RecordHistoryPruned(removed)
	s.LogInfo(ctx, "Pruned exchange rate history", slog.Int64("removed", removed), slog.Time("cutoff", cutoff))
	return removed, nil
}

// sortByRegistry orders records by the registry's canonical currency order.
func sortByRegistry(records []domain.ExchangeRateRecord) []domain.ExchangeRateRecord {
	if records == nil {
		return []domain.ExchangeRateRecord{}
	}
	rank := make(map[domain.CurrencyCode]int)
	for i, p := range domain.SupportedCurrencies() {
		rank[p.Code] = i
	}
	sort.SliceStable(records, func(i, j int) bool {
		ri, iok := rank[records[i].Currency]
		rj, jok := rank[records[j].Currency]
		if iok != jok {
			return iok
		}
		if !iok {
			return records[i].Currency < records[j].Currency
		}
		return ri < rj
	})
	return records
}
