package services

import (
	portsrepo "github.com/SscSPs/rental_fx/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/rental_fx/internal/core/ports/services"
	"github.com/SscSPs/rental_fx/internal/platform/config"
	"github.com/SscSPs/rental_fx/internal/platform/metrics"
)

// Dependencies are the adapters the services need beyond the repositories.
type Dependencies struct {
	Provider      portsrepo.RateProvider
	SnapshotStore portsrepo.RateSnapshotStore
	Publisher     portssvc.RateEventPublisher
	Metrics       *metrics.RateMetrics
	// RefreshGate is shared with the refresh job; one is created when nil.
	RefreshGate *RefreshGate
}

// NewServiceContainer creates a new service container with properly initialized dependencies.
// Refresher is left for the caller to set once the refresh job exists.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Dependencies) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	if deps.RefreshGate == nil {
		deps.RefreshGate = NewRefreshGate()
	}

	container.Currency = NewCurrencyService()

	container.ExchangeRate = NewExchangeRateService(
		repos.ExchangeRateRepo,
		deps.Provider,
		WithMarginPercent(cfg.RateMarginPercent),
		WithEventPublisher(deps.Publisher),
		WithExchangeRateMetrics(deps.Metrics),
		WithRefreshGate(deps.RefreshGate),
	)

	// The cache client reads the store through the exchange rate service so
	// that an empty store self-heals before the cache degrades.
	container.RateCache = NewRateCacheClient(
		container.ExchangeRate,
		WithSnapshotStore(deps.SnapshotStore),
		WithCacheTTL(cfg.RateCacheTTL),
		WithFetchTimeout(cfg.RateCacheFetchTimeout),
		WithCacheMetrics(deps.Metrics),
	)

	container.Conversion = NewConversionService(container.RateCache, deps.Metrics)

	return container
}
