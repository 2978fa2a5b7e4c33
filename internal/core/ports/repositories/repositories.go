package repositories

// RepositoryProvider bundles the persistence ports the rate services are built from.
// The cache snapshot store is not part of it; it is chosen per deployment in main.
type RepositoryProvider struct {
	ExchangeRateRepo ExchangeRateRepositoryFacade
}
