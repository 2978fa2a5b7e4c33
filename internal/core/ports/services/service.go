package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Currency     CurrencySvcFacade
	ExchangeRate ExchangeRateSvcFacade
	RateCache    RateCacheSvc
	Conversion   ConversionSvc
	// Refresher is wired after the scheduler is built so manual and scheduled
	// refreshes share one in-flight guard.
	Refresher RateRefresher
}
