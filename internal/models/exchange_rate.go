package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields mirrors the audit columns shared by persisted rows.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ExchangeRate is one row of the exchange_rates table, keyed by currency_code.
// Rates are stored as NUMERIC and scanned into decimal.Decimal.
type ExchangeRate struct {
	CurrencyCode  string          `json:"currencyCode"` // Primary Key (e.g., "USD")
	Rate          decimal.Decimal `json:"rate"`
	MarginPercent decimal.Decimal `json:"marginPercent"`
	DisplayRate   decimal.Decimal `json:"displayRate"`
	InverseRate   decimal.Decimal `json:"inverseRate"`
	FetchedAt     time.Time       `json:"fetchedAt"`
	AuditFields
}

// ExchangeRateHistory is an append-only row of exchange_rate_history.
type ExchangeRateHistory struct {
	HistoryID    string          `json:"historyID"` // UUID
	CurrencyCode string          `json:"currencyCode"`
	Rate         decimal.Decimal `json:"rate"`
	DisplayRate  decimal.Decimal `json:"displayRate"`
	FetchedAt    time.Time       `json:"fetchedAt"`
	CreatedAt    time.Time       `json:"createdAt"`
}
