package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// RatePrecision is the number of fractional digits kept for raw provider rates.
	RatePrecision int32 = 10
	// InverseRatePrecision is the number of fractional digits kept for inverse rates.
	InverseRatePrecision int32 = 4
)

var hundred = decimal.NewFromInt(100)

// AuditFields are the row timestamps kept by the rate store.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ExchangeRateRecord is the latest known rate for one non-base currency.
// Rate is expressed as units of Currency per 1 unit of BaseCurrency.
type ExchangeRateRecord struct {
	Currency      CurrencyCode    `json:"currency"`
	Rate          decimal.Decimal `json:"rate"`
	MarginPercent decimal.Decimal `json:"marginPercent"`
	DisplayRate   decimal.Decimal `json:"displayRate"` // derived from Rate and MarginPercent
	InverseRate   decimal.Decimal `json:"inverseRate"` // derived from Rate; zero when Rate <= 0
	FetchedAt     time.Time       `json:"fetchedAt"`
	AuditFields
}

// NewExchangeRateRecord builds a record from a raw provider rate, deriving the
// display and inverse rates.
func NewExchangeRateRecord(currency CurrencyCode, rate, marginPercent decimal.Decimal, fetchedAt time.Time) ExchangeRateRecord {
	rate = rate.Round(RatePrecision)
	return ExchangeRateRecord{
		Currency:      currency,
		Rate:          rate,
		MarginPercent: marginPercent,
		DisplayRate:   DisplayRateFor(rate, marginPercent),
		InverseRate:   InverseRateFor(rate),
		FetchedAt:     fetchedAt,
	}
}

// DisplayRateFor applies the margin against the user: rate × (1 − margin/100).
func DisplayRateFor(rate, marginPercent decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(1).Sub(marginPercent.Div(hundred)))
}

// InverseRateFor returns 1/rate rounded to InverseRatePrecision, or zero if rate <= 0.
func InverseRateFor(rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).DivRound(rate, InverseRatePrecision)
}

// Recompute refreshes the derived fields from Rate and MarginPercent.
func (r *ExchangeRateRecord) Recompute() {
	r.DisplayRate = DisplayRateFor(r.Rate, r.MarginPercent)
	r.InverseRate = InverseRateFor(r.Rate)
}

// ProviderRates is a validated provider response.
type ProviderRates struct {
	Base      CurrencyCode
	Rates     map[CurrencyCode]decimal.Decimal
	FetchedAt time.Time
}

// ExchangeRateHistoryEntry is one append-only audit row written with each upsert.
type ExchangeRateHistoryEntry struct {
	HistoryID   string          `json:"historyID"`
	Currency    CurrencyCode    `json:"currency"`
	Rate        decimal.Decimal `json:"rate"`
	DisplayRate decimal.Decimal `json:"displayRate"`
	FetchedAt   time.Time       `json:"fetchedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// RateHistoryPage is one page of history, newest first.
// NextToken is nil on the last page.
type RateHistoryPage struct {
	Currency  CurrencyCode
	Entries   []ExchangeRateHistoryEntry
	NextToken *string
}
