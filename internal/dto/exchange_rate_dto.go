package dto

import (
	"time"

	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateResponse defines the structure for API responses containing one stored rate.
type ExchangeRateResponse struct {
	Currency      string          `json:"currency"`
	Rate          decimal.Decimal `json:"rate"`
	MarginPercent decimal.Decimal `json:"marginPercent"`
	DisplayRate   decimal.Decimal `json:"displayRate"`
	InverseRate   decimal.Decimal `json:"inverseRate"`
	FetchedAt     time.Time       `json:"fetchedAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ListExchangeRatesResponse wraps every stored rate with the newest fetch time.
type ListExchangeRatesResponse struct {
	Base            string                 `json:"base"`
	LatestFetchedAt *time.Time             `json:"latestFetchedAt"`
	Rates           []ExchangeRateResponse `json:"rates"`
}

// RefreshRatesResponse reports the records written by a manual refresh.
type RefreshRatesResponse struct {
	Updated int                    `json:"updated"`
	Rates   []ExchangeRateResponse `json:"rates"`
	Error   string                 `json:"error,omitempty"`
}

// RatesSnapshotResponse is the compact display-rate table served to clients.
type RatesSnapshotResponse struct {
	Base      string                     `json:"base"`
	Rates     map[string]decimal.Decimal `json:"rates"`
	UpdatedAt *time.Time                 `json:"updatedAt"`
	CachedAt  *time.Time                 `json:"cachedAt"`
	Source    string                     `json:"source"`
}

// ToExchangeRateResponse converts a domain.ExchangeRateRecord to ExchangeRateResponse DTO
func ToExchangeRateResponse(rate *domain.ExchangeRateRecord) ExchangeRateResponse {
	return ExchangeRateResponse{
		Currency:      rate.Currency.String(),
		Rate:          rate.Rate,
		MarginPercent: rate.MarginPercent,
		DisplayRate:   rate.DisplayRate,
		InverseRate:   rate.InverseRate,
		FetchedAt:     rate.FetchedAt,
		LastUpdatedAt: rate.LastUpdatedAt,
	}
}

// ToListExchangeRateResponse converts a slice of records to a slice of ExchangeRateResponse DTOs.
func ToListExchangeRateResponse(rates []domain.ExchangeRateRecord) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(rates))
	for i := range rates {
		responses[i] = ToExchangeRateResponse(&rates[i])
	}
	return responses
}

// ToRatesSnapshotResponse converts a snapshot. Zero timestamps are rendered as null.
func ToRatesSnapshotResponse(snap domain.RatesSnapshot) RatesSnapshotResponse {
	res := RatesSnapshotResponse{
		Base:   snap.Base.String(),
		Rates:  make(map[string]decimal.Decimal, len(snap.Rates)),
		Source: string(snap.Source),
	}
	for code, rate := range snap.Rates {
		res.Rates[code.String()] = rate
	}
	if !snap.UpdatedAt.IsZero() {
		t := snap.UpdatedAt
		res.UpdatedAt = &t
	}
	if !snap.CachedAt.IsZero() {
		t := snap.CachedAt
		res.CachedAt = &t
	}
	return res
}
