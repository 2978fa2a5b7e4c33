package dto

import (
	"time"

	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListRateHistoryParams holds the query parameters of a history page.
type ListRateHistoryParams struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ExchangeRateHistoryResponse is one audit row of a currency's rate history.
type ExchangeRateHistoryResponse struct {
	HistoryID   string          `json:"historyID"`
	Rate        decimal.Decimal `json:"rate"`
	DisplayRate decimal.Decimal `json:"displayRate"`
	FetchedAt   time.Time       `json:"fetchedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ListRateHistoryResponse is one page of history, newest first.
type ListRateHistoryResponse struct {
	Currency  string                        `json:"currency"`
	Entries   []ExchangeRateHistoryResponse `json:"entries"`
	NextToken *string                       `json:"nextToken,omitempty"`
}

// ToListRateHistoryResponse converts a domain.RateHistoryPage to its DTO
func ToListRateHistoryResponse(page *domain.RateHistoryPage) ListRateHistoryResponse {
	res := ListRateHistoryResponse{
		Currency:  page.Currency.String(),
		Entries:   make([]ExchangeRateHistoryResponse, len(page.Entries)),
		NextToken: page.NextToken,
	}
	for i, e := range page.Entries {
		res.Entries[i] = ExchangeRateHistoryResponse{
			HistoryID:   e.HistoryID,
			Rate:        e.Rate,
			DisplayRate: e.DisplayRate,
			FetchedAt:   e.FetchedAt,
			CreatedAt:   e.CreatedAt,
		}
	}
	return res
}
