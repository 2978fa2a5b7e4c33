package dto

import (
	"time"

	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConvertRequest holds the query parameters of a conversion.
type ConvertRequest struct {
	Amount string `form:"amount" binding:"required,numeric"`
	From   string `form:"from" binding:"required,len=3"`
	To     string `form:"to" binding:"required,len=3"`
}

// ConversionResponse is a converted amount ready for display.
type ConversionResponse struct {
	Amount         decimal.Decimal `json:"amount"`
	From           string          `json:"from"`
	To             string          `json:"to"`
	Result         decimal.Decimal `json:"result"`
	Formatted      string          `json:"formatted"`
	Source         string          `json:"source"`
	RatesUpdatedAt *time.Time      `json:"ratesUpdatedAt"`
}

// ToConversionResponse converts a domain.ConversionQuote to ConversionResponse DTO
func ToConversionResponse(q *domain.ConversionQuote) ConversionResponse {
	res := ConversionResponse{
		Amount:    q.Amount,
		From:      q.From.String(),
		To:        q.To.String(),
		Result:    q.Result,
		Formatted: q.Formatted,
		Source:    string(q.Source),
	}
	if !q.RatesUpdatedAt.IsZero() {
		t := q.RatesUpdatedAt
		res.RatesUpdatedAt = &t
	}
	return res
}
