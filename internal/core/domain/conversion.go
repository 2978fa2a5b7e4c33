package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionQuote is a converted amount together with the rates it was computed from.
type ConversionQuote struct {
	Amount         decimal.Decimal `json:"amount"`
	From           CurrencyCode    `json:"from"`
	To             CurrencyCode    `json:"to"`
	Result         decimal.Decimal `json:"result"`
	Formatted      string          `json:"formatted"`
	Source         RateSource      `json:"source"`
	RatesUpdatedAt time.Time       `json:"ratesUpdatedAt"`
}
