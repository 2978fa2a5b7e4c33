package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RatesRefreshedEvent is published after a refresh stored at least one record.
type RatesRefreshedEvent struct {
	EventID   string                           `json:"eventId"`
	Base      CurrencyCode                     `json:"base"`
	Rates     map[CurrencyCode]decimal.Decimal `json:"rates"` // display rates
	Skipped   []CurrencyCode                   `json:"skipped,omitempty"`
	FetchedAt time.Time                        `json:"fetchedAt"`
}
