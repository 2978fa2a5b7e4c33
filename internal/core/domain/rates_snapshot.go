package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSource tells which cache tier produced a snapshot.
type RateSource string

const (
	RateSourceFreshCache RateSource = "fresh-cache"
	RateSourceRemote     RateSource = "remote"
	RateSourceStaleCache RateSource = "stale-cache"
	RateSourceBootstrap  RateSource = "bootstrap"
)

// RatesSnapshot is the compact rate table consumed by conversion.
// Rates hold display rates (units of currency per 1 unit of Base).
type RatesSnapshot struct {
	Base      CurrencyCode                     `json:"base"`
	Rates     map[CurrencyCode]decimal.Decimal `json:"rates"`
	UpdatedAt time.Time                        `json:"updatedAt"` // server-side fetch time
	CachedAt  time.Time                        `json:"cachedAt"`  // local write time
	Source    RateSource                       `json:"source,omitempty"`
}

// Rate returns the rate for code. The base currency always has rate 1.
func (s RatesSnapshot) Rate(code CurrencyCode) (decimal.Decimal, bool) {
	if code == s.Base {
		return decimal.NewFromInt(1), true
	}
	r, ok := s.Rates[code]
	return r, ok
}

// IsEmpty reports whether the snapshot carries no rates.
func (s RatesSnapshot) IsEmpty() bool {
	return len(s.Rates) == 0
}

// IsFresh reports whether the snapshot was cached less than ttl before now.
func (s RatesSnapshot) IsFresh(now time.Time, ttl time.Duration) bool {
	if s.CachedAt.IsZero() {
		return false
	}
	return now.Sub(s.CachedAt) < ttl
}

// Clone returns a deep copy so callers cannot mutate a shared rate map.
func (s RatesSnapshot) Clone() RatesSnapshot {
	out := s
	out.Rates = make(map[CurrencyCode]decimal.Decimal, len(s.Rates))
	for k, v := range s.Rates {
		out.Rates[k] = v
	}
	return out
}

// WithSource returns a copy tagged with src.
func (s RatesSnapshot) WithSource(src RateSource) RatesSnapshot {
	out := s.Clone()
	out.Source = src
	return out
}

// NewSnapshotFromRecords builds a snapshot of display rates from stored records.
// UpdatedAt is the latest FetchedAt among the records.
func NewSnapshotFromRecords(records []ExchangeRateRecord) RatesSnapshot {
	snap := RatesSnapshot{
		Base:  BaseCurrency,
		Rates: make(map[CurrencyCode]decimal.Decimal, len(records)),
	}
	for _, r := range records {
		snap.Rates[r.Currency] = r.DisplayRate
		if r.FetchedAt.After(snap.UpdatedAt) {
			snap.UpdatedAt = r.FetchedAt
		}
	}
	return snap
}

// bootstrapRates is the last-resort table used before any snapshot has ever been cached.
var bootstrapRates = map[CurrencyCode]string{
	USD: "0.00074",
	JPY: "0.11",
	CNY: "0.0053",
	EUR: "0.00068",
}

// BootstrapSnapshot returns the hardcoded fallback table. CachedAt and UpdatedAt are zero.
func BootstrapSnapshot() RatesSnapshot {
	snap := RatesSnapshot{
		Base:   BaseCurrency,
		Rates:  make(map[CurrencyCode]decimal.Decimal, len(bootstrapRates)),
		Source: RateSourceBootstrap,
	}
	for code, r := range bootstrapRates {
		snap.Rates[code] = decimal.RequireFromString(r)
	}
	return snap
}
