package mapping

import (
	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/SscSPs/rental_fx/internal/models"
	"github.com/google/uuid"
)

// ToModelExchangeRate converts a domain ExchangeRateRecord to a model ExchangeRate
func ToModelExchangeRate(d domain.ExchangeRateRecord) models.ExchangeRate {
	return models.ExchangeRate{
		CurrencyCode:  d.Currency.String(),
		Rate:          d.Rate,
		MarginPercent: d.MarginPercent,
		DisplayRate:   d.DisplayRate,
		InverseRate:   d.InverseRate,
		FetchedAt:     d.FetchedAt,
		AuditFields:   models.AuditFields{CreatedAt: d.CreatedAt, LastUpdatedAt: d.LastUpdatedAt},
	}
}

// ToDomainExchangeRate converts a model ExchangeRate to a domain ExchangeRateRecord
func ToDomainExchangeRate(m models.ExchangeRate) domain.ExchangeRateRecord {
	return domain.ExchangeRateRecord{
		Currency:      domain.CurrencyCode(m.CurrencyCode),
		Rate:          m.Rate,
		MarginPercent: m.MarginPercent,
		DisplayRate:   m.DisplayRate,
		InverseRate:   m.InverseRate,
		FetchedAt:     m.FetchedAt,
		AuditFields:   domain.AuditFields{CreatedAt: m.CreatedAt, LastUpdatedAt: m.LastUpdatedAt},
	}
}

// ToDomainExchangeRates converts a slice of model rows, preserving order.
func ToDomainExchangeRates(ms []models.ExchangeRate) []domain.ExchangeRateRecord {
	out := make([]domain.ExchangeRateRecord, len(ms))
	for i, m := range ms {
		out[i] = ToDomainExchangeRate(m)
	}
	return out
}

// ToModelExchangeRateHistory builds the history row written alongside an upsert.
func ToModelExchangeRateHistory(d domain.ExchangeRateRecord) models.ExchangeRateHistory {
	return models.ExchangeRateHistory{
		HistoryID:    uuid.NewString(),
		CurrencyCode: d.Currency.String(),
		Rate:         d.Rate,
		DisplayRate:  d.DisplayRate,
		FetchedAt:    d.FetchedAt,
		CreatedAt:    d.LastUpdatedAt,
	}
}

// ToDomainExchangeRateHistory converts a model history row to a domain entry
func ToDomainExchangeRateHistory(m models.ExchangeRateHistory) domain.ExchangeRateHistoryEntry {
	return domain.ExchangeRateHistoryEntry{
		HistoryID:   m.HistoryID,
		Currency:    domain.CurrencyCode(m.CurrencyCode),
		Rate:        m.Rate,
		DisplayRate: m.DisplayRate,
		FetchedAt:   m.FetchedAt,
		CreatedAt:   m.CreatedAt,
	}
}
