package fx_test

import (
	"testing"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/SscSPs/rental_fx/internal/utils/fx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func snapshot(rates map[domain.CurrencyCode]string) domain.RatesSnapshot {
	snap := domain.RatesSnapshot{Base: domain.KRW, Rates: map[domain.CurrencyCode]decimal.Decimal{}}
	for code, r := range rates {
		snap.Rates[code] = d(r)
	}
	return snap
}

var defaultRates = snapshot(map[domain.CurrencyCode]string{
	domain.USD: "0.00074",
	domain.JPY: "0.11",
	domain.CNY: "0.0053",
	domain.EUR: "0.00068",
})

// Display rates at a 2.5% margin; they share the 39/40 factor so KRW pivots repeat.
var displayRates = snapshot(map[domain.CurrencyCode]string{
	domain.USD: "0.0007215",
	domain.JPY: "0.10725",
	domain.CNY: "0.0051675",
	domain.EUR: "0.000663",
})

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		from   domain.CurrencyCode
		to     domain.CurrencyCode
		rates  domain.RatesSnapshot
		want   string
	}{
		{"krw to usd exact", "1000", domain.KRW, domain.USD, defaultRates, "0.74"},
		{"krw to usd rounds up", "1000", domain.KRW, domain.USD, snapshot(map[domain.CurrencyCode]string{domain.USD: "0.000741"}), "0.75"},
		{"krw to jpy has no decimals", "1005", domain.KRW, domain.JPY, defaultRates, "111"},
		{"usd to krw rounds up to whole won", "10", domain.USD, domain.KRW, defaultRates, "13514"},
		{"usd to eur pivots through krw", "100", domain.USD, domain.EUR, defaultRates, "91.90"},
		{"end to end display rate", "1500000", domain.KRW, domain.USD, snapshot(map[domain.CurrencyCode]string{domain.USD: "0.0007215"}), "1082.25"},
		{"zero amount", "0", domain.KRW, domain.EUR, defaultRates, "0"},
		{"usd to eur exact result is not bumped", "37", domain.USD, domain.EUR, displayRates, "34"},
		{"usd to jpy exact result is not bumped", "74", domain.USD, domain.JPY, displayRates, "11000"},
		{"usd to cny exact result is not bumped", "74", domain.USD, domain.CNY, displayRates, "530"},
		{"eur to usd inexact rounds up once", "1", domain.EUR, domain.USD, displayRates, "1.09"},
		{"usd to krw exact result is not bumped", "7.215", domain.USD, domain.KRW, displayRates, "10000"},
		{"negative amount rounds toward zero", "-1000", domain.KRW, domain.USD, snapshot(map[domain.CurrencyCode]string{domain.USD: "0.000741"}), "-0.74"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fx.Convert(d(tt.amount), tt.from, tt.to, tt.rates)
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestConvert_IdentityReturnsAmountUnchanged(t *testing.T) {
	for _, p := range domain.SupportedCurrencies() {
		amount := d("1234.56789")
		got, err := fx.Convert(amount, p.Code, p.Code, domain.RatesSnapshot{Base: domain.KRW})
		require.NoError(t, err)
		assert.True(t, amount.Equal(got), p.Code)
	}
}

func TestConvert_InvalidCurrency(t *testing.T) {
	_, err := fx.Convert(d("10"), "GBP", domain.USD, defaultRates)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCurrencyPair)

	_, err = fx.Convert(d("10"), domain.KRW, "XXX", defaultRates)
	assert.ErrorIs(t, err, apperrors.ErrInvalidCurrencyPair)
}

func TestConvert_RejectsForeignBase(t *testing.T) {
	usdBased := domain.RatesSnapshot{
		Base:  domain.USD,
		Rates: map[domain.CurrencyCode]decimal.Decimal{domain.EUR: d("0.92"), domain.KRW: d("1386")},
	}
	_, err := fx.Convert(d("10"), domain.USD, domain.EUR, usdBased)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = fx.Convert(d("10"), domain.USD, domain.EUR, domain.RatesSnapshot{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestConvert_MissingOrUnusableRate(t *testing.T) {
	tests := []struct {
		name  string
		rates domain.RatesSnapshot
	}{
		{"missing", snapshot(map[domain.CurrencyCode]string{domain.USD: "0.00074"})},
		{"zero", snapshot(map[domain.CurrencyCode]string{domain.EUR: "0"})},
		{"negative", snapshot(map[domain.CurrencyCode]string{domain.EUR: "-0.00068"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.Convert(d("1000"), domain.EUR, domain.KRW, tt.rates)
			assert.ErrorIs(t, err, apperrors.ErrMissingCurrencyRate)
		})
	}
}

func TestConvert_MarginConsistency(t *testing.T) {
	rate := d("0.00074")
	margin := d("2.5")
	record := domain.NewExchangeRateRecord(domain.USD, rate, margin, defaultRates.UpdatedAt)

	snap := domain.NewSnapshotFromRecords([]domain.ExchangeRateRecord{record})
	got, err := fx.Convert(d("1000000"), domain.KRW, domain.USD, snap)

	require.NoError(t, err)
	assert.True(t, d("721.50").Equal(got), "got %s", got)
}
