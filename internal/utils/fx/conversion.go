// Package fx holds the pure conversion arithmetic between supported currencies.
package fx

import (
	"fmt"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Convert converts amount from one supported currency to another through the
// base currency using the display rates in rates. The exact result
// amount × rate(to) / rate(from) is rounded up to the target currency's
// decimal places; an exact result is never bumped.
func Convert(amount decimal.Decimal, from, to domain.CurrencyCode, rates domain.RatesSnapshot) (decimal.Decimal, error) {
	fromProfile, ok := domain.LookupCurrency(from)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unsupported source currency %q", apperrors.ErrInvalidCurrencyPair, from)
	}
	toProfile, ok := domain.LookupCurrency(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unsupported target currency %q", apperrors.ErrInvalidCurrencyPair, to)
	}
	if fromProfile.Code == toProfile.Code {
		return amount, nil
	}
	if rates.Base != domain.BaseCurrency {
		return decimal.Zero, fmt.Errorf("%w: rates are quoted against %q, not %s", apperrors.ErrValidation, rates.Base, domain.BaseCurrency)
	}

	rateFrom, err := pivotRate(rates, from)
	if err != nil {
		return decimal.Zero, err
	}
	rateTo, err := pivotRate(rates, to)
	if err != nil {
		return decimal.Zero, err
	}

	return divCeil(amount.Mul(rateTo), rateFrom, toProfile.DecimalPlaces), nil
}

// divCeil returns num / den rounded toward positive infinity at places.
// den must be positive.
func divCeil(num, den decimal.Decimal, places int32) decimal.Decimal {
	// QuoRem truncates toward zero; only a positive remainder needs a bump.
	q, r := num.QuoRem(den, places)
	if r.IsPositive() {
		q = q.Add(decimal.New(1, -places))
	}
	return q
}

func pivotRate(rates domain.RatesSnapshot, code domain.CurrencyCode) (decimal.Decimal, error) {
	if code == domain.BaseCurrency {
		return decimal.NewFromInt(1), nil
	}
	return usableRate(rates, code)
}

func usableRate(rates domain.RatesSnapshot, code domain.CurrencyCode) (decimal.Decimal, error) {
	rate, ok := rates.Rate(code)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %s", apperrors.ErrMissingCurrencyRate, code)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: rate for %s is %s", apperrors.ErrMissingCurrencyRate, code, rate)
	}
	return rate, nil
}
