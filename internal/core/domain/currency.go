package domain

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// CurrencyCode is an ISO 4217 code from the closed set the platform prices in.
type CurrencyCode string

const (
	KRW CurrencyCode = "KRW"
	USD CurrencyCode = "USD"
	JPY CurrencyCode = "JPY"
	CNY CurrencyCode = "CNY"
	EUR CurrencyCode = "EUR"
)

// BaseCurrency is the currency all provider rates and stored records are denominated in.
const BaseCurrency = KRW

// CurrencyProfile describes how a supported currency is displayed and rounded.
type CurrencyProfile struct {
	Code          CurrencyCode `json:"code"`
	Symbol        string       `json:"symbol"`
	DisplayLocale string       `json:"displayLocale"` // BCP 47 tag, e.g. "ko-KR"
	DecimalPlaces int32        `json:"decimalPlaces"`
	SymbolAfter   bool         `json:"symbolAfter"` // "1.082,25 €" rather than "€1.082,25"
}

// Unit returns the ISO unit from golang.org/x/text for the profile's code.
func (p CurrencyProfile) Unit() currency.Unit {
	return currency.MustParseISO(string(p.Code))
}

// Tag returns the parsed language tag of the display locale.
func (p CurrencyProfile) Tag() language.Tag {
	return language.MustParse(p.DisplayLocale)
}

// currencyProfiles is the registry. Order is the canonical iteration order.
var currencyProfiles = []CurrencyProfile{
	{Code: KRW, Symbol: "₩", DisplayLocale: "ko-KR", DecimalPlaces: 0},
	{Code: USD, Symbol: "$", DisplayLocale: "en-US", DecimalPlaces: 2},
	{Code: JPY, Symbol: "¥", DisplayLocale: "ja-JP", DecimalPlaces: 0},
	{Code: CNY, Symbol: "¥", DisplayLocale: "zh-CN", DecimalPlaces: 2},
	{Code: EUR, Symbol: "€", DisplayLocale: "de-DE", DecimalPlaces: 2, SymbolAfter: true},
}

var profilesByCode = func() map[CurrencyCode]CurrencyProfile {
	m := make(map[CurrencyCode]CurrencyProfile, len(currencyProfiles))
	for _, p := range currencyProfiles {
		// Panics at init if the registry carries a non-ISO code or a bad locale.
		_ = p.Unit()
		_ = p.Tag()
		m[p.Code] = p
	}
	return m
}()

// SupportedCurrencies returns every registered profile in canonical order.
func SupportedCurrencies() []CurrencyProfile {
	out := make([]CurrencyProfile, len(currencyProfiles))
	copy(out, currencyProfiles)
	return out
}

// QuoteCurrencies returns the supported codes other than the base currency.
func QuoteCurrencies() []CurrencyCode {
	codes := make([]CurrencyCode, 0, len(currencyProfiles)-1)
	for _, p := range currencyProfiles {
		if p.Code != BaseCurrency {
			codes = append(codes, p.Code)
		}
	}
	return codes
}

// LookupCurrency returns the profile for code.
func LookupCurrency(code CurrencyCode) (CurrencyProfile, bool) {
	p, ok := profilesByCode[code]
	return p, ok
}

// ParseCurrencyCode normalises s and checks it against the registry.
func ParseCurrencyCode(s string) (CurrencyCode, bool) {
	code := CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := profilesByCode[code]
	return code, ok
}

// IsSupported reports whether code is in the registry.
func (c CurrencyCode) IsSupported() bool {
	_, ok := profilesByCode[c]
	return ok
}

func (c CurrencyCode) String() string {
	return string(c)
}
