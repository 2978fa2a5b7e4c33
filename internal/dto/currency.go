package dto

import "github.com/SscSPs/rental_fx/internal/core/domain"

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	Code          string `json:"code"`
	Symbol        string `json:"symbol"`
	DisplayLocale string `json:"displayLocale"`
	DecimalPlaces int32  `json:"decimalPlaces"`
	SymbolAfter   bool   `json:"symbolAfter"`
	IsBase        bool   `json:"isBase"`
}

// ToCurrencyResponse converts a domain.CurrencyProfile to CurrencyResponse DTO
func ToCurrencyResponse(curr *domain.CurrencyProfile) CurrencyResponse {
	return CurrencyResponse{
		Code:          curr.Code.String(),
		Symbol:        curr.Symbol,
		DisplayLocale: curr.DisplayLocale,
		DecimalPlaces: curr.DecimalPlaces,
		SymbolAfter:   curr.SymbolAfter,
		IsBase:        curr.Code == domain.BaseCurrency,
	}
}

// ToListCurrencyResponse converts a slice of profiles to a slice of CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.CurrencyProfile) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i := range currencies {
		res[i] = ToCurrencyResponse(&currencies[i])
	}
	return res
}
