package utils

import (
	"fmt"
	"strings"
	"sync"

	"github.com/SscSPs/rental_fx/internal/apperrors"
	"github.com/SscSPs/rental_fx/internal/core/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// localeSeparators are the grouping and decimal marks of one display locale.
type localeSeparators struct {
	group   string
	decimal string
}

var separatorCache sync.Map // language.Tag -> localeSeparators

// separatorsFor probes the x/text number formatter for the locale's marks.
func separatorsFor(tag language.Tag) localeSeparators {
	if v, ok := separatorCache.Load(tag); ok {
		return v.(localeSeparators)
	}
	p := message.NewPrinter(tag)

	seps := localeSeparators{group: ",", decimal: "."}
	// "1,000" / "1.000" / "1 000": everything between the first and last digit.
	if grouped := []rune(p.Sprintf("%d", 1000)); len(grouped) > 4 {
		seps.group = string(grouped[1 : len(grouped)-3])
	}
	if dec := []rune(p.Sprintf("%.1f", 1.5)); len(dec) > 2 {
		seps.decimal = string(dec[1 : len(dec)-1])
	}

	separatorCache.Store(tag, seps)
	return seps
}

// FormatCurrency renders amount in the currency's display locale with its symbol.
// It never rounds: at least DecimalPlaces fraction digits are printed, more when
// the amount carries them.
//
//	FormatCurrency(1082.25, USD)   -> "$1,082.25"
//	FormatCurrency(1082.25, EUR)   -> "1.082,25 €"
//	FormatCurrency(1500000, KRW)   -> "₩1,500,000"
func FormatCurrency(amount decimal.Decimal, code domain.CurrencyCode) (string, error) {
	profile, ok := domain.LookupCurrency(code)
	if !ok {
		return "", fmt.Errorf("%w: unsupported currency %q", apperrors.ErrInvalidCurrencyPair, code)
	}
	seps := separatorsFor(profile.Tag())

	negative := amount.IsNegative()
	abs := amount.Abs()

	intDigits, fracDigits, _ := strings.Cut(abs.String(), ".")
	for int32(len(fracDigits)) < profile.DecimalPlaces {
		fracDigits += "0"
	}

	var b strings.Builder
	if negative {
		b.WriteString("-")
	}
	if !profile.SymbolAfter {
		b.WriteString(profile.Symbol)
	}
	b.WriteString(groupDigits(intDigits, seps.group))
	if fracDigits != "" {
		b.WriteString(seps.decimal)
		b.WriteString(fracDigits)
	}
	if profile.SymbolAfter {
		b.WriteString(" ")
		b.WriteString(profile.Symbol)
	}
	return b.String(), nil
}

// FormatWithCurrencyPrecision formats an amount as a plain number with at least
// the currency's decimal places and no symbol or grouping.
func FormatWithCurrencyPrecision(amount decimal.Decimal, profile domain.CurrencyProfile) string {
	if -amount.Exponent() > profile.DecimalPlaces {
		return amount.String()
	}
	return amount.StringFixed(profile.DecimalPlaces)
}

// groupDigits inserts sep every three digits from the right.
func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
