// Package pricing turns stored prices into tax-split and displayable money values.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Money is an amount in a single currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney builds a Money value with an upper-cased currency code.
func NewMoney(amount decimal.Decimal, currencyCode string) Money {
	return Money{Amount: amount, Currency: strings.ToUpper(currencyCode)}
}

// Quantize rounds the amount to the currency's minor units.
func (m Money) Quantize() Money {
	return Money{Amount: m.Amount.Round(Scale(m.Currency)), Currency: m.Currency}
}

func (m Money) String() string { return Format(m) }

// TaxedMoney is a price split into its net and gross parts.
type TaxedMoney struct {
	Net   Money `json:"net"`
	Gross Money `json:"gross"`
}

// Tax is the difference between gross and net.
func (t TaxedMoney) Tax() Money {
	return Money{Amount: t.Gross.Amount.Sub(t.Net.Amount), Currency: t.Gross.Currency}
}

// ValidateCurrency reports whether code is a known ISO 4217 currency.
func ValidateCurrency(code string) error {
	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("invalid currency code %q: %w", code, err)
	}
	return nil
}

// Scale is the number of minor-unit digits of the currency. Unknown currencies use 2.
func Scale(code string) int32 {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// Format renders money as "<ISO code> <amount>" using English number formatting.
func Format(m Money) string {
	return FormatLocale(m, language.English)
}

// FormatLocale renders money with the number conventions of the given locale.
func FormatLocale(m Money, tag language.Tag) string {
	scale := Scale(m.Currency)
	p := message.NewPrinter(tag)
	amount := m.Amount.Round(scale).InexactFloat64()
	return p.Sprintf("%s %v", m.Currency, number.Decimal(amount, number.Scale(int(scale))))
}
