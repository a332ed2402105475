package pricing

import (
	"github.com/shopspring/decimal"
)

// StandardRate is the rate name used for shipping and items without a tax category.
const StandardRate = "standard"

var hundred = decimal.NewFromInt(100)

// TaxRates is the tax context of a country. Rates are percentages.
type TaxRates struct {
	Standard decimal.Decimal
	Reduced  map[string]decimal.Decimal
}

// Rate returns the named rate, falling back to the standard rate.
func (r *TaxRates) Rate(name string) decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	if rate, ok := r.Reduced[name]; ok && name != StandardRate {
		return rate
	}
	return r.Standard
}

// Settings are the site-wide tax display switches.
type Settings struct {
	IncludeTaxesInPrices bool
	DisplayGrossPrices   bool
}

// Display picks the gross or net part of a taxed price.
func (s Settings) Display(t TaxedMoney) Money {
	if s.DisplayGrossPrices {
		return t.Gross
	}
	return t.Net
}

// Untaxed wraps a price as a TaxedMoney with equal net and gross.
func Untaxed(price Money) TaxedMoney {
	q := price.Quantize()
	return TaxedMoney{Net: q, Gross: q}
}

// ApplyTax splits price using the named rate. When includeTaxes is set the price
// is treated as gross, otherwise as net. A nil rates value means no taxes apply.
func ApplyTax(price Money, rates *TaxRates, rateName string, includeTaxes bool) TaxedMoney {
	if rates == nil {
		return Untaxed(price)
	}
	factor := decimal.NewFromInt(1).Add(rates.Rate(rateName).Div(hundred))
	if includeTaxes {
		net := Money{Amount: price.Amount.Div(factor), Currency: price.Currency}
		return TaxedMoney{Net: net.Quantize(), Gross: price.Quantize()}
	}
	gross := Money{Amount: price.Amount.Mul(factor), Currency: price.Currency}
	return TaxedMoney{Net: price.Quantize(), Gross: gross.Quantize()}
}

// TaxedShippingPrice applies the standard rate to a shipping price.
func TaxedShippingPrice(price Money, rates *TaxRates, includeTaxes bool) TaxedMoney {
	return ApplyTax(price, rates, StandardRate, includeTaxes)
}
