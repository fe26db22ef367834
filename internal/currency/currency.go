// Package currency implements the bidirectional USD⇄ARS conversion that every
// valuation in the system goes through. Conversions are pure functions of the
// value, its currency tag and the sell rate in effect.
package currency

import "github.com/shopspring/decimal"

// Currency tags a monetary value. USD is the canonical valuation unit; ARS is
// the local operating currency.
type Currency string

const (
	USD Currency = "USD"
	ARS Currency = "ARS"
)

func (c Currency) Valid() bool { return c == USD || c == ARS }

// FallbackSellRate is the documented safe default used whenever a conversion
// would otherwise divide by a zero or negative rate, and by the rate provider
// when the external feed is unreachable.
var FallbackSellRate = decimal.NewFromInt(1200)

// ToUSD converts value into USD. USD values pass through unchanged; ARS
// values are divided by the sell rate. A non-positive rate is substituted
// with FallbackSellRate so the conversion never produces a division by zero.
func ToUSD(value decimal.Decimal, c Currency, rate decimal.Decimal) decimal.Decimal {
	if c == USD {
		return value
	}
	if !rate.IsPositive() {
		rate = FallbackSellRate
	}
	return value.Div(rate)
}

// FromUSD converts a USD value into the given currency at the sell rate.
func FromUSD(valueUSD decimal.Decimal, c Currency, rate decimal.Decimal) decimal.Decimal {
	if c == USD {
		return valueUSD
	}
	if !rate.IsPositive() {
		rate = FallbackSellRate
	}
	return valueUSD.Mul(rate)
}
