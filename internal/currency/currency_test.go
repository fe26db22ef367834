package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToUSDIdentityForUSD(t *testing.T) {
	v := decimal.NewFromFloat(85.50)
	rate := decimal.NewFromInt(1200)

	assert.True(t, ToUSD(v, USD, rate).Equal(v))
	assert.True(t, FromUSD(v, USD, rate).Equal(v))
}

func TestARSConversionUsesSellRate(t *testing.T) {
	rate := decimal.NewFromInt(1200)

	usd := ToUSD(decimal.NewFromInt(120000), ARS, rate)
	assert.InDelta(t, 100.0, usd.InexactFloat64(), 0.0001)

	ars := FromUSD(decimal.NewFromInt(100), ARS, rate)
	assert.InDelta(t, 120000.0, ars.InexactFloat64(), 0.0001)
}

func TestRoundTrip(t *testing.T) {
	rate := decimal.NewFromFloat(1187.5)
	for _, v := range []float64{0, 1, 99.99, 123456.78} {
		x := decimal.NewFromFloat(v)
		got := ToUSD(FromUSD(x, ARS, rate), ARS, rate)
		assert.InDelta(t, v, got.InexactFloat64(), 1e-9)
	}
}

func TestNonPositiveRateFallsBack(t *testing.T) {
	v := decimal.NewFromInt(1200)

	usd := ToUSD(v, ARS, decimal.Zero)
	assert.InDelta(t, 1.0, usd.InexactFloat64(), 0.0001)

	usd = ToUSD(v, ARS, decimal.NewFromInt(-5))
	assert.InDelta(t, 1.0, usd.InexactFloat64(), 0.0001)

	ars := FromUSD(decimal.NewFromInt(1), ARS, decimal.Zero)
	assert.InDelta(t, 1200.0, ars.InexactFloat64(), 0.0001)
}

func TestCurrencyValid(t *testing.T) {
	assert.True(t, USD.Valid())
	assert.True(t, ARS.Valid())
	assert.False(t, Currency("EUR").Valid())
	assert.False(t, Currency("").Valid())
}
