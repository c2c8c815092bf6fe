package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney_Add(t *testing.T) {
	a := NewMoneyUSDFromFloat(10.50)
	b := NewMoneyUSDFromFloat(4.50)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(15.00)))
	assert.Equal(t, USD, sum.Currency())
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := NewMoneyUSDFromFloat(10)
	b := NewMoneyVES(decimal.NewFromInt(100))

	_, err := a.Add(b)
	assert.Error(t, err)
}

func TestMoney_MultiplyByInt(t *testing.T) {
	unit := NewMoneyUSDFromFloat(12.99)
	total := unit.MultiplyByInt(3)
	assert.True(t, total.Amount().Equal(decimal.NewFromFloat(38.97)))
}

func TestMoney_ConvertToVES(t *testing.T) {
	usd := NewMoneyUSDFromFloat(25.00)
	rate := decimal.NewFromFloat(36.50)

	ves, err := usd.ConvertToVES(rate)
	require.NoError(t, err)
	assert.Equal(t, VES, ves.Currency())
	assert.True(t, ves.Amount().Equal(decimal.NewFromFloat(912.50)))
}

func TestMoney_ConvertToVES_InvalidRate(t *testing.T) {
	usd := NewMoneyUSDFromFloat(25.00)

	_, err := usd.ConvertToVES(decimal.Zero)
	assert.Error(t, err)

	_, err = usd.ConvertToVES(decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestMoney_ConvertToVES_NonUSD(t *testing.T) {
	ves := NewMoneyVES(decimal.NewFromInt(100))
	_, err := ves.ConvertToVES(decimal.NewFromInt(36))
	assert.Error(t, err)
}

func TestMoney_Comparisons(t *testing.T) {
	a := NewMoneyUSDFromFloat(1.00)
	b := NewMoneyUSDFromFloat(2.00)

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gt, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, gt)

	assert.True(t, a.Equals(NewMoneyUSDFromFloat(1.00)))
	assert.False(t, a.Equals(b))
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyUSDFromFloat(49.99)

	data, err := m.MarshalJSON()
	require.NoError(t, err)

	var got Money
	require.NoError(t, got.UnmarshalJSON(data))
	assert.True(t, m.Equals(got))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("12.34"))
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(12.34)))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())
}
