package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(100.50), USD)
	require.NoError(t, err)
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	assert.Equal(t, USD, m.Currency())
}

func TestNewMoney_EmptyCurrency(t *testing.T) {
	_, err := NewMoney(decimal.NewFromInt(10), "")
	assert.Error(t, err)
}

func TestNewMoneyFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid decimal", "99.99", false},
		{"valid integer", "100", false},
		{"negative", "-5.25", false},
		{"garbage", "abc", true},
		{"empty", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMoneyFromString(tc.input, USD)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMoney_Add(t *testing.T) {
	a := MustMoney(decimal.NewFromInt(600), USD)
	b := MustMoney(decimal.NewFromInt(400), USD)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromInt(1000)))
}

func TestMoney_Add_CurrencyMismatch(t *testing.T) {
	a := MustMoney(decimal.NewFromInt(10), USD)
	b := MustMoney(decimal.NewFromInt(10), EUR)

	_, err := a.Add(b)
	assert.Error(t, err)
}

func TestMoney_Subtract(t *testing.T) {
	a := MustMoney(decimal.NewFromInt(1000), USD)
	b := MustMoney(decimal.NewFromInt(600), USD)

	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(400)))
}

func TestMoney_ClampNonNegative(t *testing.T) {
	neg := MustMoney(decimal.NewFromInt(-200), USD)
	pos := MustMoney(decimal.NewFromInt(200), USD)

	assert.True(t, neg.ClampNonNegative().IsZero())
	assert.True(t, pos.ClampNonNegative().Equals(pos))
}

func TestMoney_Comparisons(t *testing.T) {
	small := MustMoney(decimal.NewFromInt(5), USD)
	large := MustMoney(decimal.NewFromInt(50), USD)

	gt, err := large.GreaterThan(small)
	require.NoError(t, err)
	assert.True(t, gt)

	lt, err := small.LessThan(large)
	require.NoError(t, err)
	assert.True(t, lt)

	_, err = small.GreaterThan(MustMoney(decimal.NewFromInt(5), EUR))
	assert.Error(t, err)
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := MustMoney(decimal.NewFromFloat(123.45), MYR)

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("42.42"))
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.42)))
	assert.Equal(t, DefaultCurrency, m.Currency())

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())

	assert.Error(t, m.Scan(12345))
}

func TestMoney_String(t *testing.T) {
	m := MustMoney(decimal.NewFromFloat(7.5), USD)
	assert.Equal(t, "7.50 USD", m.String())
}
