package decimalutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestParse(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		v, err := Parse("0.25")
		require.NoError(t, err)
		assert.True(t, v.Equal(d("0.25")))
	})

	t.Run("exponent", func(t *testing.T) {
		v, err := Parse("2.5E-2")
		require.NoError(t, err)
		assert.True(t, v.Equal(d("0.025")), "got %s", v)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Parse("abc")
		assert.Error(t, err)
	})
}

func TestDiv(t *testing.T) {
	t.Run("exact_quantity", func(t *testing.T) {
		q := Div(d("0.25").Mul(d("1000000000")), d("100"))
		assert.True(t, q.Equal(d("2500000")), "got %s", q)
	})

	t.Run("keeps_precision", func(t *testing.T) {
		q := Div(d("1"), d("3"))
		assert.Equal(t, "0.3333333333333333333333333333", q.String())
	})
}

func TestRoundHalfUp(t *testing.T) {
	tests := []struct {
		in     string
		places int32
		want   string
	}{
		{"500", 2, "500"},
		{"0.0000005", 6, "0.000001"},
		{"0.0000004999", 6, "0"},
		{"123.455", 2, "123.46"},
		{"123.445", 2, "123.45"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := RoundHalfUp(d(tt.in), tt.places)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestSumsToOne(t *testing.T) {
	assert.True(t, SumsToOne(d("0.25").Add(d("0.25")).Add(d("0.5"))))
	assert.True(t, SumsToOne(d("0.9999995")))
	assert.True(t, SumsToOne(d("1.000001")))
	assert.False(t, SumsToOne(d("0.99")))
	assert.False(t, SumsToOne(d("1.0000011")))
	assert.False(t, SumsToOne(decimal.Zero))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "500.00", FormatMoney(d("500")))
	assert.Equal(t, "1234.57", FormatMoney(d("1234.5678")))
	assert.Equal(t, "1.000000", FormatWeight(d("1")))
	assert.Equal(t, "0.333333", FormatWeight(Div(d("1"), d("3"))))
	assert.Equal(t, "0.666667", FormatWeight(Div(d("2"), d("3"))))
	assert.Equal(t, "0.000000", FormatWeight(decimal.Zero))
}
