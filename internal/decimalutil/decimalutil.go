// Package decimalutil holds the fixed-point helpers used for money, prices,
// quantities and weights. Nothing in this module converts those values through
// binary floating point; everything goes through shopspring/decimal.
package decimalutil

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scales of the persisted columns and of the serialized output.
const (
	PriceScale        = 6
	QuantityScale     = 10
	InitialValueScale = 2
	MoneyScale        = 2
	WeightScale       = 6
)

// DivisionPrecision is the number of fractional digits kept by Div. It is well
// above every persisted or serialized scale so the single final rounding is
// the only one that matters.
const DivisionPrecision = 28

// WeightSumTolerance is the accepted distance between a portfolio's weight sum and 1.
var WeightSumTolerance = decimal.New(1, -6)

var one = decimal.NewFromInt(1)

// Parse reads a decimal from its textual form. Exponent notation ("2.5E-2")
// is accepted since spreadsheets store some numbers that way.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

// Div divides a by b keeping DivisionPrecision fractional digits.
// Callers must rule out a zero divisor.
func Div(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, DivisionPrecision)
}

// RoundHalfUp rounds d to places fractional digits, ties away from zero.
func RoundHalfUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// Within reports whether |value - target| <= tolerance.
func Within(value, target, tolerance decimal.Decimal) bool {
	return value.Sub(target).Abs().LessThanOrEqual(tolerance)
}

// SumsToOne reports whether total is 1 within WeightSumTolerance.
func SumsToOne(total decimal.Decimal) bool {
	return Within(total, one, WeightSumTolerance)
}

// FormatMoney renders a value with MoneyScale digits ("500.00").
func FormatMoney(d decimal.Decimal) string {
	return RoundHalfUp(d, MoneyScale).StringFixed(MoneyScale)
}

// FormatWeight renders a weight with WeightScale digits ("1.000000").
func FormatWeight(d decimal.Decimal) string {
	return RoundHalfUp(d, WeightScale).StringFixed(WeightScale)
}
