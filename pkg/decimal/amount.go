package decimal

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a forecast figure held at decimal precision for display and totals.
type Amount struct {
	decimal.Decimal
}

// ErrNotFinite is returned for NaN and the infinities, which have no decimal form.
var ErrNotFinite = errors.New("not a finite number")

// NewAmount creates an Amount from a float64. It panics on NaN or an infinity;
// use FromFloat for unchecked input.
func NewAmount(value float64) Amount {
	return Amount{decimal.NewFromFloat(value)}
}

// FromFloat is NewAmount for values that may not be finite.
func FromFloat(value float64) (Amount, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Amount{}, fmt.Errorf("%w: %v", ErrNotFinite, value)
	}
	return NewAmount(value), nil
}

// NewAmountFromString creates an Amount from a string
func NewAmountFromString(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, err
	}
	return Amount{d}, nil
}

// Total adds float figures in decimal arithmetic so long columns do not
// accumulate binary rounding error.
func Total(values ...float64) (Amount, error) {
	sum := decimal.Zero
	for _, v := range values {
		a, err := FromFloat(v)
		if err != nil {
			return Amount{}, err
		}
		sum = sum.Add(a.Decimal)
	}
	return Amount{sum}, nil
}

// Add adds another Amount
func (a Amount) Add(other Amount) Amount {
	return Amount{a.Decimal.Add(other.Decimal)}
}

// Fixed renders the amount with exactly places decimals.
func (a Amount) Fixed(places int) string {
	return a.Decimal.StringFixed(int32(places))
}

// Grouped renders the amount with exactly places decimals and thousands
// separators, e.g. "-1,234,567.50".
func (a Amount) Grouped(places int) string {
	rounded := a.Decimal.Round(int32(places))
	s := rounded.Abs().StringFixed(int32(places))
	intPart, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// String returns the two-decimal representation
func (a Amount) String() string {
	return a.Fixed(2)
}
