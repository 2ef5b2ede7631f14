package decimal

import (
	"errors"
	"math"
	"testing"
)

func TestConstructors(t *testing.T) {
	a := NewAmount(12.345)
	if a.String() != "12.35" { // rounded for display
		t.Fatalf("NewAmount display mismatch: got %s", a.String())
	}

	b, err := NewAmountFromString("123.45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Fixed(1) != "123.5" {
		t.Fatalf("Fixed(1) mismatch: got %s", b.Fixed(1))
	}

	if _, err := NewAmountFromString("not-a-number"); err == nil {
		t.Fatalf("expected error for invalid string")
	}
}

func TestGrouped(t *testing.T) {
	cases := []struct {
		in     float64
		places int
		out    string
	}{
		{0, 2, "0.00"},
		{12, 0, "12"},
		{999.999, 2, "1,000.00"},
		{1234567.5, 2, "1,234,567.50"},
		{-98765.4321, 1, "-98,765.4"},
		{-0.001, 2, "0.00"},
		{100000, 0, "100,000"},
	}
	for _, c := range cases {
		if got := NewAmount(c.in).Grouped(c.places); got != c.out {
			t.Errorf("Grouped(%v, %d) = %s, want %s", c.in, c.places, got, c.out)
		}
	}
}

func TestTotal(t *testing.T) {
	// 0.1 added ten times drifts in float64 but not in decimal
	values := make([]float64, 10)
	for i := range values {
		values[i] = 0.1
	}
	sum, err := Total(values...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sum.Fixed(10); got != "1.0000000000" {
		t.Fatalf("Total mismatch: got %s", got)
	}
	empty, _ := Total()
	if got := empty.Add(NewAmount(2.5)).String(); got != "2.50" {
		t.Fatalf("Add mismatch: got %s", got)
	}
}

func TestNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := FromFloat(f); !errors.Is(err, ErrNotFinite) {
			t.Errorf("FromFloat(%v) error = %v, want ErrNotFinite", f, err)
		}
		if _, err := Total(1, f); !errors.Is(err, ErrNotFinite) {
			t.Errorf("Total(1, %v) error = %v, want ErrNotFinite", f, err)
		}
	}
	a, err := FromFloat(-4.25)
	if err != nil || a.Fixed(2) != "-4.25" {
		t.Fatalf("FromFloat(-4.25) = %s, %v", a.Fixed(2), err)
	}
}
