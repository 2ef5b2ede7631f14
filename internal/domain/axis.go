package domain

import (
	"fmt"
	"strings"
	"time"
)

// Granularity is the resolution of a period axis.
type Granularity string

const (
	Month Granularity = "month"
	Year  Granularity = "year"
)

// ParseGranularity accepts "month"/"year" in any case, plus the plural forms.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "month", "months", "monthly":
		return Month, nil
	case "year", "years", "yearly", "":
		return Year, nil
	}
	return "", fmt.Errorf("%w: granularity %q (want month or year)", ErrInvalidArgument, s)
}

// PeriodsPerYear returns 12 for Month and 1 for Year.
func (g Granularity) PeriodsPerYear() int {
	if g == Month {
		return 12
	}
	return 1
}

// Months returns the width of one period in months.
func (g Granularity) Months() int {
	if g == Month {
		return 1
	}
	return 12
}

func (g Granularity) Valid() bool { return g == Month || g == Year }

func (g *Granularity) UnmarshalText(text []byte) error {
	parsed, err := ParseGranularity(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// PeriodAxis is an ordered, strictly increasing list of period-end dates.
// It is never mutated after construction; accessors hand out copies.
type PeriodAxis struct {
	dates            []time.Time
	granularity      Granularity
	fiscalStartMonth int
}

// NewPeriodAxis builds an axis from already-computed period-end dates.
// Dates must be strictly increasing.
func NewPeriodAxis(dates []time.Time, g Granularity, fiscalStartMonth int) (PeriodAxis, error) {
	if !g.Valid() {
		return PeriodAxis{}, fmt.Errorf("%w: granularity %q", ErrInvalidArgument, g)
	}
	if fiscalStartMonth < 1 || fiscalStartMonth > 12 {
		return PeriodAxis{}, fmt.Errorf("%w: fiscal start month must be 1..12, got %d", ErrInvalidArgument, fiscalStartMonth)
	}
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return PeriodAxis{}, fmt.Errorf("%w: axis dates not increasing at index %d (%s after %s)",
				ErrInvalidArgument, i, dates[i].Format(DateLayout), dates[i-1].Format(DateLayout))
		}
	}
	cp := make([]time.Time, len(dates))
	copy(cp, dates)
	return PeriodAxis{dates: cp, granularity: g, fiscalStartMonth: fiscalStartMonth}, nil
}

// DateLayout is the rendering of axis dates in exports and error messages.
const DateLayout = "2006-01-02"

func (a PeriodAxis) Len() int                 { return len(a.dates) }
func (a PeriodAxis) Granularity() Granularity { return a.granularity }
func (a PeriodAxis) FiscalStartMonth() int    { return a.fiscalStartMonth }

// At returns the i-th period-end date.
func (a PeriodAxis) At(i int) time.Time { return a.dates[i] }

// Dates returns a copy of the period-end dates.
func (a PeriodAxis) Dates() []time.Time {
	cp := make([]time.Time, len(a.dates))
	copy(cp, a.dates)
	return cp
}

// First and Last panic on an empty axis, like slice indexing.
func (a PeriodAxis) First() time.Time { return a.dates[0] }
func (a PeriodAxis) Last() time.Time  { return a.dates[len(a.dates)-1] }

// Equal reports whether both axes carry the same dates and granularity.
func (a PeriodAxis) Equal(o PeriodAxis) bool {
	if a.granularity != o.granularity || len(a.dates) != len(o.dates) {
		return false
	}
	for i := range a.dates {
		if !a.dates[i].Equal(o.dates[i]) {
			return false
		}
	}
	return true
}
