package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/forecast-engine/internal/domain"
	"github.com/rpgo/forecast-engine/pkg/dateutil"
)

// ToCoarser converts a monthly table to yearly by summing every 12 consecutive
// rows, starting at row 0. Each yearly date is the date of the last month in its
// group. A group that contains a pending cell yields a pending sum for that column.
// A table that is already yearly is returned as is.
func ToCoarser(t *domain.PeriodTable) (*domain.PeriodTable, error) {
	axis := t.Axis()
	if axis.Granularity() == domain.Year {
		return t, nil
	}
	if t.Len()%12 != 0 {
		return nil, fmt.Errorf("%w: monthly table has %d rows, expected a multiple of 12", domain.ErrInvalidShape, t.Len())
	}
	years := t.Len() / 12
	if years == 0 {
		return nil, fmt.Errorf("%w: monthly table has no rows", domain.ErrInvalidShape)
	}

	dates := axis.Dates()
	yearEnds := make([]time.Time, 0, years)
	for y := 0; y < years; y++ {
		yearEnds = append(yearEnds, dates[y*12+11])
	}
	yearly, err := domain.NewPeriodAxis(yearEnds, domain.Year, axis.FiscalStartMonth())
	if err != nil {
		return nil, err
	}

	out := domain.NewPeriodTable(yearly)
	for _, name := range t.Columns() {
		monthly, _ := t.Column(name)
		sums := make([]domain.Value, years)
		for y := range sums {
			sums[y] = domain.Sum(monthly[y*12 : y*12+12]...)
		}
		if out, err = out.WithColumn(name, sums); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ToFiner converts a yearly table to monthly by spreading each yearly value
// evenly over its twelve months. The monthly axis is regenerated from the
// period end twelve months before the first yearly date. A table that is already
// monthly is returned as is.
func ToFiner(t *domain.PeriodTable) (*domain.PeriodTable, error) {
	axis := t.Axis()
	if axis.Granularity() == domain.Month {
		return t, nil
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("%w: yearly table has no rows", domain.ErrInvalidShape)
	}

	anchor := dateutil.AddMonthsEnd(axis.First(), -12)
	monthly, err := GeneratePeriods(anchor, t.Len()*12, domain.Month, axis.FiscalStartMonth())
	if err != nil {
		return nil, err
	}
	for y := 0; y < t.Len(); y++ {
		if got := monthly.At(y*12 + 11); !got.Equal(axis.At(y)) {
			return nil, fmt.Errorf("%w: yearly dates are not evenly spaced twelve months apart (period %d is %s, expected %s)",
				domain.ErrInvalidShape, y, axis.At(y).Format(domain.DateLayout), got.Format(domain.DateLayout))
		}
	}

	twelve := domain.Num(12)
	out := domain.NewPeriodTable(monthly)
	for _, name := range t.Columns() {
		yearlyVals, _ := t.Column(name)
		spread := make([]domain.Value, 0, len(yearlyVals)*12)
		for _, v := range yearlyVals {
			share := v.Div(twelve)
			for m := 0; m < 12; m++ {
				spread = append(spread, share)
			}
		}
		if out, err = out.WithColumn(name, spread); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ToGranularity converts t to the requested granularity.
func ToGranularity(t *domain.PeriodTable, g domain.Granularity) (*domain.PeriodTable, error) {
	if g == domain.Month {
		return ToFiner(t)
	}
	return ToCoarser(t)
}
