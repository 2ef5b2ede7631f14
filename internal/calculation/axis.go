package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/forecast-engine/internal/domain"
	"github.com/rpgo/forecast-engine/pkg/dateutil"
)

// GeneratePeriodAxis produces the period-end dates of a forecast that starts in
// startMonth of startYear and runs for numYears. Monthly axes carry numYears*12
// dates, yearly axes numYears dates. Every date is the last day of its period.
func GeneratePeriodAxis(startYear, numYears, startMonth int, g domain.Granularity) (domain.PeriodAxis, error) {
	if numYears < 1 {
		return domain.PeriodAxis{}, fmt.Errorf("%w: num_years must be >= 1, got %d", domain.ErrInvalidArgument, numYears)
	}
	if startMonth < 1 || startMonth > 12 {
		return domain.PeriodAxis{}, fmt.Errorf("%w: start_month must be 1..12, got %d", domain.ErrInvalidArgument, startMonth)
	}
	if !g.Valid() {
		return domain.PeriodAxis{}, fmt.Errorf("%w: granularity %q", domain.ErrInvalidArgument, g)
	}
	// the anchor is the period end just before the forecast starts; it is a reference point only
	anchor := dateutil.FirstOfMonth(startYear, startMonth).AddDate(0, 0, -1)
	return GeneratePeriods(anchor, numYears*g.PeriodsPerYear(), g, startMonth)
}

// GeneratePeriods returns n period-end dates following anchor at the given
// granularity. The anchor itself is never part of the axis.
func GeneratePeriods(anchor time.Time, n int, g domain.Granularity, fiscalStartMonth int) (domain.PeriodAxis, error) {
	if n < 1 {
		return domain.PeriodAxis{}, fmt.Errorf("%w: number of periods must be >= 1, got %d", domain.ErrInvalidArgument, n)
	}
	anchor = dateutil.EndOfMonth(anchor)
	step := g.Months()

	// generate n+1 ends starting at the anchor, then drop the anchor
	ends := make([]time.Time, 0, n+1)
	for k := 0; k <= n; k++ {
		ends = append(ends, dateutil.AddMonthsEnd(anchor, k*step))
	}
	return domain.NewPeriodAxis(ends[1:], g, fiscalStartMonth)
}
