package calculation

import (
	"fmt"
	"math"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// GrowthSeries compounds a base patient count yearly: year one is base and
// every following year is floor(previous * (1 + rate)).
func GrowthSeries(base int, rate float64, years int) ([]domain.Value, error) {
	switch {
	case years < 1:
		return nil, fmt.Errorf("%w: growth series needs at least one year, got %d", domain.ErrInvalidArgument, years)
	case base < 1:
		return nil, fmt.Errorf("%w: patient count must be >= 1, got %d", domain.ErrInvalidArgument, base)
	case math.IsNaN(rate) || math.IsInf(rate, 0) || rate < -1:
		return nil, fmt.Errorf("%w: growth rate must be a finite number >= -1, got %v", domain.ErrInvalidArgument, rate)
	case rate > 0 && years < 2:
		return nil, fmt.Errorf("%w: growth rate %g needs at least two years", domain.ErrInvalidArgument, rate)
	}

	out := make([]domain.Value, years)
	prev := float64(base)
	out[0] = domain.Num(prev)
	for y := 1; y < years; y++ {
		prev = math.Floor(prev * (1 + rate))
		out[y] = domain.Num(prev)
	}
	return out, nil
}

// EntrantSeries builds the patient stream e on axis as a single column. A
// single-input stream is grown over the yearly horizon and then converted to
// the axis granularity, so a monthly axis receives a twelfth of each year.
func EntrantSeries(axis domain.PeriodAxis, h domain.Horizon, e domain.Epidemiology, column string) (*domain.PeriodTable, error) {
	if !e.Single() {
		return domain.SingleSeries(axis, column, e.PatientCounts)
	}
	counts, err := GrowthSeries(e.PatientCount, e.GrowthRate, h.NumYears)
	if err != nil {
		return nil, err
	}
	yearly, err := GeneratePeriodAxis(h.StartYear, h.NumYears, h.Month(), domain.Year)
	if err != nil {
		return nil, err
	}
	t, err := domain.SingleSeries(yearly, column, counts)
	if err != nil {
		return nil, err
	}
	t, err = ToGranularity(t, axis.Granularity())
	if err != nil {
		return nil, err
	}
	if !t.Axis().Equal(axis) {
		return nil, fmt.Errorf("%w: grown patient stream does not match the %d-period axis", domain.ErrInvalidShape, axis.Len())
	}
	return t, nil
}
