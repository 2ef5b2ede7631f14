package calculation

import (
	"fmt"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// ProductDemand scales each treatment-month column of a cohort matrix by the
// product's utilization for that month and appends a total column. Columns are
// named {product}_month_{m} and {product}_total. The result keeps the cohort's
// monthly granularity; callers wanting yearly figures apply ToCoarser.
func ProductDemand(product string, cohort *domain.CohortMatrix, utilization *domain.Grid) (*domain.PeriodTable, error) {
	rates, err := utilization.Column(product)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", product, err)
	}
	if utilization.Rows() != cohort.Duration {
		return nil, fmt.Errorf("%w: utilization has %d treatment months, cohort has %d",
			domain.ErrInvalidShape, utilization.Rows(), cohort.Duration)
	}

	prefix := product + "_"
	out := domain.NewPeriodTable(cohort.Table.Axis())
	names := make([]string, cohort.Duration)
	for m := 1; m <= cohort.Duration; m++ {
		members, err := cohort.Table.Column(cohort.MonthColumn(m))
		if err != nil {
			return nil, err
		}
		scaled := make([]domain.Value, len(members))
		for i, v := range members {
			scaled[i] = v.Mul(rates[m-1])
		}
		names[m-1] = domain.MonthColumnName(prefix, m)
		if out, err = out.WithColumn(names[m-1], scaled); err != nil {
			return nil, err
		}
	}
	totals, err := out.RowSums(names)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(domain.TotalColumnName(prefix), totals)
}

// UtilizationGrid builds the treatment-month × product matrix from product
// definitions. Every product needs exactly duration utilization values.
func UtilizationGrid(duration int, products []domain.Product) (*domain.Grid, error) {
	columns := make([]domain.GridColumn, len(products))
	for i, p := range products {
		if len(p.Utilization) != duration {
			return nil, fmt.Errorf("%w: product %q has %d utilization values, expected %d",
				domain.ErrInvalidArgument, p.Name, len(p.Utilization), duration)
		}
		columns[i] = domain.GridColumn{Name: p.Name, Values: p.Utilization}
	}
	return domain.BuildGrid(duration, columns...)
}
