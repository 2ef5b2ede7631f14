package calculation

import (
	"fmt"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// ConcatAndTotal merges tables column-wise and, when at least two of them have
// a rightmost value column, appends totalName holding the sum of those columns.
// A single contributing table gets no total. All tables must share the axis length
// and column names must not collide.
func ConcatAndTotal(tables []*domain.PeriodTable, totalName string) (*domain.PeriodTable, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no tables to combine", domain.ErrInvalidArgument)
	}
	rows := tables[0].Len()
	out := domain.NewPeriodTable(tables[0].Axis())
	var totals [][]domain.Value

	for i, t := range tables {
		if t.Len() != rows {
			return nil, fmt.Errorf("%w: table %d has %d periods, expected %d", domain.ErrInvalidShape, i, t.Len(), rows)
		}
		if _, last, ok := t.LastColumn(); ok {
			totals = append(totals, last)
		}
		for _, name := range t.Columns() {
			values, _ := t.Column(name)
			var err error
			if out, err = out.WithColumn(name, values); err != nil {
				return nil, fmt.Errorf("table %d: %w", i, err)
			}
		}
	}

	if len(totals) < 2 {
		return out, nil
	}
	sum := domain.Fill(rows, domain.Num(0))
	for _, col := range totals {
		for r, v := range col {
			sum[r] = sum[r].Add(v)
		}
	}
	return out.WithColumn(totalName, sum)
}
