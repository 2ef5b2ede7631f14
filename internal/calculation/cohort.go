package calculation

import (
	"fmt"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// CohortProjection holds the two matrices produced by ProjectCohorts.
type CohortProjection struct {
	Active  *domain.CohortMatrix
	Leaving *domain.CohortMatrix
}

// RelativeRetention derives month-over-month retention from a cumulative
// progression curve: rel[i] = curve[i+1] / curve[i]. A zero step retains nobody.
func RelativeRetention(curve []domain.Value) []domain.Value {
	if len(curve) < 2 {
		return nil
	}
	rel := make([]domain.Value, len(curve)-1)
	for i := range rel {
		if f, ok := curve[i].Float(); ok && f == 0 && !curve[i+1].IsPending() {
			rel[i] = domain.Num(0)
			continue
		}
		rel[i] = curve[i+1].Div(curve[i])
	}
	return rel
}

// ProjectCohorts runs the cohort recurrence over axis, one step per period.
// Treatment months only line up with periods on a monthly axis; ProjectSeries
// takes care of that. entrants holds the new members of each period; curve is
// the cumulative progression curve whose length D is the treatment duration. initial, when given, replaces
// row 0 so a forecast can start with a pipeline already in flight.
//
// For t >= 1 and m >= 1:
//
//	active[t][m]  = active[t-1][m-1] * rel[m-1]
//	leaving[t][m] = active[t-1][m-1] - active[t][m]
//
// Column 0 of every row is that period's entrants; nobody leaves in month 0.
// Columns are named {prefix}month_{1..D} and {prefix}total.
func ProjectCohorts(axis domain.PeriodAxis, entrants, curve, initial []domain.Value, prefix string) (*CohortProjection, error) {
	d := len(curve)
	if d < 1 {
		return nil, fmt.Errorf("%w: treatment duration must be >= 1, got %d", domain.ErrInvalidArgument, d)
	}
	if initial != nil && len(initial) != d {
		return nil, fmt.Errorf("%w: initial state has %d values, expected %d (treatment duration)", domain.ErrInvalidArgument, len(initial), d)
	}
	if len(entrants) != axis.Len() {
		return nil, fmt.Errorf("%w: %d entrant counts for %d periods", domain.ErrInvalidShape, len(entrants), axis.Len())
	}

	n := len(entrants)
	rel := RelativeRetention(curve)
	active := newMatrix(n, d)
	leaving := newMatrix(n, d)

	if n > 0 {
		active[0][0] = entrants[0]
		if initial != nil {
			copy(active[0], initial)
		}
	}
	for t := 1; t < n; t++ {
		active[t][0] = entrants[t]
		for m := 1; m < d; m++ {
			prior := active[t-1][m-1]
			active[t][m] = prior.Mul(rel[m-1])
			leaving[t][m] = prior.Sub(active[t][m])
		}
	}

	activeTable, err := matrixTable(axis, active, d, prefix)
	if err != nil {
		return nil, err
	}
	leavingTable, err := matrixTable(axis, leaving, d, prefix)
	if err != nil {
		return nil, err
	}
	return &CohortProjection{
		Active:  &domain.CohortMatrix{Table: activeTable, Prefix: prefix, Duration: d},
		Leaving: &domain.CohortMatrix{Table: leavingTable, Prefix: prefix, Duration: d},
	}, nil
}

// ProjectSeries projects the named column of a table of any granularity. A yearly
// series is first spread to months; the matrices are always monthly.
func ProjectSeries(t *domain.PeriodTable, column string, curve, initial []domain.Value, prefix string) (*CohortProjection, error) {
	monthly, err := ToFiner(t)
	if err != nil {
		return nil, err
	}
	entrants, err := monthly.Column(column)
	if err != nil {
		return nil, err
	}
	return ProjectCohorts(monthly.Axis(), entrants, curve, initial, prefix)
}

func newMatrix(rows, cols int) [][]domain.Value {
	m := make([][]domain.Value, rows)
	for i := range m {
		m[i] = domain.Fill(cols, domain.Num(0))
	}
	return m
}

func matrixTable(axis domain.PeriodAxis, m [][]domain.Value, cols int, prefix string) (*domain.PeriodTable, error) {
	rows := len(m)
	out := domain.NewPeriodTable(axis)
	names := make([]string, cols)
	var err error
	for c := 0; c < cols; c++ {
		column := make([]domain.Value, rows)
		for r := range m {
			column[r] = m[r][c]
		}
		names[c] = domain.MonthColumnName(prefix, c+1)
		if out, err = out.WithColumn(names[c], column); err != nil {
			return nil, err
		}
	}
	totals, err := out.RowSums(names)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(domain.TotalColumnName(prefix), totals)
}
