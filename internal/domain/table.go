package domain

import (
	"fmt"
	"time"
)

// DatesColumn is the reserved name of the date column in exported records.
const DatesColumn = "dates"

// PeriodTable pairs a period axis with value columns of the same length.
type PeriodTable struct {
	axis PeriodAxis
	grid *Grid
}

// NewPeriodTable creates a table with no value columns.
func NewPeriodTable(axis PeriodAxis) *PeriodTable {
	return &PeriodTable{axis: axis, grid: NewGrid(axis.Len())}
}

// TableFromGrid attaches an axis to a grid of matching height.
func TableFromGrid(axis PeriodAxis, g *Grid) (*PeriodTable, error) {
	if g.Rows() != axis.Len() {
		return nil, fmt.Errorf("%w: grid has %d rows, axis has %d periods", ErrInvalidShape, g.Rows(), axis.Len())
	}
	if g.Has(DatesColumn) {
		return nil, fmt.Errorf("%w: %q is reserved for the date column", ErrDuplicateColumn, DatesColumn)
	}
	return &PeriodTable{axis: axis, grid: g}, nil
}

// SingleSeries is a convenience for a one-column table.
func SingleSeries(axis PeriodAxis, name string, values []Value) (*PeriodTable, error) {
	return NewPeriodTable(axis).WithColumn(name, values)
}

func (t *PeriodTable) Axis() PeriodAxis     { return t.axis }
func (t *PeriodTable) Len() int             { return t.axis.Len() }
func (t *PeriodTable) Grid() *Grid          { return t.grid }
func (t *PeriodTable) Columns() []string    { return t.grid.Columns() }
func (t *PeriodTable) NumColumns() int      { return t.grid.NumColumns() }
func (t *PeriodTable) Has(name string) bool { return t.grid.Has(name) }

// Column returns a copy of the named column or ErrNotFound.
func (t *PeriodTable) Column(name string) ([]Value, error) { return t.grid.Column(name) }

// WithColumn returns a new table with the column appended.
func (t *PeriodTable) WithColumn(name string, values []Value) (*PeriodTable, error) {
	if name == DatesColumn {
		return nil, fmt.Errorf("%w: %q is reserved for the date column", ErrDuplicateColumn, name)
	}
	g, err := t.grid.WithColumn(name, values)
	if err != nil {
		return nil, err
	}
	return &PeriodTable{axis: t.axis, grid: g}, nil
}

// LastColumn returns the rightmost value column. ok is false when the table has
// only its date column.
func (t *PeriodTable) LastColumn() (name string, values []Value, ok bool) {
	names := t.grid.names
	if len(names) == 0 {
		return "", nil, false
	}
	name = names[len(names)-1]
	return name, append([]Value(nil), t.grid.cols[name]...), true
}

// Record is one flattened table row.
type Record struct {
	Date   time.Time
	Values []NamedValue
}

// NamedValue is one cell of a Record, in column order.
type NamedValue struct {
	Column string
	Value  Value
}

// Records flattens the table into ordered row-records for serializers.
func (t *PeriodTable) Records() []Record {
	out := make([]Record, t.Len())
	for i := range out {
		rec := Record{Date: t.axis.At(i), Values: make([]NamedValue, 0, len(t.grid.names))}
		for _, name := range t.grid.names {
			rec.Values = append(rec.Values, NamedValue{Column: name, Value: t.grid.cols[name][i]})
		}
		out[i] = rec
	}
	return out
}

// RowSums sums the given columns row by row.
func (t *PeriodTable) RowSums(names []string) ([]Value, error) {
	return t.grid.RowSums(names)
}

// RowSums sums the given columns row by row; pending cells make that row pending.
func (g *Grid) RowSums(names []string) ([]Value, error) {
	out := Fill(g.rows, Num(0))
	for _, name := range names {
		vals, ok := g.cols[name]
		if !ok {
			return nil, fmt.Errorf("%w: column %q", ErrNotFound, name)
		}
		for i, v := range vals {
			out[i] = out[i].Add(v)
		}
	}
	return out, nil
}

// CohortMatrix is a table of members broken out by month of their own treatment,
// with columns {prefix}month_{1..D} followed by {prefix}total.
type CohortMatrix struct {
	Table    *PeriodTable
	Prefix   string
	Duration int
}

// MonthColumn names the column for treatment month m (1-based).
func (c *CohortMatrix) MonthColumn(m int) string { return MonthColumnName(c.Prefix, m) }

// TotalColumn names the row-sum column.
func (c *CohortMatrix) TotalColumn() string { return TotalColumnName(c.Prefix) }

// MonthColumnName is the naming rule shared by cohort and demand tables.
func MonthColumnName(prefix string, m int) string { return fmt.Sprintf("%smonth_%d", prefix, m) }

// TotalColumnName is the naming rule for per-matrix totals.
func TotalColumnName(prefix string) string { return prefix + "total" }
