package domain

import "fmt"

// Grid is an ordered set of equally long, uniquely named value columns.
// Rows are positional. Grids are treated as immutable: every With* method returns
// a new Grid and column slices are copied on the way in and out.
type Grid struct {
	names []string
	cols  map[string][]Value
	rows  int
}

// NewGrid creates an empty grid with a fixed row count.
func NewGrid(rows int) *Grid {
	return &Grid{cols: map[string][]Value{}, rows: rows}
}

// GridColumn is a name/values pair used to build grids in order.
type GridColumn struct {
	Name   string
	Values []Value
}

// BuildGrid creates a grid from ordered columns, checking lengths and names.
func BuildGrid(rows int, columns ...GridColumn) (*Grid, error) {
	if rows < 0 {
		return nil, fmt.Errorf("%w: rows must be >= 0, got %d", ErrInvalidArgument, rows)
	}
	g := NewGrid(rows)
	for _, c := range columns {
		if err := g.add(c.Name, c.Values); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func (g *Grid) add(name string, values []Value) error {
	if _, exists := g.cols[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
	}
	if len(values) != g.rows {
		return fmt.Errorf("%w: column %q has %d values, expected %d", ErrInvalidShape, name, len(values), g.rows)
	}
	cp := make([]Value, len(values))
	copy(cp, values)
	g.names = append(g.names, name)
	g.cols[name] = cp
	return nil
}

func (g *Grid) clone() *Grid {
	out := &Grid{names: append([]string(nil), g.names...), cols: make(map[string][]Value, len(g.cols)), rows: g.rows}
	for k, v := range g.cols {
		out.cols[k] = v
	}
	return out
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// NumColumns returns the number of columns.
func (g *Grid) NumColumns() int { return len(g.names) }

// Columns returns the column names in order.
func (g *Grid) Columns() []string { return append([]string(nil), g.names...) }

// Has reports whether the named column exists.
func (g *Grid) Has(name string) bool {
	_, ok := g.cols[name]
	return ok
}

// Column returns a copy of the named column.
func (g *Grid) Column(name string) ([]Value, error) {
	vals, ok := g.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: column %q", ErrNotFound, name)
	}
	return append([]Value(nil), vals...), nil
}

// At returns a single cell.
func (g *Grid) At(row int, name string) (Value, error) {
	vals, ok := g.cols[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: column %q", ErrNotFound, name)
	}
	if row < 0 || row >= g.rows {
		return Value{}, fmt.Errorf("%w: row %d out of range [0,%d)", ErrInvalidArgument, row, g.rows)
	}
	return vals[row], nil
}

// WithColumn returns a copy of g with a column appended.
func (g *Grid) WithColumn(name string, values []Value) (*Grid, error) {
	out := g.clone()
	if err := out.add(name, values); err != nil {
		return nil, err
	}
	return out, nil
}

// WithReplaced returns a copy of g with an existing column's values replaced.
func (g *Grid) WithReplaced(name string, values []Value) (*Grid, error) {
	if !g.Has(name) {
		return nil, fmt.Errorf("%w: column %q", ErrNotFound, name)
	}
	if len(values) != g.rows {
		return nil, fmt.Errorf("%w: column %q has %d values, expected %d", ErrInvalidShape, name, len(values), g.rows)
	}
	out := g.clone()
	out.cols[name] = append([]Value(nil), values...)
	return out, nil
}

// Equal compares names, order and every cell.
func (g *Grid) Equal(o *Grid) bool {
	if g.rows != o.rows || len(g.names) != len(o.names) {
		return false
	}
	for i, name := range g.names {
		if o.names[i] != name {
			return false
		}
		a, b := g.cols[name], o.cols[name]
		for r := range a {
			if !a[r].Equal(b[r]) {
				return false
			}
		}
	}
	return true
}
