package calculation

import (
	"fmt"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// ReconcileOptions describes the target shape of an editable grid and how new
// cells are filled.
type ReconcileOptions struct {
	Rows int
	Cols int
	// Previous is the grid the user has been editing, if any.
	Previous *domain.Grid
	// Default fills new cells, usually domain.Pending.
	Default domain.Value
	// ColumnDefaults overrides Default for new cells of specific columns.
	ColumnDefaults map[string]domain.Value
	ColumnPrefix   string
	// NumStaticCols leading columns are not auto-numbered.
	NumStaticCols int
	// StaticNames names the leading columns when there is no Previous grid.
	StaticNames []string
	// ZeroIndexed numbers auto-named columns from 0 instead of 1.
	ZeroIndexed bool
	// Overrides replace whole columns as the last step, even on surviving cells.
	Overrides map[string][]domain.Value
	// MaxRows and MaxCols bound the target shape when positive.
	MaxRows int
	MaxCols int
}

// Reconcile produces a grid of the requested shape. Values of the previous grid
// survive at their positions wherever the new shape still covers them; new
// columns are auto-named {prefix}{n}, continuing the previous numbering; new
// cells take the default. Identical inputs always produce identical output.
func Reconcile(opts ReconcileOptions) (*domain.Grid, error) {
	if opts.Rows < 0 {
		return nil, fmt.Errorf("%w: rows must be >= 0, got %d", domain.ErrInvalidArgument, opts.Rows)
	}
	if opts.Cols < 1 {
		return nil, fmt.Errorf("%w: cols must be >= 1, got %d", domain.ErrInvalidArgument, opts.Cols)
	}
	if opts.MaxRows > 0 && opts.Rows > opts.MaxRows {
		return nil, fmt.Errorf("%w: rows must be <= %d, got %d", domain.ErrInvalidArgument, opts.MaxRows, opts.Rows)
	}
	if opts.MaxCols > 0 && opts.Cols > opts.MaxCols {
		return nil, fmt.Errorf("%w: cols must be <= %d, got %d", domain.ErrInvalidArgument, opts.MaxCols, opts.Cols)
	}
	if opts.NumStaticCols < 0 {
		return nil, fmt.Errorf("%w: static column count must be >= 0, got %d", domain.ErrInvalidArgument, opts.NumStaticCols)
	}

	prev := opts.Previous
	if prev != nil && prev.NumColumns() == 0 {
		prev = nil
	}
	if prev != nil && len(opts.StaticNames) > 0 {
		return nil, fmt.Errorf("%w: static names only apply when there is no previous grid", domain.ErrInvalidArgument)
	}

	var (
		out *domain.Grid
		err error
	)
	switch {
	case prev == nil:
		out, err = freshGrid(opts)
	case prev.Rows() == opts.Rows && prev.NumColumns() == opts.Cols:
		if len(opts.Overrides) == 0 {
			return prev, nil
		}
		out = prev
	default:
		out, err = resizeGrid(prev, opts)
	}
	if err != nil {
		return nil, err
	}
	return applyOverrides(out, opts.Overrides)
}

func (o ReconcileOptions) indexBase() int {
	if o.ZeroIndexed {
		return 0
	}
	return 1
}

// FillColumnNames returns cols names: the leading names kept (or truncated),
// followed by {prefix}{n} names where n continues after the non-static names.
// Numbers whose name is already taken are skipped.
func FillColumnNames(cols int, leading []string, prefix string, numStatic, indexBase int) []string {
	if cols <= len(leading) {
		return append([]string(nil), leading[:cols]...)
	}
	names := append(make([]string, 0, cols), leading...)
	taken := make(map[string]bool, cols)
	for _, name := range leading {
		taken[name] = true
	}
	next := len(leading) - numStatic + indexBase
	for len(names) < cols {
		name := fmt.Sprintf("%s%d", prefix, next)
		next++
		if taken[name] {
			continue
		}
		taken[name] = true
		names = append(names, name)
	}
	return names
}

func freshGrid(opts ReconcileOptions) (*domain.Grid, error) {
	static := min(opts.NumStaticCols, opts.Cols)
	if len(opts.StaticNames) < static {
		return nil, fmt.Errorf("%w: %d static columns need names, got %d", domain.ErrInvalidArgument, static, len(opts.StaticNames))
	}
	names := FillColumnNames(opts.Cols, opts.StaticNames, opts.ColumnPrefix, opts.NumStaticCols, opts.indexBase())
	columns := make([]domain.GridColumn, len(names))
	for i, name := range names {
		columns[i] = domain.GridColumn{Name: name, Values: domain.Fill(opts.Rows, defaultFor(opts, name))}
	}
	return domain.BuildGrid(opts.Rows, columns...)
}

func resizeGrid(prev *domain.Grid, opts ReconcileOptions) (*domain.Grid, error) {
	names := FillColumnNames(opts.Cols, prev.Columns(), opts.ColumnPrefix, opts.NumStaticCols, opts.indexBase())
	keep := min(prev.Rows(), opts.Rows)

	columns := make([]domain.GridColumn, len(names))
	for i, name := range names {
		values := domain.Fill(opts.Rows, defaultFor(opts, name))
		if old, err := prev.Column(name); err == nil {
			copy(values[:keep], old[:keep])
		}
		columns[i] = domain.GridColumn{Name: name, Values: values}
	}
	return domain.BuildGrid(opts.Rows, columns...)
}

func defaultFor(opts ReconcileOptions, name string) domain.Value {
	if v, ok := opts.ColumnDefaults[name]; ok {
		return v
	}
	return opts.Default
}

func applyOverrides(g *domain.Grid, overrides map[string][]domain.Value) (*domain.Grid, error) {
	// follow column order so the result does not depend on map iteration
	for _, name := range g.Columns() {
		values, ok := overrides[name]
		if !ok {
			continue
		}
		if len(values) != g.Rows() {
			return nil, fmt.Errorf("%w: override for column %q has %d values, expected %d",
				domain.ErrInvalidArgument, name, len(values), g.Rows())
		}
		var err error
		if g, err = g.WithReplaced(name, values); err != nil {
			return nil, err
		}
	}
	return g, nil
}
