package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/forecast-engine/internal/domain"
)

func grid3x3(t *testing.T) *domain.Grid {
	t.Helper()
	g, err := domain.BuildGrid(3,
		domain.GridColumn{Name: "col_1", Values: domain.Nums(1, 2, 3)},
		domain.GridColumn{Name: "col_2", Values: domain.Nums(4, 5, 6)},
		domain.GridColumn{Name: "col_3", Values: domain.Nums(7, 8, 9)},
	)
	require.NoError(t, err)
	return g
}

func TestReconcile_Fresh(t *testing.T) {
	g, err := Reconcile(ReconcileOptions{
		Rows:          2,
		Cols:          3,
		Default:       domain.Pending,
		ColumnPrefix:  "product_",
		NumStaticCols: 1,
		StaticNames:   []string{"month"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"month", "product_1", "product_2"}, g.Columns())
	assert.Equal(t, 2, g.Rows())
	for _, name := range g.Columns() {
		values, _ := g.Column(name)
		for _, v := range values {
			assert.True(t, v.IsPending())
		}
	}
}

func TestReconcile_FreshNeedsStaticNames(t *testing.T) {
	_, err := Reconcile(ReconcileOptions{Rows: 2, Cols: 3, NumStaticCols: 2, StaticNames: []string{"month"}})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestReconcile_Identity(t *testing.T) {
	prev := grid3x3(t)
	out, err := Reconcile(ReconcileOptions{Rows: 3, Cols: 3, Previous: prev, ColumnPrefix: "col_"})
	require.NoError(t, err)
	assert.Same(t, prev, out)
	assert.Equal(t, []string{"col_1", "col_2", "col_3"}, out.Columns())
}

func TestReconcile_IdentityStillAppliesOverrides(t *testing.T) {
	prev := grid3x3(t)
	out, err := Reconcile(ReconcileOptions{
		Rows:      3,
		Cols:      3,
		Previous:  prev,
		Overrides: map[string][]domain.Value{"col_2": domain.Nums(0, 0, 0)},
	})
	require.NoError(t, err)

	got, _ := out.Column("col_2")
	assert.Equal(t, domain.Nums(0, 0, 0), got)
	// previous grid is untouched
	orig, _ := prev.Column("col_2")
	assert.Equal(t, domain.Nums(4, 5, 6), orig)
}

func TestReconcile_GrowthPreservesData(t *testing.T) {
	prev := grid3x3(t)
	out, err := Reconcile(ReconcileOptions{
		Rows:         5,
		Cols:         5,
		Previous:     prev,
		Default:      domain.Num(0),
		ColumnPrefix: "col_",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"col_1", "col_2", "col_3", "col_4", "col_5"}, out.Columns())
	want := map[string][]domain.Value{
		"col_1": domain.Nums(1, 2, 3, 0, 0),
		"col_2": domain.Nums(4, 5, 6, 0, 0),
		"col_3": domain.Nums(7, 8, 9, 0, 0),
		"col_4": domain.Nums(0, 0, 0, 0, 0),
		"col_5": domain.Nums(0, 0, 0, 0, 0),
	}
	for name, values := range want {
		got, err := out.Column(name)
		require.NoError(t, err)
		assert.Equal(t, values, got, name)
	}
}

func TestReconcile_Shrink(t *testing.T) {
	out, err := Reconcile(ReconcileOptions{Rows: 2, Cols: 2, Previous: grid3x3(t), Default: domain.Pending})
	require.NoError(t, err)

	assert.Equal(t, []string{"col_1", "col_2"}, out.Columns())
	got, _ := out.Column("col_2")
	assert.Equal(t, domain.Nums(4, 5), got)
}

func TestReconcile_NumberingContinuesAfterStaticColumns(t *testing.T) {
	prev, err := domain.BuildGrid(1,
		domain.GridColumn{Name: "month", Values: domain.Nums(1)},
		domain.GridColumn{Name: "progression", Values: domain.Nums(1)},
		domain.GridColumn{Name: "product_1", Values: domain.Nums(3)},
	)
	require.NoError(t, err)

	out, err := Reconcile(ReconcileOptions{
		Rows:          1,
		Cols:          5,
		Previous:      prev,
		Default:       domain.Pending,
		ColumnPrefix:  "product_",
		NumStaticCols: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"month", "progression", "product_1", "product_2", "product_3"}, out.Columns())
}

func TestReconcile_Deterministic(t *testing.T) {
	opts := ReconcileOptions{
		Rows:         4,
		Cols:         4,
		Previous:     grid3x3(t),
		Default:      domain.Pending,
		ColumnPrefix: "col_",
		Overrides: map[string][]domain.Value{
			"col_1": domain.Nums(9, 9, 9, 9),
			"col_4": domain.Nums(1, 1, 1, 1),
		},
	}
	a, err := Reconcile(opts)
	require.NoError(t, err)
	b, err := Reconcile(opts)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}

func TestReconcile_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		opts ReconcileOptions
	}{
		{"negative rows", ReconcileOptions{Rows: -1, Cols: 1}},
		{"zero cols", ReconcileOptions{Rows: 1, Cols: 0}},
		{"rows over bound", ReconcileOptions{Rows: 241, Cols: 1, MaxRows: 240}},
		{"cols over bound", ReconcileOptions{Rows: 1, Cols: 6, MaxCols: 5}},
		{"override length", ReconcileOptions{Rows: 2, Cols: 1, ColumnPrefix: "c", Overrides: map[string][]domain.Value{"c0": domain.Nums(1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconcile(tt.opts)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)
		})
	}
}

func TestFillColumnNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, FillColumnNames(2, []string{"a", "b", "c"}, "x", 0, 0))
	assert.Equal(t, []string{"a", "x1", "x2"}, FillColumnNames(3, []string{"a"}, "x", 1, 1))
	assert.Equal(t, []string{"x0", "x1"}, FillColumnNames(2, nil, "x", 0, 0))
	assert.Equal(t, []string{"x1", "x2"}, FillColumnNames(2, nil, "x", 0, 1))
	// x3 already exists, so numbering moves past it
	assert.Equal(t, []string{"x1", "x3", "x4"}, FillColumnNames(3, []string{"x1", "x3"}, "x", 0, 1))
}

func TestReconcile_FreshNumbersFromOne(t *testing.T) {
	g, err := Reconcile(ReconcileOptions{Rows: 2, Cols: 3, ColumnPrefix: "col_"})
	require.NoError(t, err)
	assert.Equal(t, []string{"col_1", "col_2", "col_3"}, g.Columns())

	g, err = Reconcile(ReconcileOptions{Rows: 2, Cols: 2, ColumnPrefix: "col_", ZeroIndexed: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"col_0", "col_1"}, g.Columns())
}

func TestReconcile_GrowthSkipsTakenNames(t *testing.T) {
	prev, err := domain.BuildGrid(1,
		domain.GridColumn{Name: "col_1", Values: domain.Nums(1)},
		domain.GridColumn{Name: "col_3", Values: domain.Nums(3)},
	)
	require.NoError(t, err)

	out, err := Reconcile(ReconcileOptions{Rows: 1, Cols: 3, Previous: prev, Default: domain.Num(0), ColumnPrefix: "col_"})
	require.NoError(t, err)
	assert.Equal(t, []string{"col_1", "col_3", "col_4"}, out.Columns())
	kept, _ := out.Column("col_3")
	assert.Equal(t, domain.Nums(3), kept)
}
