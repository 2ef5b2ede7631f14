package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthEnds(t *testing.T, dates ...string) PeriodAxis {
	t.Helper()
	parsed := make([]time.Time, len(dates))
	for i, d := range dates {
		p, err := time.Parse(DateLayout, d)
		require.NoError(t, err)
		parsed[i] = p
	}
	axis, err := NewPeriodAxis(parsed, Month, 1)
	require.NoError(t, err)
	return axis
}

func TestBuildGrid(t *testing.T) {
	g, err := BuildGrid(2,
		GridColumn{Name: "a", Values: Nums(1, 2)},
		GridColumn{Name: "b", Values: []Value{Pending, Num(4)}},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, g.Columns())
	assert.Equal(t, 2, g.Rows())

	v, err := g.At(1, "b")
	require.NoError(t, err)
	assert.True(t, Num(4).Equal(v))

	_, err = g.At(2, "a")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = g.Column("c")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = BuildGrid(2, GridColumn{Name: "a", Values: Nums(1)})
	assert.ErrorIs(t, err, ErrInvalidShape)
	_, err = BuildGrid(1, GridColumn{Name: "a", Values: Nums(1)}, GridColumn{Name: "a", Values: Nums(2)})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
	_, err = BuildGrid(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGrid_Immutable(t *testing.T) {
	values := Nums(1, 2)
	g, err := BuildGrid(2, GridColumn{Name: "a", Values: values})
	require.NoError(t, err)

	values[0] = Num(99)
	col, _ := g.Column("a")
	assert.True(t, Num(1).Equal(col[0]), "input slice is copied")

	col[1] = Num(99)
	again, _ := g.Column("a")
	assert.True(t, Num(2).Equal(again[1]), "output slice is copied")

	g2, err := g.WithColumn("b", Nums(3, 4))
	require.NoError(t, err)
	assert.False(t, g.Has("b"))
	assert.True(t, g2.Has("b"))

	g3, err := g2.WithReplaced("a", Nums(5, 6))
	require.NoError(t, err)
	orig, _ := g2.Column("a")
	assert.True(t, Num(1).Equal(orig[0]))
	assert.False(t, g3.Equal(g2))

	_, err = g.WithReplaced("zz", Nums(1, 2))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = g.WithReplaced("a", Nums(1))
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestGrid_RowSums(t *testing.T) {
	g, err := BuildGrid(3,
		GridColumn{Name: "a", Values: Nums(1, 2, 3)},
		GridColumn{Name: "b", Values: []Value{Num(10), Pending, Num(30)}},
	)
	require.NoError(t, err)

	sums, err := g.RowSums(g.Columns())
	require.NoError(t, err)
	assert.True(t, Num(11).Equal(sums[0]))
	assert.True(t, sums[1].IsPending())
	assert.True(t, Num(33).Equal(sums[2]))

	_, err = g.RowSums([]string{"missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewPeriodAxis(t *testing.T) {
	axis := monthEnds(t, "2026-01-31", "2026-02-28")
	assert.Equal(t, 2, axis.Len())
	assert.Equal(t, Month, axis.Granularity())
	assert.True(t, axis.Equal(monthEnds(t, "2026-01-31", "2026-02-28")))
	assert.False(t, axis.Equal(monthEnds(t, "2026-01-31")))

	d := axis.Dates()
	d[0] = time.Time{}
	assert.Equal(t, 2026, axis.First().Year())

	jan := axis.At(0)
	_, err := NewPeriodAxis([]time.Time{jan, jan}, Month, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewPeriodAxis(nil, "week", 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewPeriodAxis(nil, Year, 13)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestParseGranularity(t *testing.T) {
	for in, want := range map[string]Granularity{"Month": Month, "monthly": Month, "YEARS": Year, "": Year} {
		g, err := ParseGranularity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, g, in)
	}
	_, err := ParseGranularity("quarter")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 12, Month.PeriodsPerYear())
	assert.Equal(t, 12, Year.Months())
}

func TestPeriodTable(t *testing.T) {
	axis := monthEnds(t, "2026-01-31", "2026-02-28")
	tbl, err := SingleSeries(axis, "units", Nums(3, 4))
	require.NoError(t, err)

	tbl2, err := tbl.WithColumn("price", Nums(10, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.NumColumns())

	name, values, ok := tbl2.LastColumn()
	require.True(t, ok)
	assert.Equal(t, "price", name)
	assert.Len(t, values, 2)

	_, _, ok = NewPeriodTable(axis).LastColumn()
	assert.False(t, ok)

	recs := tbl2.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, axis.At(1), recs[1].Date)
	assert.Equal(t, "units", recs[1].Values[0].Column)
	assert.True(t, Num(4).Equal(recs[1].Values[0].Value))

	_, err = tbl.WithColumn(DatesColumn, Nums(1, 2))
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	g, _ := BuildGrid(3, GridColumn{Name: "x", Values: Nums(1, 2, 3)})
	_, err = TableFromGrid(axis, g)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestCohortNames(t *testing.T) {
	c := CohortMatrix{Prefix: "drug_", Duration: 3}
	assert.Equal(t, "drug_month_2", c.MonthColumn(2))
	assert.Equal(t, "drug_total", c.TotalColumn())
}
