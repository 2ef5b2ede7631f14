package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/forecast-engine/internal/domain"
)

func series(t *testing.T, axis domain.PeriodAxis, name string, values ...domain.Value) *domain.PeriodTable {
	t.Helper()
	table, err := domain.SingleSeries(axis, name, values)
	require.NoError(t, err)
	return table
}

func TestConcatAndTotal(t *testing.T) {
	axis := mustAxis(t, 2026, 2, 1, domain.Year)
	t1 := series(t, axis, "a", domain.Nums(1, 2)...)
	t2 := series(t, axis, "b", domain.Nums(3, 4)...)

	out, err := ConcatAndTotal([]*domain.PeriodTable{t1, t2}, "total")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "total"}, out.Columns())
	total, _ := out.Column("total")
	assert.Equal(t, domain.Nums(4, 6), total)
}

func TestConcatAndTotal_SingleTableHasNoTotal(t *testing.T) {
	axis := mustAxis(t, 2026, 2, 1, domain.Year)
	out, err := ConcatAndTotal([]*domain.PeriodTable{series(t, axis, "a", domain.Nums(1, 2)...)}, "total")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.Columns())
}

func TestConcatAndTotal_UsesRightmostColumns(t *testing.T) {
	axis := mustAxis(t, 2026, 2, 1, domain.Year)
	t1, err := series(t, axis, "units_a", domain.Nums(10, 10)...).WithColumn("total_a", domain.Nums(1, 1))
	require.NoError(t, err)
	t2 := series(t, axis, "total_b", domain.Nums(2, 3)...)

	out, err := ConcatAndTotal([]*domain.PeriodTable{t1, t2}, "total")
	require.NoError(t, err)
	total, _ := out.Column("total")
	assert.Equal(t, domain.Nums(3, 4), total)
}

func TestConcatAndTotal_PendingTotal(t *testing.T) {
	axis := mustAxis(t, 2026, 2, 1, domain.Year)
	t1 := series(t, axis, "a", domain.Pending, domain.Num(2))
	t2 := series(t, axis, "b", domain.Nums(3, 4)...)

	out, err := ConcatAndTotal([]*domain.PeriodTable{t1, t2}, "total")
	require.NoError(t, err)
	total, _ := out.Column("total")
	assert.True(t, total[0].IsPending())
	assert.Equal(t, domain.Num(6), total[1])
}

func TestConcatAndTotal_Errors(t *testing.T) {
	axis := mustAxis(t, 2026, 2, 1, domain.Year)
	longer := mustAxis(t, 2026, 3, 1, domain.Year)

	_, err := ConcatAndTotal(nil, "total")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = ConcatAndTotal([]*domain.PeriodTable{
		series(t, axis, "a", domain.Nums(1, 2)...),
		series(t, longer, "b", domain.Nums(1, 2, 3)...),
	}, "total")
	assert.ErrorIs(t, err, domain.ErrInvalidShape)

	_, err = ConcatAndTotal([]*domain.PeriodTable{
		series(t, axis, "a", domain.Nums(1, 2)...),
		series(t, axis, "a", domain.Nums(3, 4)...),
	}, "total")
	assert.ErrorIs(t, err, domain.ErrDuplicateColumn)
}
