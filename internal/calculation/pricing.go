package calculation

import (
	"fmt"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// ApplyPrice multiplies a table's rightmost column by a per-period price and
// returns the table with Price_{name} and Total_{name} appended.
func ApplyPrice(source *domain.PeriodTable, name string, prices []domain.Value) (*domain.PeriodTable, error) {
	_, units, ok := source.LastColumn()
	if !ok {
		return nil, fmt.Errorf("%w: source table has no value column to price", domain.ErrInvalidShape)
	}
	if len(prices) != source.Len() {
		return nil, fmt.Errorf("%w: %d prices for %d periods", domain.ErrInvalidShape, len(prices), source.Len())
	}
	out, err := source.WithColumn("Price_"+name, prices)
	if err != nil {
		return nil, err
	}
	revenue := make([]domain.Value, len(units))
	for i := range units {
		revenue[i] = units[i].Mul(prices[i])
	}
	return out.WithColumn("Total_"+name, revenue)
}
