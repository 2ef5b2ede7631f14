package calculation

import (
	"fmt"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// Limits on the editable tables a caller can grow.
const (
	MaxTreatmentDuration = 240
	MaxProducts          = 100
	MaxSegments          = 100
)

// Column names of the editable tables.
const (
	PatientCountColumn = "patient_count"
	PriceColumn        = "price"
	SegmentPrefix      = "segment_"
	ProductPrefix      = "product_"
	MonthColumn        = "month"
	ProgressionColumn  = "progression"
)

// PatientCountTable rebuilds the editable entrant table for axis. Counts the
// caller already entered survive; new periods are pending.
func PatientCountTable(axis domain.PeriodAxis, prev *domain.Grid) (*domain.PeriodTable, error) {
	return singleColumnTable(axis, prev, PatientCountColumn)
}

// PriceTable rebuilds the editable per-period price table for axis.
func PriceTable(axis domain.PeriodAxis, prev *domain.Grid) (*domain.PeriodTable, error) {
	return singleColumnTable(axis, prev, PriceColumn)
}

func singleColumnTable(axis domain.PeriodAxis, prev *domain.Grid, name string) (*domain.PeriodTable, error) {
	g, err := Reconcile(ReconcileOptions{
		Rows:          axis.Len(),
		Cols:          1,
		Previous:      prev,
		Default:       domain.Pending,
		NumStaticCols: 1,
		StaticNames:   staticNames(prev, name),
	})
	if err != nil {
		return nil, err
	}
	return domain.TableFromGrid(axis, g)
}

// SegmentPercentTable rebuilds the editable percent table with one
// segment_{n} column per segment, numbered from 1.
func SegmentPercentTable(axis domain.PeriodAxis, numSegments int, prev *domain.Grid) (*domain.PeriodTable, error) {
	g, err := Reconcile(ReconcileOptions{
		Rows:         axis.Len(),
		Cols:         numSegments,
		Previous:     prev,
		Default:      domain.Pending,
		ColumnPrefix: SegmentPrefix,
		MaxCols:      MaxSegments,
	})
	if err != nil {
		return nil, fmt.Errorf("segment percents: %w", err)
	}
	return domain.TableFromGrid(axis, g)
}

// TherapyDetailsGrid rebuilds the per-treatment-month grid: a month column
// numbered 1..duration, a progression column defaulting to 1 and one
// product_{n} utilization column per product.
func TherapyDetailsGrid(duration, numProducts int, prev *domain.Grid) (*domain.Grid, error) {
	if numProducts < 0 || numProducts > MaxProducts {
		return nil, fmt.Errorf("%w: products must be between 0 and %d, got %d", domain.ErrInvalidArgument, MaxProducts, numProducts)
	}
	if duration < 1 {
		return nil, fmt.Errorf("%w: treatment duration must be >= 1, got %d", domain.ErrInvalidArgument, duration)
	}
	months := make([]domain.Value, duration)
	for i := range months {
		months[i] = domain.Num(float64(i + 1))
	}
	g, err := Reconcile(ReconcileOptions{
		Rows:           duration,
		Cols:           2 + numProducts,
		Previous:       prev,
		Default:        domain.Pending,
		ColumnDefaults: map[string]domain.Value{ProgressionColumn: domain.Num(1)},
		ColumnPrefix:   ProductPrefix,
		NumStaticCols:  2,
		StaticNames:    staticNames(prev, MonthColumn, ProgressionColumn),
		Overrides:      map[string][]domain.Value{MonthColumn: months},
		MaxRows:        MaxTreatmentDuration,
		MaxCols:        2 + MaxProducts,
	})
	if err != nil {
		return nil, fmt.Errorf("therapy details: %w", err)
	}
	return g, nil
}

// staticNames supplies leading names only for a fresh grid.
func staticNames(prev *domain.Grid, names ...string) []string {
	if prev != nil && prev.NumColumns() > 0 {
		return nil
	}
	return names
}
