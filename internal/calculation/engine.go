package calculation

import (
	"context"
	"fmt"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// Names of the tables a run produces.
const (
	EpidemiologyTable  = "epidemiology"
	ActiveTable        = "cohort_active"
	LeavingTable       = "cohort_leaving"
	RevenueTable       = "revenue"
	TotalRevenueColumn = "total_revenue"
)

func EpidemiologyTableName(stream string) string { return "epidemiology_" + stream }
func SegmentTableName(segment string) string     { return "segment_" + segment }
func DemandTableName(product string) string      { return "demand_" + product }
func RevenueTableName(product string) string     { return "revenue_" + product }

// ForecastEngine orchestrates the forecast stages for one configuration at a time.
// It holds no per-run state; everything a run needs travels in its RunContext.
type ForecastEngine struct {
	Logger Logger
}

// NewForecastEngine creates a new forecast engine
func NewForecastEngine() *ForecastEngine {
	return &ForecastEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger used when a run has no logger of its own. If nil is
// provided, a no-op logger is used.
func (fe *ForecastEngine) SetLogger(l Logger) {
	if l == nil {
		fe.Logger = NopLogger{}
		return
	}
	fe.Logger = l
}

// Run computes every output table for cfg:
//
//	axis -> entrants -> segment split -> cohort projection -> product demand -> pricing -> revenue
//
// Monthly results are converted back to the horizon granularity unless
// cfg.Output.KeepMonthly is set. Prices are always per horizon period.
func (fe *ForecastEngine) Run(rc *RunContext, cfg *domain.Configuration) (*domain.ForecastResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration is required", domain.ErrInvalidArgument)
	}
	if rc == nil {
		rc = NewRunContext(context.Background(), "", fe.Logger)
	}
	log := runLogger(rc.Logger, fe.Logger)

	h := cfg.Horizon
	scale := h.Scale()
	result := &domain.ForecastResult{
		RequestID:   rc.RequestID,
		Name:        cfg.Name,
		GeneratedAt: rc.StartTime,
		Granularity: scale,
	}
	emit := func(name string, t *domain.PeriodTable) {
		result.Tables = append(result.Tables, domain.NamedTable{Name: name, Table: t})
	}
	report := func(t *domain.PeriodTable) (*domain.PeriodTable, error) {
		if cfg.Output.KeepMonthly {
			return t, nil
		}
		return ToGranularity(t, scale)
	}

	axis, err := GeneratePeriodAxis(h.StartYear, h.NumYears, h.Month(), scale)
	if err != nil {
		return nil, fmt.Errorf("horizon: %w", err)
	}
	log.Debugf("axis: %d %s periods %s..%s", axis.Len(), scale,
		axis.First().Format(domain.DateLayout), axis.Last().Format(domain.DateLayout))

	entrants, err := fe.entrants(axis, cfg, emit)
	if err != nil {
		return nil, fmt.Errorf("epidemiology: %w", err)
	}

	feed, feedColumn := entrants, PatientCountColumn
	if seg := cfg.Segments; seg != nil && len(seg.Segments) > 0 {
		if err := rc.checkpoint("segmentation"); err != nil {
			return nil, err
		}
		if feed, feedColumn, err = fe.split(entrants, seg, emit); err != nil {
			return nil, fmt.Errorf("segments: %w", err)
		}
	}

	if err := rc.checkpoint("cohort projection"); err != nil {
		return nil, err
	}
	tr := cfg.Treatment
	if tr.Duration != 0 && tr.Duration != len(tr.ProgressionCurve) {
		return nil, fmt.Errorf("%w: treatment %q lasts %d months but its progression curve has %d values",
			domain.ErrInvalidArgument, tr.Name, tr.Duration, len(tr.ProgressionCurve))
	}
	proj, err := ProjectSeries(feed, feedColumn, tr.ProgressionCurve, tr.InitialState, tr.Name)
	if err != nil {
		return nil, fmt.Errorf("treatment %q: %w", tr.Name, err)
	}
	for _, m := range []struct {
		name   string
		matrix *domain.CohortMatrix
	}{{ActiveTable, proj.Active}, {LeavingTable, proj.Leaving}} {
		t, err := report(m.matrix.Table)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.name, err)
		}
		emit(m.name, t)
	}
	log.Debugf("projected %d months over a %d-month treatment", proj.Active.Table.Len(), proj.Active.Duration)

	if len(tr.Products) > 0 {
		if err := fe.products(rc, proj.Active, tr.Products, scale, report, emit); err != nil {
			return nil, err
		}
	}

	log.Infof("forecast %q: %d tables in %s", cfg.Name, len(result.Tables), rc.Elapsed())
	return result, nil
}

// entrants builds the patient stream treatment starts from. Several streams
// are emitted one table each and summed into PatientCountColumn.
func (fe *ForecastEngine) entrants(axis domain.PeriodAxis, cfg *domain.Configuration, emit func(string, *domain.PeriodTable)) (*domain.PeriodTable, error) {
	streams := cfg.Streams()
	if len(streams) == 1 {
		t, err := EntrantSeries(axis, cfg.Horizon, streams[0], PatientCountColumn)
		if err != nil {
			return nil, err
		}
		emit(EpidemiologyTable, t)
		return t, nil
	}

	tables := make([]*domain.PeriodTable, len(streams))
	for i, e := range streams {
		if e.Name == "" || e.Name == PatientCountColumn {
			return nil, fmt.Errorf("%w: patient stream %d needs a name other than %q", domain.ErrInvalidArgument, i+1, PatientCountColumn)
		}
		t, err := EntrantSeries(axis, cfg.Horizon, e, e.Name)
		if err != nil {
			return nil, fmt.Errorf("stream %q: %w", e.Name, err)
		}
		emit(EpidemiologyTableName(e.Name), t)
		tables[i] = t
	}
	combined, err := ConcatAndTotal(tables, PatientCountColumn)
	if err != nil {
		return nil, err
	}
	emit(EpidemiologyTable, combined)
	return combined, nil
}

// split emits every segment and the remainder, and returns the table and column
// treatment continues from.
func (fe *ForecastEngine) split(entrants *domain.PeriodTable, seg *domain.Segmentation, emit func(string, *domain.PeriodTable)) (*domain.PeriodTable, string, error) {
	percents, err := SegmentPercentGrid(entrants.Len(), seg.Segments)
	if err != nil {
		return nil, "", err
	}
	splitter, err := NewSegmentSplitter(entrants, percents)
	if err != nil {
		return nil, "", err
	}

	names := append(splitter.Names(), RemainderSegment)
	handlers := append(splitter.Handlers(), splitter.Remainder)
	feed, feedColumn := entrants, PatientCountColumn
	for i, handle := range handlers {
		t, err := handle()
		if err != nil {
			return nil, "", fmt.Errorf("segment %q: %w", names[i], err)
		}
		emit(SegmentTableName(names[i]), t)
		if names[i] == seg.Feed {
			feed, feedColumn = t, "Total_"+names[i]
		}
	}
	if seg.Feed != "" && feed == entrants {
		return nil, "", fmt.Errorf("%w: feed segment %q", domain.ErrNotFound, seg.Feed)
	}
	return feed, feedColumn, nil
}

func (fe *ForecastEngine) products(
	rc *RunContext,
	active *domain.CohortMatrix,
	products []domain.Product,
	scale domain.Granularity,
	report func(*domain.PeriodTable) (*domain.PeriodTable, error),
	emit func(string, *domain.PeriodTable),
) error {
	util, err := UtilizationGrid(active.Duration, products)
	if err != nil {
		return fmt.Errorf("utilization: %w", err)
	}

	var revenues []*domain.PeriodTable
	for _, p := range products {
		if err := rc.checkpoint("product " + p.Name); err != nil {
			return err
		}
		demand, err := ProductDemand(p.Name, active, util)
		if err != nil {
			return err
		}
		reported, err := report(demand)
		if err != nil {
			return fmt.Errorf("product %q: %w", p.Name, err)
		}
		emit(DemandTableName(p.Name), reported)

		if len(p.Prices) == 0 {
			continue
		}
		units, err := ToGranularity(demand, scale)
		if err != nil {
			return fmt.Errorf("product %q: %w", p.Name, err)
		}
		_, totals, _ := units.LastColumn()
		base, err := domain.SingleSeries(units.Axis(), p.Name+"_units", totals)
		if err != nil {
			return err
		}
		priced, err := ApplyPrice(base, p.Name, p.Prices)
		if err != nil {
			return fmt.Errorf("product %q prices: %w", p.Name, err)
		}
		emit(RevenueTableName(p.Name), priced)
		revenues = append(revenues, priced)
	}

	if len(revenues) == 0 {
		return nil
	}
	total, err := ConcatAndTotal(revenues, TotalRevenueColumn)
	if err != nil {
		return fmt.Errorf("revenue: %w", err)
	}
	emit(RevenueTable, total)
	runLogger(rc.Logger, fe.Logger).Debugf("priced %d of %d products", len(revenues), len(products))
	return nil
}
