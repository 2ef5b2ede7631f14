package calculation

import (
	"fmt"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// RemainderSegment names the share of a split not claimed by any segment.
const RemainderSegment = "remainder"

// pctTolerance absorbs float noise when percents are checked against 100%.
const pctTolerance = 1e-9

// SegmentHandler computes one branch of a split.
type SegmentHandler func() (*domain.PeriodTable, error)

// SegmentSplitter divides a table's total column into per-period shares.
type SegmentSplitter struct {
	source   *domain.PeriodTable
	total    []domain.Value
	percents *domain.Grid
}

// NewSegmentSplitter validates percents (one column per segment, one row per
// period of source) and returns a splitter over source's rightmost column.
func NewSegmentSplitter(source *domain.PeriodTable, percents *domain.Grid) (*SegmentSplitter, error) {
	_, total, ok := source.LastColumn()
	if !ok {
		return nil, fmt.Errorf("%w: source table has no value column to split", domain.ErrInvalidShape)
	}
	if percents.Rows() != source.Len() {
		return nil, fmt.Errorf("%w: segment percents have %d periods, source has %d", domain.ErrInvalidShape, percents.Rows(), source.Len())
	}
	if err := CheckSegmentPercents(source.Axis(), percents); err != nil {
		return nil, err
	}
	return &SegmentSplitter{source: source, total: total, percents: percents}, nil
}

// CheckSegmentPercents rejects any period whose known percents add up to more
// than 100%. Pending percents are ignored.
func CheckSegmentPercents(axis domain.PeriodAxis, percents *domain.Grid) error {
	var msgs []string
	for r := 0; r < percents.Rows(); r++ {
		sum := 0.0
		for _, name := range percents.Columns() {
			v, _ := percents.At(r, name)
			sum += v.FloatOr(0)
		}
		if sum > 1+pctTolerance {
			period := fmt.Sprintf("row %d", r)
			if r < axis.Len() {
				period = axis.At(r).Format(domain.DateLayout)
			}
			msgs = append(msgs, fmt.Sprintf("%s: segments total %.4g (>100%%)", period, sum))
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%w: segment percents exceed 100%%: %v", domain.ErrInvalidArgument, msgs)
	}
	return nil
}

// Names returns the segment names in order.
func (s *SegmentSplitter) Names() []string { return s.percents.Columns() }

// Handlers returns one handler per segment; handlers[n-1] computes segment n.
func (s *SegmentSplitter) Handlers() []SegmentHandler {
	names := s.percents.Columns()
	handlers := make([]SegmentHandler, len(names))
	for i := range names {
		n := i + 1
		handlers[i] = func() (*domain.PeriodTable, error) { return s.Segment(n) }
	}
	return handlers
}

// Segment computes segment n (1-based): the source columns plus
// Percent_{name} and Total_{name}.
func (s *SegmentSplitter) Segment(n int) (*domain.PeriodTable, error) {
	names := s.percents.Columns()
	if n < 1 || n > len(names) {
		return nil, fmt.Errorf("%w: segment %d (have %d)", domain.ErrNotFound, n, len(names))
	}
	pct, err := s.percents.Column(names[n-1])
	if err != nil {
		return nil, err
	}
	return s.branch(names[n-1], pct)
}

// Remainder computes the share no segment claims: 1 minus the sum of all
// segment percents, pending wherever any percent is pending.
func (s *SegmentSplitter) Remainder() (*domain.PeriodTable, error) {
	claimed, err := s.percents.RowSums(s.percents.Columns())
	if err != nil {
		return nil, err
	}
	pct := make([]domain.Value, len(claimed))
	for i, c := range claimed {
		pct[i] = domain.Num(1).Sub(c)
	}
	return s.branch(RemainderSegment, pct)
}

// ByName resolves a segment name, including RemainderSegment.
func (s *SegmentSplitter) ByName(name string) (*domain.PeriodTable, error) {
	if name == RemainderSegment {
		return s.Remainder()
	}
	for i, n := range s.percents.Columns() {
		if n == name {
			return s.Handlers()[i]()
		}
	}
	return nil, fmt.Errorf("%w: segment %q", domain.ErrNotFound, name)
}

func (s *SegmentSplitter) branch(name string, pct []domain.Value) (*domain.PeriodTable, error) {
	out, err := s.source.WithColumn("Percent_"+name, pct)
	if err != nil {
		return nil, err
	}
	share := make([]domain.Value, len(pct))
	for i := range pct {
		share[i] = s.total[i].Mul(pct[i])
	}
	return out.WithColumn("Total_"+name, share)
}

// SegmentPercentGrid builds the per-period percent grid from segment definitions.
func SegmentPercentGrid(periods int, segments []domain.Segment) (*domain.Grid, error) {
	columns := make([]domain.GridColumn, len(segments))
	for i, seg := range segments {
		if len(seg.Percents) != periods {
			return nil, fmt.Errorf("%w: segment %q has %d percents, expected %d", domain.ErrInvalidArgument, seg.Name, len(seg.Percents), periods)
		}
		columns[i] = domain.GridColumn{Name: seg.Name, Values: seg.Percents}
	}
	return domain.BuildGrid(periods, columns...)
}
