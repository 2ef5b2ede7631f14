package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rpgo/forecast-engine/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// Configuration describes one forecast request as loaded from YAML, JSON or TOML.
type Configuration struct {
	Name         string         `yaml:"name" json:"name"`
	Horizon      Horizon        `yaml:"horizon" json:"horizon"`
	Epidemiology Epidemiology   `yaml:"epidemiology" json:"epidemiology"`
	// Populations are further patient streams that sum with Epidemiology.
	Populations  []Epidemiology `yaml:"populations,omitempty" json:"populations,omitempty"`
	Segments     *Segmentation  `yaml:"segments,omitempty" json:"segments,omitempty"`
	Treatment    Treatment      `yaml:"treatment" json:"treatment"`
	Output       OutputSettings `yaml:"output,omitempty" json:"output,omitempty"`
}

// Horizon defines the period axis of the forecast.
type Horizon struct {
	StartYear   int         `yaml:"start_year" json:"start_year"`
	NumYears    int         `yaml:"num_years" json:"num_years"`
	StartMonth  FiscalMonth `yaml:"start_month,omitempty" json:"start_month,omitempty"`
	Granularity Granularity `yaml:"granularity,omitempty" json:"granularity,omitempty"`
}

// Month returns the fiscal start month, defaulting to January.
func (h Horizon) Month() int {
	if h.StartMonth == 0 {
		return 1
	}
	return int(h.StartMonth)
}

// Scale returns the horizon granularity, defaulting to Year.
func (h Horizon) Scale() Granularity {
	if h.Granularity == "" {
		return Year
	}
	return h.Granularity
}

// Periods is the number of periods on the horizon's axis.
func (h Horizon) Periods() int {
	return h.NumYears * h.Scale().PeriodsPerYear()
}

// Streams returns the patient streams in declaration order. An Epidemiology
// block with neither counts nor a single-input base is skipped when
// populations are given.
func (c *Configuration) Streams() []Epidemiology {
	out := make([]Epidemiology, 0, 1+len(c.Populations))
	if !c.Epidemiology.empty() || len(c.Populations) == 0 {
		out = append(out, c.Epidemiology)
	}
	return append(out, c.Populations...)
}

// EpiInputType selects how a patient stream is given.
type EpiInputType string

const (
	// TimeBasedInput lists one patient count per forecast period.
	TimeBasedInput EpiInputType = "time_based"
	// SingleInput grows a base patient count yearly at a fixed rate.
	SingleInput EpiInputType = "single_input"
)

func ParseEpiInputType(s string) (EpiInputType, error) {
	key := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "", "timebased", "timebasedinput", "series":
		return TimeBasedInput, nil
	case "single", "singleinput":
		return SingleInput, nil
	}
	return "", fmt.Errorf("%w: input type %q (want time_based or single_input)", ErrInvalidArgument, s)
}

func (k *EpiInputType) UnmarshalText(text []byte) error {
	parsed, err := ParseEpiInputType(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Epidemiology is one incoming patient stream. Time-based streams carry one
// value per period; single-input streams compound PatientCount yearly by
// GrowthRate.
type Epidemiology struct {
	Name          string       `yaml:"name,omitempty" json:"name,omitempty"`
	InputType     EpiInputType `yaml:"input_type,omitempty" json:"input_type,omitempty"`
	PatientCounts []Value      `yaml:"patient_counts,omitempty" json:"patient_counts,omitempty"`
	PatientCount  int          `yaml:"patient_count,omitempty" json:"patient_count,omitempty"`
	GrowthRate    float64      `yaml:"growth_rate,omitempty" json:"growth_rate,omitempty"`
}

// Single reports whether the stream uses a base count and growth rate.
func (e Epidemiology) Single() bool { return e.InputType == SingleInput }

func (e Epidemiology) empty() bool {
	return e.InputType == "" && len(e.PatientCounts) == 0 && e.PatientCount == 0
}

// Segmentation splits the patient stream by per-period percentages.
type Segmentation struct {
	Segments []Segment `yaml:"segments" json:"segments"`
	// Feed names the segment that continues into treatment; "remainder" selects
	// the unsegmented share. Empty means the whole stream is treated.
	Feed string `yaml:"feed,omitempty" json:"feed,omitempty"`
}

// Segment is one named share of the patient stream.
type Segment struct {
	Name     string  `yaml:"name" json:"name"`
	Percents []Value `yaml:"percents" json:"percents"`
}

// Treatment describes the progression curve and the products dispensed.
type Treatment struct {
	Name             string    `yaml:"name" json:"name"`
	Duration         int       `yaml:"duration_months" json:"duration_months"`
	ProgressionCurve []Value   `yaml:"progression_curve" json:"progression_curve"`
	InitialState     []Value   `yaml:"initial_state,omitempty" json:"initial_state,omitempty"`
	Products         []Product `yaml:"products,omitempty" json:"products,omitempty"`
}

// Product is one SKU consumed during treatment.
type Product struct {
	Name string `yaml:"name" json:"name"`
	// Utilization holds units per member for each treatment month (1..D).
	Utilization []Value `yaml:"utilization" json:"utilization"`
	// Prices holds one price per forecast period; omitted means no revenue stream.
	Prices []Value `yaml:"prices,omitempty" json:"prices,omitempty"`
}

// OutputSettings control report rendering.
type OutputSettings struct {
	Formats     []string `yaml:"formats,omitempty" json:"formats,omitempty"`
	Directory   string   `yaml:"directory,omitempty" json:"directory,omitempty"`
	Precision   int      `yaml:"precision,omitempty" json:"precision,omitempty"`
	KeepMonthly bool     `yaml:"keep_monthly,omitempty" json:"keep_monthly,omitempty"`
}

// FiscalMonth is a month number that also decodes from month names.
type FiscalMonth int

func (m *FiscalMonth) parse(s string) error {
	month, err := dateutil.ParseMonth(s)
	if err != nil {
		return fmt.Errorf("%w: start month: %v", ErrInvalidArgument, err)
	}
	*m = FiscalMonth(month)
	return nil
}

func (m *FiscalMonth) UnmarshalYAML(node *yaml.Node) error {
	return m.parse(node.Value)
}

func (m *FiscalMonth) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	return m.parse(s)
}

func (m FiscalMonth) MarshalYAML() (interface{}, error) { return int(m), nil }

func (m FiscalMonth) String() string {
	if m < 1 || m > 12 {
		return strconv.Itoa(int(m))
	}
	return time.Month(m).String()
}

// NamedTable is one output stream of a forecast run.
type NamedTable struct {
	Name  string       `json:"name" yaml:"name"`
	Table *PeriodTable `json:"table" yaml:"table"`
}

// ForecastResult collects every table a run produced, in production order.
type ForecastResult struct {
	RequestID   string       `json:"request_id" yaml:"request_id"`
	Name        string       `json:"name" yaml:"name"`
	GeneratedAt time.Time    `json:"generated_at" yaml:"generated_at"`
	Granularity Granularity  `json:"granularity" yaml:"granularity"`
	Tables      []NamedTable `json:"tables" yaml:"tables"`
}

// Table looks up an output table by name.
func (r *ForecastResult) Table(name string) (*PeriodTable, bool) {
	for _, nt := range r.Tables {
		if nt.Name == name {
			return nt.Table, true
		}
	}
	return nil, false
}

// tableDoc is the serialized shape of a PeriodTable.
type tableDoc struct {
	Granularity Granularity        `json:"granularity" yaml:"granularity"`
	Columns     []string           `json:"columns" yaml:"columns"`
	Dates       []string           `json:"dates" yaml:"dates"`
	Values      map[string][]Value `json:"values" yaml:"values"`
}

func (t *PeriodTable) doc() tableDoc {
	d := tableDoc{
		Granularity: t.axis.Granularity(),
		Columns:     t.Columns(),
		Dates:       make([]string, t.Len()),
		Values:      make(map[string][]Value, t.NumColumns()),
	}
	for i := 0; i < t.Len(); i++ {
		d.Dates[i] = t.axis.At(i).Format(DateLayout)
	}
	for _, name := range d.Columns {
		d.Values[name] = t.grid.cols[name]
	}
	return d
}

func (t *PeriodTable) MarshalJSON() ([]byte, error) { return json.Marshal(t.doc()) }

func (t *PeriodTable) MarshalYAML() (interface{}, error) { return t.doc(), nil }
