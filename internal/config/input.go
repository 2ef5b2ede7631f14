package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/forecast-engine/internal/calculation"
	"github.com/rpgo/forecast-engine/internal/domain"
)

// Bounds on a forecast request.
const (
	MinStartYear    = 2000
	MaxHorizonYears = 100
	MaxPrecision    = 10
)

// InputParser handles parsing of forecast configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a configuration from a YAML, JSON or TOML file, chosen by
// extension, and validates it.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to access file %s: %w", filename, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filename)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	cfg, err := ip.Parse(data, filepath.Ext(filename))
	if err != nil {
		return nil, err
	}
	if err := ip.ValidateConfiguration(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Parse decodes a configuration in the format named by ext (".yaml", ".yml",
// ".json" or ".toml") and fills defaults. It does not validate.
func (ip *InputParser) Parse(data []byte, ext string) (*domain.Configuration, error) {
	var cfg domain.Configuration
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case ".toml":
		if err := decodeTOML(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %q", ext)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// decodeTOML routes a TOML document through the YAML decoder so values, month
// names and granularities decode the same way in every format.
func decodeTOML(data []byte, cfg *domain.Configuration) error {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return err
	}
	doc, err := yaml.Marshal(tree.ToMap())
	if err != nil {
		return err
	}
	return yaml.Unmarshal(doc, cfg)
}

func applyDefaults(cfg *domain.Configuration) {
	if cfg.Treatment.Duration == 0 {
		cfg.Treatment.Duration = len(cfg.Treatment.ProgressionCurve)
	}
	if cfg.Horizon.StartMonth == 0 {
		cfg.Horizon.StartMonth = 1
	}
	if cfg.Horizon.Granularity == "" {
		cfg.Horizon.Granularity = domain.Year
	}
}

// ValidateConfiguration checks every field of cfg and reports all problems at once.
func (ip *InputParser) ValidateConfiguration(cfg *domain.Configuration) error {
	v := &validator{}
	ip.validateHorizon(v, &cfg.Horizon)
	periods := cfg.Horizon.Periods()

	ip.validateStreams(v, cfg, periods)
	if cfg.Segments != nil {
		ip.validateSegments(v, cfg.Segments, periods)
	}
	ip.validateTreatment(v, &cfg.Treatment, periods)

	if p := cfg.Output.Precision; p < 0 || p > MaxPrecision {
		v.addf("output.precision", "must be between 0 and %d, got %d", MaxPrecision, p)
	}
	return v.err()
}

func (ip *InputParser) validateHorizon(v *validator, h *domain.Horizon) {
	if h.StartYear < MinStartYear {
		v.addf("horizon.start_year", "must be >= %d, got %d", MinStartYear, h.StartYear)
	}
	if h.NumYears < 1 || h.NumYears > MaxHorizonYears {
		v.addf("horizon.num_years", "must be between 1 and %d, got %d", MaxHorizonYears, h.NumYears)
	}
	if m := h.Month(); m < 1 || m > 12 {
		v.addf("horizon.start_month", "must be 1..12, got %d", m)
	}
	if !h.Scale().Valid() {
		v.addf("horizon.granularity", "must be %q or %q, got %q", domain.Month, domain.Year, h.Granularity)
	}
}

func (ip *InputParser) validateStreams(v *validator, cfg *domain.Configuration, periods int) {
	streams := cfg.Streams()
	paths := make([]string, 0, len(streams))
	if len(streams) > len(cfg.Populations) {
		paths = append(paths, "epidemiology")
	}
	for i := range cfg.Populations {
		paths = append(paths, fmt.Sprintf("populations[%d]", i))
	}

	seen := map[string]bool{}
	for i, e := range streams {
		path := paths[i]
		if len(streams) > 1 {
			switch {
			case e.Name == "":
				v.addf(path+".name", "is required when several patient streams are given")
			case e.Name == calculation.PatientCountColumn:
				v.addf(path+".name", "%q is reserved for the combined stream", calculation.PatientCountColumn)
			case seen[e.Name]:
				v.addf(path+".name", "duplicate patient stream %q", e.Name)
			}
			seen[e.Name] = true
		}
		ip.validateEpidemiology(v, path, e, &cfg.Horizon, periods)
	}
}

func (ip *InputParser) validateEpidemiology(v *validator, path string, e domain.Epidemiology, h *domain.Horizon, periods int) {
	if !e.Single() {
		if n := len(e.PatientCounts); n != periods {
			v.addf(path+".patient_counts", "has %d values, expected %d (one per period)", n, periods)
		}
		v.finite(path+".patient_counts", e.PatientCounts)
		return
	}
	if len(e.PatientCounts) > 0 {
		v.addf(path+".patient_counts", "must be empty for %s input", domain.SingleInput)
	}
	if e.PatientCount < 1 {
		v.addf(path+".patient_count", "must be >= 1, got %d", e.PatientCount)
	}
	switch r := e.GrowthRate; {
	case math.IsNaN(r) || math.IsInf(r, 0):
		v.addf(path+".growth_rate", "must be a finite number, got %v", r)
	case r < -1:
		v.addf(path+".growth_rate", "must be >= -1, got %g", r)
	case r > 0 && h.NumYears < 2:
		v.addf(path+".growth_rate", "needs a horizon of at least 2 years to grow, got %d", h.NumYears)
	}
}

func (ip *InputParser) validateSegments(v *validator, s *domain.Segmentation, periods int) {
	if len(s.Segments) > calculation.MaxSegments {
		v.addf("segments.segments", "at most %d segments, got %d", calculation.MaxSegments, len(s.Segments))
	}
	seen := map[string]bool{}
	for i, seg := range s.Segments {
		path := fmt.Sprintf("segments.segments[%d]", i)
		switch {
		case seg.Name == "":
			v.addf(path+".name", "is required")
		case seg.Name == calculation.RemainderSegment:
			v.addf(path+".name", "%q is reserved", calculation.RemainderSegment)
		case seen[seg.Name]:
			v.addf(path+".name", "duplicate segment %q", seg.Name)
		}
		seen[seg.Name] = true
		if len(seg.Percents) != periods {
			v.addf(path+".percents", "has %d values, expected %d", len(seg.Percents), periods)
		}
		v.finite(path+".percents", seg.Percents)
	}
	if s.Feed != "" && s.Feed != calculation.RemainderSegment && !seen[s.Feed] {
		v.addf("segments.feed", "unknown segment %q", s.Feed)
	}
}

func (ip *InputParser) validateTreatment(v *validator, t *domain.Treatment, periods int) {
	d := t.Duration
	if d < 1 || d > calculation.MaxTreatmentDuration {
		v.addf("treatment.duration_months", "must be between 1 and %d, got %d", calculation.MaxTreatmentDuration, d)
	}
	if len(t.ProgressionCurve) != d {
		v.addf("treatment.progression_curve", "has %d values, expected %d (one per treatment month)", len(t.ProgressionCurve), d)
	}
	v.finite("treatment.progression_curve", t.ProgressionCurve)
	for i, c := range t.ProgressionCurve {
		if f, ok := c.Float(); ok && f < 0 {
			v.addf(fmt.Sprintf("treatment.progression_curve[%d]", i), "must not be negative, got %g", f)
		}
	}
	if t.InitialState != nil && len(t.InitialState) != d {
		v.addf("treatment.initial_state", "has %d values, expected %d", len(t.InitialState), d)
	}
	v.finite("treatment.initial_state", t.InitialState)

	if len(t.Products) > calculation.MaxProducts {
		v.addf("treatment.products", "at most %d products, got %d", calculation.MaxProducts, len(t.Products))
	}
	seen := map[string]bool{}
	for i, p := range t.Products {
		path := fmt.Sprintf("treatment.products[%d]", i)
		if p.Name == "" {
			v.addf(path+".name", "is required")
		} else if seen[p.Name] {
			v.addf(path+".name", "duplicate product %q", p.Name)
		}
		seen[p.Name] = true
		if len(p.Utilization) != d {
			v.addf(path+".utilization", "has %d values, expected %d", len(p.Utilization), d)
		}
		if len(p.Prices) > 0 && len(p.Prices) != periods {
			v.addf(path+".prices", "has %d values, expected %d (one per period)", len(p.Prices), periods)
		}
		v.finite(path+".utilization", p.Utilization)
		v.finite(path+".prices", p.Prices)
	}
}

// CreateExampleConfiguration creates an example configuration: three fiscal
// years starting in April, one segment feeding a three-month treatment.
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Name: "Example Therapy Forecast",
		Horizon: domain.Horizon{
			StartYear:   2026,
			NumYears:    3,
			StartMonth:  4,
			Granularity: domain.Year,
		},
		Epidemiology: domain.Epidemiology{
			Name:          "diagnosed patients",
			PatientCounts: domain.Nums(12000, 13200, 14400),
		},
		Segments: &domain.Segmentation{
			Segments: []domain.Segment{
				{Name: "eligible", Percents: domain.Nums(0.4, 0.45, 0.5)},
				{Name: "ineligible", Percents: domain.Nums(0.35, 0.3, 0.25)},
			},
			Feed: "eligible",
		},
		Treatment: domain.Treatment{
			Name:             "therapy_",
			Duration:         6,
			ProgressionCurve: domain.Nums(1, 0.9, 0.8, 0.7, 0.6, 0.5),
			Products: []domain.Product{
				{
					Name:        "tablets",
					Utilization: domain.Nums(30, 30, 30, 30, 30, 30),
					Prices:      domain.Nums(2.5, 2.6, 2.7),
				},
				{
					Name:        "starter_kit",
					Utilization: domain.Nums(1, 0, 0, 0, 0, 0),
					Prices:      domain.Nums(120, 120, 125),
				},
				{
					Name:        "monitoring",
					Utilization: domain.Nums(0, 0, 1, 0, 0, 1),
				},
			},
		},
		Output: domain.OutputSettings{
			Formats:   []string{"console", "csv"},
			Directory: "out",
			Precision: 2,
		},
	}
}
