package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFiscalMonth_Decode(t *testing.T) {
	var h Horizon
	require.NoError(t, yaml.Unmarshal([]byte("start_year: 2026\nnum_years: 2\nstart_month: Apr\n"), &h))
	assert.Equal(t, 4, h.Month())
	assert.Equal(t, "April", h.StartMonth.String())

	require.NoError(t, json.Unmarshal([]byte(`{"start_year": 2026, "num_years": 2, "start_month": 10}`), &h))
	assert.Equal(t, 10, h.Month())

	err := yaml.Unmarshal([]byte("start_month: 13\n"), &h)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestHorizon_Defaults(t *testing.T) {
	h := Horizon{StartYear: 2026, NumYears: 3}
	assert.Equal(t, 1, h.Month())
	assert.Equal(t, Year, h.Scale())
	assert.Equal(t, 3, h.Periods())

	h.Granularity = Month
	assert.Equal(t, 36, h.Periods())
}

func TestForecastResult_Table(t *testing.T) {
	axis := monthEnds(t, "2026-01-31", "2026-02-28")
	tbl, err := SingleSeries(axis, "patient_count", []Value{Num(10), Pending})
	require.NoError(t, err)
	r := &ForecastResult{Tables: []NamedTable{{Name: "epidemiology", Table: tbl}}}

	got, ok := r.Table("epidemiology")
	require.True(t, ok)
	assert.Same(t, tbl, got)
	_, ok = r.Table("missing")
	assert.False(t, ok)

	b, err := json.Marshal(tbl)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"granularity": "month",
		"columns": ["patient_count"],
		"dates": ["2026-01-31", "2026-02-28"],
		"values": {"patient_count": [10, "pending"]}
	}`, string(b))
}

func TestParseEpiInputType(t *testing.T) {
	for in, want := range map[string]EpiInputType{
		"":                 TimeBasedInput,
		"Time Based Input": TimeBasedInput,
		"time_based":       TimeBasedInput,
		"Single Input":     SingleInput,
		"single":           SingleInput,
		"SINGLE_INPUT":     SingleInput,
	} {
		got, err := ParseEpiInputType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseEpiInputType("weekly")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	var e Epidemiology
	require.NoError(t, yaml.Unmarshal([]byte("input_type: Single Input\npatient_count: 500\ngrowth_rate: 0.1\n"), &e))
	assert.True(t, e.Single())
	assert.Equal(t, 500, e.PatientCount)

	require.NoError(t, json.Unmarshal([]byte(`{"input_type": "time based", "patient_counts": [1]}`), &e))
	assert.False(t, e.Single())
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"input_type": "weekly"}`), &e), ErrInvalidArgument)
}

func TestConfiguration_Streams(t *testing.T) {
	cfg := Configuration{Epidemiology: Epidemiology{PatientCounts: Nums(1)}}
	require.Len(t, cfg.Streams(), 1)

	cfg.Populations = []Epidemiology{{Name: "b", PatientCounts: Nums(2)}}
	streams := cfg.Streams()
	require.Len(t, streams, 2)
	assert.Equal(t, "b", streams[1].Name)

	cfg.Epidemiology = Epidemiology{}
	streams = cfg.Streams()
	require.Len(t, streams, 1)
	assert.Equal(t, "b", streams[0].Name)

	assert.Len(t, (&Configuration{}).Streams(), 1)
}
