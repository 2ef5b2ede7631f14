package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// CSVFormatter writes every table in long form: one row per table, date and column.
type CSVFormatter struct {
	Precision int
}

func (c CSVFormatter) Name() string      { return "csv" }
func (c CSVFormatter) Extension() string { return "csv" }

func (c CSVFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"table", domain.DatesColumn, "column", "value"}); err != nil {
		return nil, err
	}
	for _, nt := range result.Tables {
		for _, rec := range nt.Table.Records() {
			date := rec.Date.Format(domain.DateLayout)
			for _, nv := range rec.Values {
				if err := w.Write([]string{nt.Name, date, nv.Column, FormatValue(nv.Value, c.Precision)}); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
