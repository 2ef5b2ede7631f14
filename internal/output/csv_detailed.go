package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// WideCSVFormatter writes one spreadsheet-style block per table: a title row, a
// header of dates plus column names, one row per period, then a blank row.
type WideCSVFormatter struct {
	Precision int
}

func (c WideCSVFormatter) Name() string      { return "wide-csv" }
func (c WideCSVFormatter) Extension() string { return "csv" }

func (c WideCSVFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	for i, nt := range result.Tables {
		if i > 0 {
			if err := w.Write([]string{""}); err != nil {
				return nil, err
			}
		}
		if err := w.Write([]string{nt.Name}); err != nil {
			return nil, err
		}
		header := append([]string{domain.DatesColumn}, nt.Table.Columns()...)
		if err := w.Write(header); err != nil {
			return nil, err
		}
		for _, rec := range nt.Table.Records() {
			row := make([]string, 0, len(header))
			row = append(row, rec.Date.Format(domain.DateLayout))
			for _, nv := range rec.Values {
				row = append(row, FormatValue(nv.Value, c.Precision))
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
