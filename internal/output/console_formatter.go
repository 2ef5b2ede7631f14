package output

import (
	"bytes"
	"fmt"

	"github.com/pterm/pterm"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// MaxConsoleColumns bounds the columns shown per table; the total column is always kept.
const MaxConsoleColumns = 8

// ConsoleFormatter renders every table as a boxed terminal table with a totals row.
type ConsoleFormatter struct {
	Precision int
	// Plain strips terminal styling, for output written to files.
	Plain bool
}

func (c ConsoleFormatter) Name() string      { return "console" }
func (c ConsoleFormatter) Extension() string { return "txt" }

func (c ConsoleFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	var buf bytes.Buffer
	title := result.Name
	if title == "" {
		title = "Forecast"
	}
	fmt.Fprintln(&buf, pterm.Bold.Sprint(title))
	fmt.Fprintf(&buf, "Request %s, %s granularity, generated %s\n\n",
		result.RequestID, result.Granularity, result.GeneratedAt.Format("2006-01-02 15:04:05"))

	for _, nt := range result.Tables {
		rendered, err := c.renderTable(nt)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", nt.Name, err)
		}
		buf.WriteString(rendered)
		buf.WriteString("\n")
	}
	if c.Plain {
		return []byte(pterm.RemoveColorFromString(buf.String())), nil
	}
	return buf.Bytes(), nil
}

func (c ConsoleFormatter) renderTable(nt domain.NamedTable) (string, error) {
	t := nt.Table
	columns, hidden := visibleColumns(t.Columns(), MaxConsoleColumns)

	data := pterm.TableData{append([]string{domain.DatesColumn}, columns...)}
	cols := make([][]domain.Value, len(columns))
	for i, name := range columns {
		values, err := t.Column(name)
		if err != nil {
			return "", err
		}
		cols[i] = values
	}
	for r := 0; r < t.Len(); r++ {
		row := []string{t.Axis().At(r).Format(domain.DateLayout)}
		for _, values := range cols {
			row = append(row, FormatGrouped(values[r], c.Precision))
		}
		data = append(data, row)
	}
	totals := []string{"total"}
	for _, values := range cols {
		if sum, ok := ColumnTotal(values); ok {
			totals = append(totals, sum.Grouped(c.Precision))
		} else {
			totals = append(totals, domain.PendingToken)
		}
	}
	data = append(data, totals)

	table, err := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithRightAlignment().
		WithData(data).
		Srender()
	if err != nil {
		return "", err
	}

	heading := fmt.Sprintf("%s (%d periods)", nt.Name, t.Len())
	if hidden > 0 {
		heading += fmt.Sprintf(", %d more columns not shown", hidden)
	}
	return pterm.FgCyan.Sprint(heading) + "\n" + table + "\n", nil
}
