package output

import (
	"strings"
	"unicode"

	"github.com/rpgo/forecast-engine/internal/domain"
	"github.com/rpgo/forecast-engine/pkg/decimal"
)

// FormatValue renders a value with fixed precision; pending cells render as the
// pending token and NaN or infinities as "NaN", "+Inf" or "-Inf".
func FormatValue(v domain.Value, precision int) string {
	f, ok := v.Float()
	if !ok {
		return domain.PendingToken
	}
	a, err := decimal.FromFloat(f)
	if err != nil {
		return v.String()
	}
	return a.Fixed(precision)
}

// FormatGrouped is FormatValue with thousands separators, for reports read by people.
func FormatGrouped(v domain.Value, precision int) string {
	f, ok := v.Float()
	if !ok {
		return domain.PendingToken
	}
	a, err := decimal.FromFloat(f)
	if err != nil {
		return v.String()
	}
	return a.Grouped(precision)
}

// ColumnTotal sums a column over all periods, skipping pending cells. ok is
// false when every cell is pending or any cell is not finite.
func ColumnTotal(values []domain.Value) (total decimal.Amount, ok bool) {
	known := make([]float64, 0, len(values))
	for _, v := range values {
		if f, isNum := v.Float(); isNum {
			known = append(known, f)
		}
	}
	total, err := decimal.Total(known...)
	return total, err == nil && len(known) > 0
}

// visibleColumns picks at most limit columns for narrow renderings, always
// keeping the rightmost (total) column.
func visibleColumns(columns []string, limit int) (shown []string, hidden int) {
	if limit <= 0 || len(columns) <= limit {
		return columns, 0
	}
	shown = append(append([]string(nil), columns[:limit-1]...), columns[len(columns)-1])
	return shown, len(columns) - limit
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "_"):
			b.WriteByte('_')
		}
	}
	s := strings.TrimSuffix(b.String(), "_")
	if s == "" {
		return "forecast"
	}
	return s
}
