package output

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/rpgo/forecast-engine/internal/domain"
)

// MaxPDFColumns bounds the value columns printed per table.
const MaxPDFColumns = 10

const (
	pdfPageWidth  = 277.0 // A4 landscape minus 10mm margins
	pdfDateWidth  = 24.0
	pdfRowHeight  = 5.0
	pdfBottomEdge = 190.0
)

// PDFFormatter renders a printable report with one section per table.
type PDFFormatter struct {
	Precision int
}

func (p PDFFormatter) Name() string      { return "pdf" }
func (p PDFFormatter) Extension() string { return "pdf" }

func (p PDFFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if !result.GeneratedAt.IsZero() {
		pdf.SetCreationDate(result.GeneratedAt)
		pdf.SetModificationDate(result.GeneratedAt)
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Request %s", result.RequestID)), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	title := result.Name
	if title == "" {
		title = "Forecast"
	}
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s granularity, generated %s", result.Granularity,
		result.GeneratedAt.Format("2006-01-02 15:04"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, nt := range result.Tables {
		if err := p.drawTable(pdf, tr, nt); err != nil {
			return nil, fmt.Errorf("table %s: %w", nt.Name, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (p PDFFormatter) drawTable(pdf *gofpdf.Fpdf, tr func(string) string, nt domain.NamedTable) error {
	t := nt.Table
	columns, hidden := visibleColumns(t.Columns(), MaxPDFColumns)
	cols := make([][]domain.Value, len(columns))
	for i, name := range columns {
		values, err := t.Column(name)
		if err != nil {
			return err
		}
		cols[i] = values
	}
	width := pdfPageWidth - pdfDateWidth
	if len(columns) > 0 {
		width /= float64(len(columns))
	}

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(40, 40, 40)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(pdfDateWidth, 6, domain.DatesColumn, "1", 0, "L", true, 0, "")
		for _, name := range columns {
			pdf.CellFormat(width, 6, tr(name), "1", 0, "R", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(50, 50, 50)
	}

	if pdf.GetY() > pdfBottomEdge-30 {
		pdf.AddPage()
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	heading := nt.Name
	if hidden > 0 {
		heading += fmt.Sprintf(" (%d more columns not shown)", hidden)
	}
	pdf.CellFormat(0, 8, tr(heading), "", 1, "L", false, 0, "")
	header()

	for r := 0; r < t.Len(); r++ {
		if pdf.GetY() > pdfBottomEdge {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(pdfDateWidth, pdfRowHeight, t.Axis().At(r).Format(domain.DateLayout), "1", 0, "L", false, 0, "")
		for _, values := range cols {
			pdf.CellFormat(width, pdfRowHeight, FormatGrouped(values[r], p.Precision), "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(pdfDateWidth, pdfRowHeight, "total", "1", 0, "L", false, 0, "")
	for _, values := range cols {
		text := domain.PendingToken
		if sum, ok := ColumnTotal(values); ok {
			text = sum.Grouped(p.Precision)
		}
		pdf.CellFormat(width, pdfRowHeight, text, "1", 0, "R", false, 0, "")
	}
	pdf.Ln(8)
	return pdf.Error()
}
