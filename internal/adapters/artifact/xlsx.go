package artifact

import (
	"fmt"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the single worksheet of an XLSX export.
	SheetName = "Pagamentos"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	headerFill   = "4472C4"
	dateNumFmt   = "dd/mm/yyyy"
	amountNumFmt = `"R$" #,##0.00`
)

var columnWidths = []float64{8, 15, 15, 20, 22, 25, 30, 20, 25, 10, 20, 12, 40}

// XLSXWriter renders export rows as a styled workbook.
type XLSXWriter struct{}

func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

var _ portssvc.ArtifactWriter = (*XLSXWriter)(nil)

func (w *XLSXWriter) Format() domain.ExportFormat { return domain.ExportXLSX }

func (w *XLSXWriter) ContentType() string { return XLSXContentType }

// Write lays the header on row 1 and one row per export line below it.
// Amounts are numeric cells and payment dates are date cells.
func (w *XLSXWriter) Write(rows []domain.ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	lastCol, err := excelize.ColumnNumberToName(len(domain.ExportColumns))
	if err != nil {
		return nil, err
	}

	header := make([]any, len(domain.ExportColumns))
	for i, h := range domain.ExportColumns {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", styles.header); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		rowNum := i + 2
		values := []any{
			row.ID,
			nil,
			row.Amount.Major().InexactFloat64(),
			row.PaymentMethod,
			row.PayerLabel,
			row.CostCenter,
			row.Payee,
			row.PayeeTaxID,
			row.PixKey,
			row.CostCenterID,
			row.Category,
			row.Status,
			row.Notes,
		}
		if !row.PaymentDate.IsZero() {
			values[1] = row.PaymentDate.Time()
		}
		start := fmt.Sprintf("A%d", rowNum)
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row.ID, err)
		}
	}

	if len(rows) > 0 {
		last := len(rows) + 1
		ranges := []struct {
			from, to string
			style    int
		}{
			{"A2", fmt.Sprintf("%s%d", lastCol, last), styles.text},
			{"B2", fmt.Sprintf("B%d", last), styles.date},
			{"C2", fmt.Sprintf("C%d", last), styles.amount},
		}
		for _, r := range ranges {
			if err := f.SetCellStyle(SheetName, r.from, r.to, r.style); err != nil {
				return nil, fmt.Errorf("style %s:%s: %w", r.from, r.to, err)
			}
		}
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set width of %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	header, text, date, amount int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	dateFmt := dateNumFmt
	amountFmt := amountNumFmt

	var s sheetStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return s, fmt.Errorf("header style: %w", err)
	}
	if s.text, err = f.NewStyle(&excelize.Style{Border: border}); err != nil {
		return s, fmt.Errorf("text style: %w", err)
	}
	if s.date, err = f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &dateFmt}); err != nil {
		return s, fmt.Errorf("date style: %w", err)
	}
	if s.amount, err = f.NewStyle(&excelize.Style{Border: border, CustomNumFmt: &amountFmt}); err != nil {
		return s, fmt.Errorf("amount style: %w", err)
	}
	return s, nil
}
