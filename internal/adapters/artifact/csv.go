package artifact

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/Jonatasvm/backendGB/internal/utils"
)

const CSVContentType = "text/csv; charset=utf-8"

// CSVWriter renders export rows as comma-separated text with ISO dates and
// two-decimal amounts.
type CSVWriter struct{}

func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

var _ portssvc.ArtifactWriter = (*CSVWriter)(nil)

func (w *CSVWriter) Format() domain.ExportFormat { return domain.ExportCSV }

func (w *CSVWriter) ContentType() string { return CSVContentType }

func (w *CSVWriter) Write(rows []domain.ExportRow) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(domain.ExportColumns); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatInt(row.ID, 10),
			row.PaymentDate.String(),
			utils.FormatMoney(row.Amount),
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
		if err := cw.Write(record); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Writers returns every supported writer.
func Writers() []portssvc.ArtifactWriter {
	return []portssvc.ArtifactWriter{NewXLSXWriter(), NewCSVWriter()}
}
