package artifact_test

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"
	"time"

	"github.com/Jonatasvm/backendGB/internal/adapters/artifact"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []domain.ExportRow {
	return []domain.ExportRow{
		{
			ID:            5,
			PaymentDate:   domain.NewDate(2025, time.January, 1),
			Amount:        40000,
			PaymentMethod: "Pix",
			PayerLabel:    "Construtora",
			CostCenter:    "Residencial Aurora",
			Payee:         "Madeireira Silva",
			PayeeTaxID:    "12.345.678/0001-90",
			PixKey:        "financeiro@silva.com",
			CostCenterID:  "1",
			Category:      "Material",
			Status:        "Lançado",
			Notes:         "Tábuas, pregos",
		},
		{
			ID:            8,
			Amount:        123457,
			PaymentMethod: "Boleto",
			CostCenterID:  "2",
			Status:        "Lançado",
		},
	}
}

func TestXLSXWriter_RoundTrip(t *testing.T) {
	w := artifact.NewXLSXWriter()
	assert.Equal(t, domain.ExportXLSX, w.Format())

	content, err := w.Write(sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{artifact.SheetName}, f.GetSheetList())

	rows, err := f.GetRows(artifact.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, domain.ExportColumns, rows[0])

	raw := excelize.Options{RawCellValue: true}
	for i, want := range []domain.Money{40000, 123457} {
		cell := "C" + strconv.Itoa(i+2)
		value, err := f.GetCellValue(artifact.SheetName, cell, raw)
		require.NoError(t, err)
		parsed, err := decimal.NewFromString(value)
		require.NoError(t, err)
		assert.Equal(t, want, domain.MoneyFromMajor(parsed), cell)

		cellType, err := f.GetCellType(artifact.SheetName, cell)
		require.NoError(t, err)
		assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	}

	serial, err := f.GetCellValue(artifact.SheetName, "B2", raw)
	require.NoError(t, err)
	days, err := strconv.ParseFloat(serial, 64)
	require.NoError(t, err)
	date, err := excelize.ExcelDateToTime(days, false)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", date.Format("2006-01-02"))

	displayed, err := f.GetCellValue(artifact.SheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "01/01/2025", displayed)

	blank, err := f.GetCellValue(artifact.SheetName, "B3")
	require.NoError(t, err)
	assert.Empty(t, blank)

	notes, err := f.GetCellValue(artifact.SheetName, "M2")
	require.NoError(t, err)
	assert.Equal(t, "Tábuas, pregos", notes)
}

func TestXLSXWriter_HeaderOnly(t *testing.T) {
	content, err := artifact.NewXLSXWriter().Write(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(artifact.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestCSVWriter_RoundTrip(t *testing.T) {
	w := artifact.NewCSVWriter()
	assert.Equal(t, domain.ExportCSV, w.Format())

	content, err := w.Write(sampleRows())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, domain.ExportColumns, records[0])

	assert.Equal(t, "2025-01-01", records[1][1])
	assert.Equal(t, "400.00", records[1][2])
	assert.Equal(t, "Tábuas, pregos", records[1][12])
	assert.Equal(t, "", records[2][1])
	assert.Equal(t, "1234.57", records[2][2])

	for i, want := range []domain.Money{40000, 123457} {
		parsed, err := decimal.NewFromString(records[i+1][2])
		require.NoError(t, err)
		assert.Equal(t, want, domain.MoneyFromMajor(parsed))
	}

	assert.Contains(t, string(content), ",400.00,")
}

func TestWriters(t *testing.T) {
	formats := map[domain.ExportFormat]bool{}
	for _, w := range artifact.Writers() {
		formats[w.Format()] = true
	}
	assert.True(t, formats[domain.ExportXLSX])
	assert.True(t, formats[domain.ExportCSV])
}
