package domain

import "time"

// ExportBatch is the immutable audit record of one export.
type ExportBatch struct {
	ID          int64     `json:"id"`
	RequestedBy string    `json:"requestedBy"`
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generatedAt"`
	Items       []int64   `json:"items,omitempty"`
}

// ExportFormat selects the artifact encoding.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

// ParseExportFormat defaults to XLSX for an empty value.
func ParseExportFormat(raw string) (ExportFormat, bool) {
	switch ExportFormat(raw) {
	case "", ExportXLSX:
		return ExportXLSX, true
	case ExportCSV:
		return ExportCSV, true
	default:
		return "", false
	}
}

// ExportRow is a normalized, typed export line. Writers decide how each
// value is encoded but never re-derive it.
type ExportRow struct {
	ID            int64
	PaymentDate   Date
	Amount        Money
	PaymentMethod string
	PayerLabel    string
	CostCenter    string
	Payee         string
	PayeeTaxID    string
	PixKey        string
	CostCenterID  string
	Category      string
	Status        string
	Notes         string
}

// ExportColumns is the fixed header of every artifact, in order.
var ExportColumns = []string{
	"ID",
	"Data Pagamento",
	"Valor",
	"Forma de Pagamento",
	"Quem Paga",
	"Obra",
	"Titular",
	"CPF/CNPJ",
	"Chave PIX",
	"ID Obra",
	"Categoria",
	"Status",
	"Observação",
}

// ExportArtifact is a rendered, downloadable export.
type ExportArtifact struct {
	FileName    string
	ContentType string
	Content     []byte
	BatchID     *int64
	RowCount    int
}

// RawExportRecord is a client-supplied export line with loosely typed
// numeric and date fields.
type RawExportRecord struct {
	ID            int64
	PaymentDate   string
	Amount        string
	PaymentMethod string
	PayerLabel    string
	CostCenter    string
	CostCenterID  string
	Payee         string
	PayeeTaxID    string
	PixKey        string
	Category      string
	Status        string
	Notes         string
}

// EntriesPostedEvent is published once an export-and-post commits.
type EntriesPostedEvent struct {
	EventID     string    `json:"eventId"`
	BatchID     int64     `json:"batchId"`
	EntryIDs    []int64   `json:"entryIds"`
	TotalAmount Money     `json:"totalAmount"`
	RequestedBy string    `json:"requestedBy"`
	OccurredAt  time.Time `json:"occurredAt"`
}
