package dto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
)

// ExportRequest selects entries for export.
type ExportRequest struct {
	IDs    []int64 `json:"ids"`
	Format string  `json:"format" binding:"omitempty,oneof=xlsx csv"`
}

// RawExportRecordRequest is a client-supplied export line. Amount and dates
// arrive as whatever JSON type the client produced.
type RawExportRecordRequest struct {
	ID            int64  `json:"id"`
	PaymentDate   any    `json:"paymentDate"`
	Amount        any    `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
	PayerLabel    string `json:"payerLabel"`
	CostCenter    string `json:"costCenter"`
	CostCenterID  any    `json:"costCenterId"`
	Payee         string `json:"payee"`
	PayeeTaxID    string `json:"payeeTaxId"`
	PixKey        string `json:"pixKey"`
	Category      string `json:"category"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

// RawExportRequest carries client-supplied rows for a lenient export.
type RawExportRequest struct {
	Records []RawExportRecordRequest `json:"records" binding:"required,min=1"`
	Format  string                   `json:"format" binding:"omitempty,oneof=xlsx csv"`
}

// ToRecords flattens the loosely typed values to strings for the reconciler.
func (r RawExportRequest) ToRecords() []domain.RawExportRecord {
	out := make([]domain.RawExportRecord, len(r.Records))
	for i, rec := range r.Records {
		out[i] = domain.RawExportRecord{
			ID:            rec.ID,
			PaymentDate:   looseString(rec.PaymentDate),
			Amount:        looseString(rec.Amount),
			PaymentMethod: rec.PaymentMethod,
			PayerLabel:    rec.PayerLabel,
			CostCenter:    rec.CostCenter,
			CostCenterID:  looseString(rec.CostCenterID),
			Payee:         rec.Payee,
			PayeeTaxID:    rec.PayeeTaxID,
			PixKey:        rec.PixKey,
			Category:      rec.Category,
			Status:        rec.Status,
			Notes:         rec.Notes,
		}
	}
	return out
}

func looseString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// RegisterBatchRequest records an export performed outside the export endpoint.
type RegisterBatchRequest struct {
	EntryIDs []int64 `json:"entryIds" binding:"required,min=1,dive,gt=0"`
}

// ExportBatchResponse defines the data returned for an export batch.
// GeneratedAtDisplay is the legacy dd/mm/yyyy hh:mm:ss rendering.
type ExportBatchResponse struct {
	ID                 int64     `json:"id"`
	RequestedBy        string    `json:"requestedBy"`
	Count              int       `json:"count"`
	GeneratedAt        time.Time `json:"generatedAt"`
	GeneratedAtDisplay string    `json:"generatedAtDisplay"`
}

// BatchItemsResponse lists the entry ids captured by a batch.
type BatchItemsResponse struct {
	BatchID  int64   `json:"batchId"`
	EntryIDs []int64 `json:"entryIds"`
}

// RegisterBatchResponse returns the id of a newly recorded batch.
type RegisterBatchResponse struct {
	BatchID int64 `json:"batchId"`
}

// ToExportBatchResponses converts batches for listing.
func ToExportBatchResponses(batches []domain.ExportBatch) []ExportBatchResponse {
	out := make([]ExportBatchResponse, len(batches))
	for i, b := range batches {
		out[i] = ExportBatchResponse{
			ID:                 b.ID,
			RequestedBy:        b.RequestedBy,
			Count:              b.Count,
			GeneratedAt:        b.GeneratedAt,
			GeneratedAtDisplay: b.GeneratedAt.Format("02/01/2006 15:04:05"),
		}
	}
	return out
}
