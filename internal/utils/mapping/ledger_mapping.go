package mapping

import (
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	"github.com/Jonatasvm/backendGB/internal/models"
	"github.com/jackc/pgx/v5/pgtype"
)

// ToModelLedgerEntry converts a domain.LedgerEntry to a models.LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	links := make([]models.Attachment, len(d.AttachmentLinks))
	for i, a := range d.AttachmentLinks {
		links[i] = models.Attachment(a)
	}
	return models.LedgerEntry{
		ID:                d.ID,
		EntryDate:         ToPgDate(d.EntryDate),
		PaymentDate:       ToPgDate(d.PaymentDate),
		CompetencyDate:    ToPgDate(d.CompetencyDate),
		Requester:         d.Requester,
		Payee:             d.Payee,
		PayeeTaxID:        d.PayeeTaxID,
		Reference:         d.Reference,
		Notes:             d.Notes,
		PixKey:            d.PixKey,
		Amount:            int64(d.Amount),
		CostCenterID:      d.CostCenterID,
		PaymentMethod:     d.PaymentMethod,
		Status:            string(d.Status),
		Account:           d.Account,
		PayerLabel:        d.PayerLabel,
		CategoryID:        d.CategoryID,
		AttachmentLinks:   links,
		AllocationGroupID: d.AllocationGroupID,
		IsMultiAllocation: d.IsMultiAllocation,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a models.LedgerEntry to a domain.LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	links := make([]domain.Attachment, len(m.AttachmentLinks))
	for i, a := range m.AttachmentLinks {
		links[i] = domain.Attachment(a)
	}
	return domain.LedgerEntry{
		ID:                m.ID,
		EntryDate:         ToDomainDate(m.EntryDate),
		PaymentDate:       ToDomainDate(m.PaymentDate),
		CompetencyDate:    ToDomainDate(m.CompetencyDate),
		Requester:         m.Requester,
		Payee:             m.Payee,
		PayeeTaxID:        m.PayeeTaxID,
		Reference:         m.Reference,
		Notes:             m.Notes,
		PixKey:            m.PixKey,
		Amount:            domain.Money(m.Amount),
		CostCenterID:      m.CostCenterID,
		PaymentMethod:     m.PaymentMethod,
		Status:            domain.EntryStatus(m.Status),
		Account:           m.Account,
		PayerLabel:        m.PayerLabel,
		CategoryID:        m.CategoryID,
		AttachmentLinks:   links,
		AllocationGroupID: m.AllocationGroupID,
		IsMultiAllocation: m.IsMultiAllocation,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntries converts a slice of models.LedgerEntry.
func ToDomainLedgerEntries(ms []models.LedgerEntry) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(ms))
	for i := range ms {
		out[i] = ToDomainLedgerEntry(ms[i])
	}
	return out
}

// ToDomainExportBatch converts a models.ExportBatch to a domain.ExportBatch
func ToDomainExportBatch(m models.ExportBatch) domain.ExportBatch {
	return domain.ExportBatch{
		ID:          m.ID,
		RequestedBy: m.RequestedBy,
		Count:       m.Count,
		GeneratedAt: m.GeneratedAt,
	}
}

// ToDomainCostCenter converts a models.CostCenter to a domain.CostCenter
func ToDomainCostCenter(m models.CostCenter) domain.CostCenter {
	return domain.CostCenter{ID: m.ID, Label: m.Name, PayerLabel: m.PayerLabel}
}

// ToPgDate maps an unset date to SQL NULL.
func ToPgDate(d domain.Date) pgtype.Date {
	if d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}

// ToDomainDate maps SQL NULL to an unset date.
func ToDomainDate(p pgtype.Date) domain.Date {
	if !p.Valid {
		return domain.Date{}
	}
	return domain.DateOf(p.Time)
}
