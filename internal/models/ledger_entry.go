package models

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Attachment is the JSON shape stored in ledger_entries.attachment_links.
type Attachment struct {
	Name        string `json:"name"`
	Link        string `json:"link"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	StorageID   string `json:"storageId"`
}

// LedgerEntry is the row shape of ledger_entries.
type LedgerEntry struct {
	ID                int64        `db:"id"`
	EntryDate         pgtype.Date  `db:"entry_date"`
	PaymentDate       pgtype.Date  `db:"payment_date"`
	CompetencyDate    pgtype.Date  `db:"competency_date"`
	Requester         string       `db:"requester"`
	Payee             string       `db:"payee"`
	PayeeTaxID        string       `db:"payee_tax_id"`
	Reference         string       `db:"reference"`
	Notes             string       `db:"notes"`
	PixKey            string       `db:"pix_key"`
	Amount            int64        `db:"amount"`
	CostCenterID      int64        `db:"cost_center_id"`
	PaymentMethod     string       `db:"payment_method"`
	Status            string       `db:"status"`
	Account           string       `db:"account"`
	PayerLabel        string       `db:"payer_label"`
	CategoryID        *int64       `db:"category_id"`
	AttachmentLinks   []Attachment `db:"attachment_links"`
	AllocationGroupID *string      `db:"allocation_group_id"`
	IsMultiAllocation bool         `db:"is_multi_allocation"`
	AuditFields
}

// PayeeSuggestion is a distinct (payee, payee_tax_id) pair.
type PayeeSuggestion struct {
	Payee      string `db:"payee"`
	PayeeTaxID string `db:"payee_tax_id"`
}
