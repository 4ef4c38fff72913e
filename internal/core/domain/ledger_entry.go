package domain

import "io"

// Attachment is a reference to a file held by the external file store.
type Attachment struct {
	Name        string `json:"name"`
	Link        string `json:"link"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	StorageID   string `json:"storageId"`
}

// LedgerEntry is one payment request, or one allocation of a multi-cost-center request.
type LedgerEntry struct {
	ID                int64        `json:"id"`
	EntryDate         Date         `json:"entryDate"`
	PaymentDate       Date         `json:"paymentDate"`
	CompetencyDate    Date         `json:"competencyDate"`
	Requester         string       `json:"requester"`
	Payee             string       `json:"payee"`
	PayeeTaxID        string       `json:"payeeTaxId"`
	Reference         string       `json:"reference"`
	Notes             string       `json:"notes"`
	PixKey            string       `json:"pixKey"`
	Amount            Money        `json:"amount"`
	CostCenterID      int64        `json:"costCenterId"`
	PaymentMethod     string       `json:"paymentMethod"`
	Status            EntryStatus  `json:"status"`
	Account           string       `json:"account"`
	PayerLabel        string       `json:"payerLabel"`
	CategoryID        *int64       `json:"categoryId,omitempty"`
	AttachmentLinks   []Attachment `json:"attachmentLinks"`
	AllocationGroupID *string      `json:"allocationGroupId,omitempty"`
	IsMultiAllocation bool         `json:"isMultiAllocation"`
	AuditFields
}

// InGroup reports whether the entry carries an allocation group token.
func (e LedgerEntry) InGroup() bool {
	return e.AllocationGroupID != nil && *e.AllocationGroupID != ""
}

// Allocation is one cost-center share of a submission.
type Allocation struct {
	CostCenterID int64 `json:"costCenterId"`
	Amount       Money `json:"amount"`
}

// EntrySubmission is a user request that becomes one or more ledger entries.
// Every entry written from it shares all fields except cost center and amount.
type EntrySubmission struct {
	Primary               Allocation
	AdditionalAllocations []Allocation
	IsMultiAllocation     bool
	EntryDate             Date
	PaymentDate           Date
	CompetencyDate        Date
	Requester             string
	Payee                 string
	PayeeTaxID            string
	Reference             string
	Notes                 string
	PixKey                string
	PaymentMethod         string
	Account               string
	PayerLabel            string
	CategoryID            *int64
	AttachmentLinks       []Attachment
}

// Allocations resolves the effective allocation list of the submission.
// Without additional allocations the primary is the only one. With them, the
// additional list is authoritative and the primary is appended only when its
// cost center is not already listed.
func (s EntrySubmission) Allocations() []Allocation {
	if len(s.AdditionalAllocations) == 0 {
		return []Allocation{s.Primary}
	}
	out := make([]Allocation, 0, len(s.AdditionalAllocations)+1)
	listed := make(map[int64]bool, len(s.AdditionalAllocations))
	for _, a := range s.AdditionalAllocations {
		listed[a.CostCenterID] = true
		out = append(out, a)
	}
	if !listed[s.Primary.CostCenterID] && s.Primary.Amount.IsPositive() {
		out = append(out, s.Primary)
	}
	return out
}

// IsSplit reports whether the submission spans additional allocations.
func (s EntrySubmission) IsSplit() bool {
	return len(s.AdditionalAllocations) > 0
}

// EntryFromSubmission builds the entry for one allocation of s.
func EntryFromSubmission(s EntrySubmission, a Allocation) LedgerEntry {
	links := make([]Attachment, len(s.AttachmentLinks))
	copy(links, s.AttachmentLinks)
	return LedgerEntry{
		EntryDate:         s.EntryDate,
		PaymentDate:       s.PaymentDate,
		CompetencyDate:    s.CompetencyDate,
		Requester:         s.Requester,
		Payee:             s.Payee,
		PayeeTaxID:        s.PayeeTaxID,
		Reference:         s.Reference,
		Notes:             s.Notes,
		PixKey:            s.PixKey,
		Amount:            a.Amount,
		CostCenterID:      a.CostCenterID,
		PaymentMethod:     s.PaymentMethod,
		Status:            EntryPending,
		Account:           s.Account,
		PayerLabel:        s.PayerLabel,
		CategoryID:        s.CategoryID,
		AttachmentLinks:   links,
		IsMultiAllocation: s.IsMultiAllocation || s.IsSplit(),
	}
}

// EntryPatch is a partial update of a ledger entry. Nil fields are left untouched.
// Status is changed only through the status transition operations.
type EntryPatch struct {
	EntryDate      *Date
	PaymentDate    *Date
	CompetencyDate *Date
	Requester      *string
	Payee          *string
	PayeeTaxID     *string
	Reference      *string
	Notes          *string
	PixKey         *string
	Amount         *Money
	CostCenterID   *int64
	PaymentMethod  *string
	Account        *string
	PayerLabel     *string
	CategoryID     *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p EntryPatch) IsEmpty() bool {
	return p.EntryDate == nil && p.PaymentDate == nil && p.CompetencyDate == nil &&
		p.Requester == nil && p.Payee == nil && p.PayeeTaxID == nil && p.Reference == nil &&
		p.Notes == nil && p.PixKey == nil && p.Amount == nil && p.CostCenterID == nil &&
		p.PaymentMethod == nil && p.Account == nil && p.PayerLabel == nil && p.CategoryID == nil
}

// Apply returns a copy of e with the patch applied.
func (p EntryPatch) Apply(e LedgerEntry) LedgerEntry {
	if p.EntryDate != nil {
		e.EntryDate = *p.EntryDate
	}
	if p.PaymentDate != nil {
		e.PaymentDate = *p.PaymentDate
	}
	if p.CompetencyDate != nil {
		e.CompetencyDate = *p.CompetencyDate
	}
	if p.Requester != nil {
		e.Requester = *p.Requester
	}
	if p.Payee != nil {
		e.Payee = *p.Payee
	}
	if p.PayeeTaxID != nil {
		e.PayeeTaxID = *p.PayeeTaxID
	}
	if p.Reference != nil {
		e.Reference = *p.Reference
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.PixKey != nil {
		e.PixKey = *p.PixKey
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.CostCenterID != nil {
		e.CostCenterID = *p.CostCenterID
	}
	if p.PaymentMethod != nil {
		e.PaymentMethod = *p.PaymentMethod
	}
	if p.Account != nil {
		e.Account = *p.Account
	}
	if p.PayerLabel != nil {
		e.PayerLabel = *p.PayerLabel
	}
	if p.CategoryID != nil {
		id := *p.CategoryID
		e.CategoryID = &id
	}
	return e
}

// RelatedAllocation is a non-representative member of an allocation group.
type RelatedAllocation struct {
	ID            int64  `json:"id"`
	CostCenterID  int64  `json:"costCenterId"`
	Amount        Money  `json:"amount"`
	Reference     string `json:"reference"`
	PaymentDate   Date   `json:"paymentDate"`
	PaymentMethod string `json:"paymentMethod"`
}

// CollapsedEntry is the display row of a partition: its lowest-id member plus the rest.
type CollapsedEntry struct {
	LedgerEntry
	RelatedAllocations []RelatedAllocation `json:"relatedAllocations"`
	TotalAmount        Money               `json:"totalAmount"`
}

// SortOrder is the listing direction by entry id.
type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

// ListEntriesFilter narrows the collapsed listing.
type ListEntriesFilter struct {
	Status *EntryStatus
	Order  SortOrder
}

// PayeeSuggestion is one distinct payee known to the ledger.
type PayeeSuggestion struct {
	Payee      string `json:"payee"`
	PayeeTaxID string `json:"payeeTaxId"`
}

// CostCenter is the catalog view of a work site.
type CostCenter struct {
	ID         int64  `json:"id"`
	Label      string `json:"label"`
	PayerLabel string `json:"payerLabel"`
}

// UploadFile is a file handed to the external file store.
type UploadFile struct {
	Name     string
	MimeType string
	Content  io.Reader
}
