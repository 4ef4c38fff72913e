package dto

import (
	"time"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
)

// AllocationRequest is one additional cost-center share. Non-positive amounts are
// accepted and skipped by the service.
type AllocationRequest struct {
	CostCenterID int64 `json:"costCenterId" binding:"required,gt=0"`
	Amount       int64 `json:"amount"`
}

// CreateEntryRequest defines the data needed to create a ledger entry.
// Amounts are minor units.
type CreateEntryRequest struct {
	CostCenterID          int64               `json:"costCenterId" binding:"required,gt=0"`
	Amount                int64               `json:"amount" binding:"gte=0"`
	AdditionalAllocations []AllocationRequest `json:"additionalAllocations" binding:"omitempty,dive"`
	IsMultiAllocation     bool                `json:"isMultiAllocation"`
	EntryDate             string              `json:"entryDate" binding:"required"`
	PaymentDate           string              `json:"paymentDate"`
	CompetencyDate        string              `json:"competencyDate"`
	Requester             string              `json:"requester" binding:"required"`
	Payee                 string              `json:"payee" binding:"required"`
	PayeeTaxID            string              `json:"payeeTaxId"`
	Reference             string              `json:"reference"`
	Notes                 string              `json:"notes"`
	PixKey                string              `json:"pixKey"`
	PaymentMethod         string              `json:"paymentMethod" binding:"required"`
	Account               string              `json:"account"`
	PayerLabel            string              `json:"payerLabel"`
	CategoryID            *int64              `json:"categoryId" binding:"omitempty,gt=0"`
	AttachmentLinks       []domain.Attachment `json:"attachmentLinks"`
}

// ToSubmission converts the request into a domain submission, parsing dates.
func (r CreateEntryRequest) ToSubmission() (domain.EntrySubmission, error) {
	entryDate, err := parseDateField("entryDate", r.EntryDate)
	if err != nil {
		return domain.EntrySubmission{}, err
	}
	paymentDate, err := parseDateField("paymentDate", r.PaymentDate)
	if err != nil {
		return domain.EntrySubmission{}, err
	}
	competencyDate, err := parseDateField("competencyDate", r.CompetencyDate)
	if err != nil {
		return domain.EntrySubmission{}, err
	}

	additional := make([]domain.Allocation, len(r.AdditionalAllocations))
	for i, a := range r.AdditionalAllocations {
		additional[i] = domain.Allocation{CostCenterID: a.CostCenterID, Amount: domain.Money(a.Amount)}
	}

	return domain.EntrySubmission{
		Primary:               domain.Allocation{CostCenterID: r.CostCenterID, Amount: domain.Money(r.Amount)},
		AdditionalAllocations: additional,
		IsMultiAllocation:     r.IsMultiAllocation,
		EntryDate:             entryDate,
		PaymentDate:           paymentDate,
		CompetencyDate:        competencyDate,
		Requester:             r.Requester,
		Payee:                 r.Payee,
		PayeeTaxID:            r.PayeeTaxID,
		Reference:             r.Reference,
		Notes:                 r.Notes,
		PixKey:                r.PixKey,
		PaymentMethod:         r.PaymentMethod,
		Account:               r.Account,
		PayerLabel:            r.PayerLabel,
		CategoryID:            r.CategoryID,
		AttachmentLinks:       r.AttachmentLinks,
	}, nil
}

// UpdateEntryRequest defines a partial update. Omitted fields are left unchanged.
type UpdateEntryRequest struct {
	EntryDate      *string `json:"entryDate"`
	PaymentDate    *string `json:"paymentDate"`
	CompetencyDate *string `json:"competencyDate"`
	Requester      *string `json:"requester" binding:"omitempty,min=1"`
	Payee          *string `json:"payee" binding:"omitempty,min=1"`
	PayeeTaxID     *string `json:"payeeTaxId"`
	Reference      *string `json:"reference"`
	Notes          *string `json:"notes"`
	PixKey         *string `json:"pixKey"`
	Amount         *int64  `json:"amount" binding:"omitempty,gt=0"`
	CostCenterID   *int64  `json:"costCenterId" binding:"omitempty,gt=0"`
	PaymentMethod  *string `json:"paymentMethod" binding:"omitempty,min=1"`
	Account        *string `json:"account"`
	PayerLabel     *string `json:"payerLabel"`
	CategoryID     *int64  `json:"categoryId" binding:"omitempty,gt=0"`
}

// ToPatch converts the request into a domain patch.
func (r UpdateEntryRequest) ToPatch() (domain.EntryPatch, error) {
	patch := domain.EntryPatch{
		Requester:     r.Requester,
		Payee:         r.Payee,
		PayeeTaxID:    r.PayeeTaxID,
		Reference:     r.Reference,
		Notes:         r.Notes,
		PixKey:        r.PixKey,
		CostCenterID:  r.CostCenterID,
		PaymentMethod: r.PaymentMethod,
		Account:       r.Account,
		PayerLabel:    r.PayerLabel,
		CategoryID:    r.CategoryID,
	}
	if r.Amount != nil {
		amount := domain.Money(*r.Amount)
		patch.Amount = &amount
	}
	dates := []struct {
		field string
		raw   *string
		dst   **domain.Date
	}{
		{"entryDate", r.EntryDate, &patch.EntryDate},
		{"paymentDate", r.PaymentDate, &patch.PaymentDate},
		{"competencyDate", r.CompetencyDate, &patch.CompetencyDate},
	}
	for _, d := range dates {
		if d.raw == nil {
			continue
		}
		parsed, err := parseDateField(d.field, *d.raw)
		if err != nil {
			return domain.EntryPatch{}, err
		}
		*d.dst = &parsed
	}
	return patch, nil
}

// ToggleStatusRequest carries the target status of a single entry.
type ToggleStatusRequest struct {
	Status string `json:"status" binding:"required,entrystatus"`
}

// ListEntriesParams defines the query parameters of the collapsed listing.
type ListEntriesParams struct {
	Status string `form:"status" binding:"omitempty,entrystatus"`
	Order  string `form:"order" binding:"omitempty,oneof=asc desc"`
}

// ToFilter converts the parameters into a domain filter.
func (p ListEntriesParams) ToFilter() (domain.ListEntriesFilter, error) {
	filter := domain.ListEntriesFilter{Order: domain.SortDesc}
	if p.Order == string(domain.SortAsc) {
		filter.Order = domain.SortAsc
	}
	if p.Status != "" {
		status, err := domain.ParseEntryStatus(p.Status)
		if err != nil {
			return filter, apperrors.NewValidationFailedError("status", err.Error())
		}
		filter.Status = &status
	}
	return filter, nil
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	ID                int64               `json:"id"`
	EntryDate         domain.Date         `json:"entryDate"`
	PaymentDate       domain.Date         `json:"paymentDate"`
	CompetencyDate    domain.Date         `json:"competencyDate"`
	Requester         string              `json:"requester"`
	Payee             string              `json:"payee"`
	PayeeTaxID        string              `json:"payeeTaxId"`
	Reference         string              `json:"reference"`
	Notes             string              `json:"notes"`
	PixKey            string              `json:"pixKey"`
	Amount            int64               `json:"amount"`
	CostCenterID      int64               `json:"costCenterId"`
	PaymentMethod     string              `json:"paymentMethod"`
	Status            string              `json:"status"`
	Account           string              `json:"account"`
	PayerLabel        string              `json:"payerLabel"`
	CategoryID        *int64              `json:"categoryId,omitempty"`
	AttachmentLinks   []domain.Attachment `json:"attachmentLinks"`
	AllocationGroupID *string             `json:"allocationGroupId,omitempty"`
	IsMultiAllocation bool                `json:"isMultiAllocation"`
	CreatedAt         time.Time           `json:"createdAt"`
	CreatedBy         string              `json:"createdBy"`
	LastUpdatedAt     time.Time           `json:"lastUpdatedAt"`
	LastUpdatedBy     string              `json:"lastUpdatedBy"`
}

// RelatedAllocationResponse is a nested group member in the collapsed listing.
type RelatedAllocationResponse struct {
	ID            int64       `json:"id"`
	CostCenterID  int64       `json:"costCenterId"`
	Amount        int64       `json:"amount"`
	Reference     string      `json:"reference"`
	PaymentDate   domain.Date `json:"paymentDate"`
	PaymentMethod string      `json:"paymentMethod"`
}

// CollapsedEntryResponse is one row of the collapsed listing.
type CollapsedEntryResponse struct {
	LedgerEntryResponse
	RelatedAllocations []RelatedAllocationResponse `json:"relatedAllocations"`
	TotalAmount        int64                       `json:"totalAmount"`
}

// CreateEntryResponse lists every entry written for one submission.
type CreateEntryResponse struct {
	AllocationGroupID *string               `json:"allocationGroupId,omitempty"`
	TotalAmount       int64                 `json:"totalAmount"`
	Entries           []LedgerEntryResponse `json:"entries"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to LedgerEntryResponse DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	links := e.AttachmentLinks
	if links == nil {
		links = []domain.Attachment{}
	}
	return LedgerEntryResponse{
		ID:                e.ID,
		EntryDate:         e.EntryDate,
		PaymentDate:       e.PaymentDate,
		CompetencyDate:    e.CompetencyDate,
		Requester:         e.Requester,
		Payee:             e.Payee,
		PayeeTaxID:        e.PayeeTaxID,
		Reference:         e.Reference,
		Notes:             e.Notes,
		PixKey:            e.PixKey,
		Amount:            int64(e.Amount),
		CostCenterID:      e.CostCenterID,
		PaymentMethod:     e.PaymentMethod,
		Status:            string(e.Status),
		Account:           e.Account,
		PayerLabel:        e.PayerLabel,
		CategoryID:        e.CategoryID,
		AttachmentLinks:   links,
		AllocationGroupID: e.AllocationGroupID,
		IsMultiAllocation: e.IsMultiAllocation,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
		LastUpdatedAt:     e.LastUpdatedAt,
		LastUpdatedBy:     e.LastUpdatedBy,
	}
}

// ToCreateEntryResponse summarizes the entries written for one submission.
func ToCreateEntryResponse(entries []domain.LedgerEntry) CreateEntryResponse {
	resp := CreateEntryResponse{Entries: make([]LedgerEntryResponse, len(entries))}
	for i := range entries {
		resp.Entries[i] = ToLedgerEntryResponse(&entries[i])
		resp.TotalAmount += int64(entries[i].Amount)
	}
	if len(entries) > 0 {
		resp.AllocationGroupID = entries[0].AllocationGroupID
	}
	return resp
}

// ToCollapsedEntryResponses converts the collapsed listing.
func ToCollapsedEntryResponses(rows []domain.CollapsedEntry) []CollapsedEntryResponse {
	out := make([]CollapsedEntryResponse, len(rows))
	for i := range rows {
		related := make([]RelatedAllocationResponse, len(rows[i].RelatedAllocations))
		for j, r := range rows[i].RelatedAllocations {
			related[j] = RelatedAllocationResponse{
				ID:            r.ID,
				CostCenterID:  r.CostCenterID,
				Amount:        int64(r.Amount),
				Reference:     r.Reference,
				PaymentDate:   r.PaymentDate,
				PaymentMethod: r.PaymentMethod,
			}
		}
		out[i] = CollapsedEntryResponse{
			LedgerEntryResponse: ToLedgerEntryResponse(&rows[i].LedgerEntry),
			RelatedAllocations:  related,
			TotalAmount:         int64(rows[i].TotalAmount),
		}
	}
	return out
}

func parseDateField(field, raw string) (domain.Date, error) {
	d, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, apperrors.NewValidationFailedError(field, err.Error())
	}
	return d, nil
}
