package services

import (
	"context"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	"github.com/Jonatasvm/backendGB/internal/dto"
)

// LedgerEntryReaderSvc defines read operations for ledger entries
type LedgerEntryReaderSvc interface {
	// GetEntry retrieves a single ledger entry.
	GetEntry(ctx context.Context, entryID int64) (*domain.LedgerEntry, error)

	// ListCollapsed lists entries with allocation groups folded into one representative each.
	ListCollapsed(ctx context.Context, params dto.ListEntriesParams) ([]domain.CollapsedEntry, error)

	// SearchPayees suggests payees by name prefix.
	SearchPayees(ctx context.Context, query string) ([]domain.PayeeSuggestion, error)

	// ListPayees lists every distinct payee.
	ListPayees(ctx context.Context) ([]domain.PayeeSuggestion, error)
}

// LedgerEntryWriterSvc defines write operations for ledger entries
type LedgerEntryWriterSvc interface {
	// CreateEntry writes one entry, or one per positive allocation for split submissions, atomically.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) ([]domain.LedgerEntry, error)

	// UpdateEntry applies a partial update.
	UpdateEntry(ctx context.Context, entryID int64, req dto.UpdateEntryRequest, requestingUserID string) (*domain.LedgerEntry, error)

	// DeleteEntry removes a single entry. Group siblings are untouched.
	DeleteEntry(ctx context.Context, entryID int64, requestingUserID string) error

	// AttachFiles uploads files to the external store and records the returned references.
	AttachFiles(ctx context.Context, entryID int64, files []domain.UploadFile, requestingUserID string) (*domain.LedgerEntry, error)
}

// LedgerSvcFacade combines all ledger entry service interfaces
type LedgerSvcFacade interface {
	LedgerEntryReaderSvc
	LedgerEntryWriterSvc
}
