package services

import (
	"context"
	"time"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	"github.com/Jonatasvm/backendGB/internal/dto"
	"github.com/jackc/pgx/v5"
)

// ExportSvcFacade defines the export operations
type ExportSvcFacade interface {
	// ExportAndPost posts the entries, renders them and records the batch, all in one transaction.
	ExportAndPost(ctx context.Context, req dto.ExportRequest, requestingUserID string) (*domain.ExportArtifact, error)

	// Preview renders the entries without posting or auditing them.
	Preview(ctx context.Context, req dto.ExportRequest) (*domain.ExportArtifact, error)

	// ExportRaw renders client-supplied rows, coercing malformed values.
	ExportRaw(ctx context.Context, req dto.RawExportRequest) (*domain.ExportArtifact, error)
}

// ExportReconciler normalizes entries into export rows and renders artifacts
type ExportReconciler interface {
	// Normalize applies unit, date and label normalization to stored entries.
	Normalize(ctx context.Context, entries []domain.LedgerEntry) []domain.ExportRow

	// NormalizeRaw applies the same normalization to loosely typed rows, logging every coercion.
	NormalizeRaw(ctx context.Context, records []domain.RawExportRecord) []domain.ExportRow

	// Render encodes rows in the requested format.
	Render(ctx context.Context, rows []domain.ExportRow, format domain.ExportFormat, generatedAt time.Time) (*domain.ExportArtifact, error)
}

// ExportHistorySvcFacade defines the audit trail of exports
type ExportHistorySvcFacade interface {
	// RegisterBatch records a batch in its own transaction.
	RegisterBatch(ctx context.Context, requestedBy string, entryIDs []int64) (int64, error)

	// RegisterBatchTx records a batch inside the caller's transaction.
	RegisterBatchTx(ctx context.Context, tx pgx.Tx, requestedBy string, entryIDs []int64) (int64, error)

	// ListBatches returns batches newest first.
	ListBatches(ctx context.Context) ([]domain.ExportBatch, error)

	// ItemsOf returns the entry ids captured when the batch was written.
	ItemsOf(ctx context.Context, batchID int64) ([]int64, error)
}
