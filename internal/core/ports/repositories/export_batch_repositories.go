package repositories

import (
	"context"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// ExportBatchReader defines read operations for export history
type ExportBatchReader interface {
	// ListBatches returns batches newest first, without items.
	ListBatches(ctx context.Context) ([]domain.ExportBatch, error)

	// FindBatchItems returns the entry ids captured by a batch; apperrors.ErrNotFound for unknown batches.
	FindBatchItems(ctx context.Context, batchID int64) ([]int64, error)
}

// ExportBatchWriter defines write operations for export history
type ExportBatchWriter interface {
	// SaveBatchTx inserts the batch and its items and returns the new batch id.
	SaveBatchTx(ctx context.Context, tx pgx.Tx, batch domain.ExportBatch) (int64, error)
}

// ExportBatchRepositoryFacade combines all export history repository interfaces
type ExportBatchRepositoryFacade interface {
	ExportBatchReader
	ExportBatchWriter
	TransactionManager
}
