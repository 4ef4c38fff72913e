package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
)

// exportHistoryService records and reads export batches.
type exportHistoryService struct {
	BaseService
	batchRepo portsrepo.ExportBatchRepositoryFacade
	now       func() time.Time
}

// NewExportHistoryService creates a new export history service.
func NewExportHistoryService(batchRepo portsrepo.ExportBatchRepositoryFacade) portssvc.ExportHistorySvcFacade {
	return &exportHistoryService{
		batchRepo: batchRepo,
		now:       time.Now,
	}
}

var _ portssvc.ExportHistorySvcFacade = (*exportHistoryService)(nil)

func (s *exportHistoryService) RegisterBatch(ctx context.Context, requestedBy string, entryIDs []int64) (int64, error) {
	ids, err := normalizeEntryIDs(entryIDs)
	if err != nil {
		return 0, err
	}

	tx, err := s.batchRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction for export batch")
		return 0, err
	}
	defer func() { _ = s.batchRepo.Rollback(ctx, tx) }()

	batchID, err := s.RegisterBatchTx(ctx, tx, requestedBy, ids)
	if err != nil {
		return 0, err
	}
	if err := s.batchRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit export batch")
		return 0, err
	}
	return batchID, nil
}

// RegisterBatchTx writes the batch inside tx; the caller owns commit and rollback.
func (s *exportHistoryService) RegisterBatchTx(ctx context.Context, tx pgx.Tx, requestedBy string, entryIDs []int64) (int64, error) {
	if len(entryIDs) == 0 {
		return 0, apperrors.NewValidationFailedError("entryIds", "must not be empty")
	}
	batch := domain.ExportBatch{
		RequestedBy: requestedBy,
		Count:       len(entryIDs),
		GeneratedAt: s.now().UTC(),
		Items:       entryIDs,
	}
	batchID, err := s.batchRepo.SaveBatchTx(ctx, tx, batch)
	if err != nil {
		s.LogError(ctx, err, "Failed to save export batch", slog.Int("item_count", len(entryIDs)))
		return 0, err
	}
	s.LogInfo(ctx, "Export batch recorded",
		slog.Int64("batch_id", batchID),
		slog.Int("item_count", len(entryIDs)),
		slog.String("requested_by", requestedBy))
	return batchID, nil
}

func (s *exportHistoryService) ListBatches(ctx context.Context) ([]domain.ExportBatch, error) {
	batches, err := s.batchRepo.ListBatches(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list export batches")
		return nil, err
	}
	return batches, nil
}

func (s *exportHistoryService) ItemsOf(ctx context.Context, batchID int64) ([]int64, error) {
	items, err := s.batchRepo.FindBatchItems(ctx, batchID)
	if err != nil {
		s.LogDebug(ctx, "Export batch items lookup failed", slog.Int64("batch_id", batchID), slog.String("error", err.Error()))
		return nil, err
	}
	return items, nil
}
