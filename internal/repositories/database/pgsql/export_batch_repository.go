package pgsql

import (
	"context"
	"fmt"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	"github.com/Jonatasvm/backendGB/internal/models"
	"github.com/Jonatasvm/backendGB/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxExportBatchRepository struct {
	BaseRepository
}

func newPgxExportBatchRepository(pool *pgxpool.Pool) *PgxExportBatchRepository {
	return &PgxExportBatchRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExportBatchRepositoryFacade = (*PgxExportBatchRepository)(nil)

// SaveBatchTx writes the batch header and its item snapshot. Items carry no
// foreign key to ledger_entries, so deleting an entry never shrinks a batch.
func (r *PgxExportBatchRepository) SaveBatchTx(ctx context.Context, tx pgx.Tx, batch domain.ExportBatch) (int64, error) {
	var batchID int64
	err := tx.QueryRow(ctx, `
		INSERT INTO export_batches (requested_by, item_count, generated_at)
		VALUES ($1, $2, $3)
		RETURNING id;`,
		batch.RequestedBy, len(batch.Items), batch.GeneratedAt,
	).Scan(&batchID)
	if err != nil {
		return 0, mapPgError(err, "failed to insert export batch")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO export_batch_items (batch_id, entry_id)
		SELECT $1, unnest($2::bigint[]);`,
		batchID, batch.Items,
	)
	if err != nil {
		return 0, mapPgError(err, "failed to insert export batch items")
	}
	return batchID, nil
}

// ListBatches retrieves batches newest first.
func (r *PgxExportBatchRepository) ListBatches(ctx context.Context) ([]domain.ExportBatch, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, requested_by, item_count, generated_at
		FROM export_batches
		ORDER BY generated_at DESC, id DESC;`)
	if err != nil {
		return nil, mapPgError(err, "failed to query export batches")
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ExportBatch])
	if err != nil {
		return nil, mapPgError(err, "failed to scan export batches")
	}
	out := make([]domain.ExportBatch, len(found))
	for i, m := range found {
		out[i] = mapping.ToDomainExportBatch(m)
	}
	return out, nil
}

// FindBatchItems returns the captured entry ids of a batch.
func (r *PgxExportBatchRepository) FindBatchItems(ctx context.Context, batchID int64) ([]int64, error) {
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM export_batches WHERE id = $1);`, batchID).Scan(&exists); err != nil {
		return nil, mapPgError(err, "failed to look up export batch")
	}
	if !exists {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("export batch %d", batchID))
	}

	rows, err := r.Pool.Query(ctx, `SELECT entry_id FROM export_batch_items WHERE batch_id = $1 ORDER BY entry_id;`, batchID)
	if err != nil {
		return nil, mapPgError(err, "failed to query export batch items")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, mapPgError(err, "failed to scan export batch items")
	}
	return ids, nil
}
