package pgsql

import (
	"context"
	"log/slog"

	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider probes the schema once and wires every repository to the pool.
func NewRepositoryProvider(ctx context.Context, dbPool *pgxpool.Pool, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	caps, err := DetectSchemaCapabilities(ctx, dbPool)
	if err != nil {
		return portsrepo.RepositoryProvider{}, err
	}
	if !caps.GroupToken {
		logger.Warn("ledger_entries has no allocation_group_id column; split entries will be written without a group token")
	}
	if !caps.MultiAllocationFlag {
		logger.Warn("ledger_entries has no is_multi_allocation column; legacy split detection is unavailable")
	}
	logger.Info("Schema capabilities detected",
		slog.Bool("group_token", caps.GroupToken),
		slog.Bool("multi_allocation_flag", caps.MultiAllocationFlag))

	return portsrepo.RepositoryProvider{
		LedgerRepo:      newPgxLedgerRepository(dbPool, caps),
		ExportBatchRepo: newPgxExportBatchRepository(dbPool),
		CatalogRepo:     newPgxCatalogRepository(dbPool),
	}, nil
}
