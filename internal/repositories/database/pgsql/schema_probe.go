package pgsql

import (
	"context"
	"fmt"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DetectSchemaCapabilities checks once which optional ledger columns exist.
// Older databases may lack the grouping columns.
func DetectSchemaCapabilities(ctx context.Context, pool *pgxpool.Pool) (domain.SchemaCapabilities, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = 'ledger_entries'
		  AND column_name = ANY($1);
	`
	rows, err := pool.Query(ctx, query, []string{"allocation_group_id", "is_multi_allocation"})
	if err != nil {
		return domain.SchemaCapabilities{}, fmt.Errorf("failed to probe ledger_entries columns: %w", err)
	}
	columns, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return domain.SchemaCapabilities{}, fmt.Errorf("failed to read ledger_entries columns: %w", err)
	}

	var caps domain.SchemaCapabilities
	for _, c := range columns {
		switch c {
		case "allocation_group_id":
			caps.GroupToken = true
		case "is_multi_allocation":
			caps.MultiAllocationFlag = true
		}
	}
	return caps, nil
}
