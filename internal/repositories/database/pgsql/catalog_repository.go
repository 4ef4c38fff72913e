package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	"github.com/Jonatasvm/backendGB/internal/models"
	"github.com/Jonatasvm/backendGB/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCatalogRepository reads cost centers and categories. Both tables are
// maintained by the catalog module; this service never writes them.
type PgxCatalogRepository struct {
	BaseRepository
}

func newPgxCatalogRepository(pool *pgxpool.Pool) *PgxCatalogRepository {
	return &PgxCatalogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CatalogRepositoryFacade = (*PgxCatalogRepository)(nil)

func (r *PgxCatalogRepository) FindCostCenterByID(ctx context.Context, costCenterID int64) (*domain.CostCenter, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, name, payer_label FROM cost_centers WHERE id = $1;`, costCenterID)
	if err != nil {
		return nil, mapPgError(err, "failed to query cost center")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.CostCenter])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("cost center %d", costCenterID))
		}
		return nil, mapPgError(err, "failed to scan cost center")
	}
	cc := mapping.ToDomainCostCenter(m)
	return &cc, nil
}

func (r *PgxCatalogRepository) FindCategoryNameByID(ctx context.Context, categoryID int64) (string, error) {
	var name string
	err := r.Pool.QueryRow(ctx, `SELECT name FROM categories WHERE id = $1;`, categoryID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundError(fmt.Sprintf("category %d", categoryID))
		}
		return "", mapPgError(err, "failed to query category")
	}
	return name, nil
}
