package repositories

import (
	"context"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
)

// CatalogRepositoryFacade reads the cost-center and category catalogs owned by other modules.
type CatalogRepositoryFacade interface {
	// FindCostCenterByID returns apperrors.ErrNotFound for unknown ids.
	FindCostCenterByID(ctx context.Context, costCenterID int64) (*domain.CostCenter, error)

	// FindCategoryNameByID returns apperrors.ErrNotFound for unknown ids.
	FindCategoryNameByID(ctx context.Context, categoryID int64) (string, error)
}
