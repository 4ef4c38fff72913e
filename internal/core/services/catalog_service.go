package services

import (
	"context"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
)

type costCenterCatalog struct {
	repo portsrepo.CatalogRepositoryFacade
}

// NewCostCenterCatalog resolves cost centers from the catalog tables.
func NewCostCenterCatalog(repo portsrepo.CatalogRepositoryFacade) portssvc.CostCenterCatalog {
	return &costCenterCatalog{repo: repo}
}

func (c *costCenterCatalog) Resolve(ctx context.Context, costCenterID int64) (domain.CostCenter, error) {
	cc, err := c.repo.FindCostCenterByID(ctx, costCenterID)
	if err != nil {
		return domain.CostCenter{}, err
	}
	return *cc, nil
}

type categoryCatalog struct {
	repo portsrepo.CatalogRepositoryFacade
}

// NewCategoryCatalog resolves category names from the catalog tables.
func NewCategoryCatalog(repo portsrepo.CatalogRepositoryFacade) portssvc.CategoryCatalog {
	return &categoryCatalog{repo: repo}
}

func (c *categoryCatalog) Resolve(ctx context.Context, categoryID int64) (string, error) {
	return c.repo.FindCategoryNameByID(ctx, categoryID)
}
