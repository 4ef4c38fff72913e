package services

import (
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/Jonatasvm/backendGB/internal/platform/config"
)

// Adapters bundles the outbound collaborators built in main.
type Adapters struct {
	Storage   portssvc.FileStorage
	Publisher portssvc.EventPublisher
	Writers   []portssvc.ArtifactWriter
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, adapters Adapters) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Ledger = NewLedgerService(repos.LedgerRepo, WithFileStorage(adapters.Storage))
	container.Status = NewStatusService(repos.LedgerRepo)
	container.ExportHistory = NewExportHistoryService(repos.ExportBatchRepo)

	reconciler := NewExportReconciler(
		NewCostCenterCatalog(repos.CatalogRepo),
		NewCategoryCatalog(repos.CatalogRepo),
		adapters.Writers,
		WithDateShiftDays(cfg.ExportDateShiftDays),
	)

	exportOptions := []ExportServiceOption{}
	if format, ok := domain.ParseExportFormat(cfg.ExportDefaultFormat); ok {
		exportOptions = append(exportOptions, WithDefaultExportFormat(format))
	}
	if adapters.Publisher != nil {
		exportOptions = append(exportOptions, WithEventPublisher(adapters.Publisher, cfg.KafkaTopic))
	}
	container.Export = NewExportService(repos.LedgerRepo, container.ExportHistory, reconciler, exportOptions...)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade        = (*ledgerService)(nil)
	_ portssvc.StatusSvcFacade        = (*statusService)(nil)
	_ portssvc.ExportSvcFacade        = (*exportService)(nil)
	_ portssvc.ExportHistorySvcFacade = (*exportHistoryService)(nil)
)
