package services

import (
	"context"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
)

// CostCenterCatalog resolves work-site labels for display.
type CostCenterCatalog interface {
	Resolve(ctx context.Context, costCenterID int64) (domain.CostCenter, error)
}

// CategoryCatalog resolves category names for display.
type CategoryCatalog interface {
	Resolve(ctx context.Context, categoryID int64) (string, error)
}

// FileStorage stores attachment files outside the ledger.
type FileStorage interface {
	UploadBatch(ctx context.Context, files []domain.UploadFile, entryID int64, costCenterID int64) ([]domain.Attachment, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
	Close() error
}

// ArtifactWriter encodes export rows into one file format.
type ArtifactWriter interface {
	Format() domain.ExportFormat
	ContentType() string
	Write(rows []domain.ExportRow) ([]byte, error)
}
