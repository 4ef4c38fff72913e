package services

import (
	"context"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
)

// StatusSvcFacade defines single-entry status transitions
type StatusSvcFacade interface {
	// ToggleStatus moves one entry to the status named by rawStatus.
	// Unknown values fail validation before the store is touched.
	ToggleStatus(ctx context.Context, entryID int64, rawStatus string, requestingUserID string) (*domain.LedgerEntry, error)
}
