package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
)

// statusService moves single entries between statuses.
type statusService struct {
	BaseService
	ledgerRepo portsrepo.LedgerEntryRepositoryFacade
	now        func() time.Time
}

// NewStatusService creates a new status service.
func NewStatusService(ledgerRepo portsrepo.LedgerEntryRepositoryFacade) portssvc.StatusSvcFacade {
	return &statusService{
		ledgerRepo: ledgerRepo,
		now:        time.Now,
	}
}

var _ portssvc.StatusSvcFacade = (*statusService)(nil)

// ToggleStatus validates rawStatus before touching the store, then locks the
// row and applies the transition. Moving an entry to the status it already
// has is a no-op.
func (s *statusService) ToggleStatus(ctx context.Context, entryID int64, rawStatus string, requestingUserID string) (*domain.LedgerEntry, error) {
	target, err := domain.ParseEntryStatus(rawStatus)
	if err != nil {
		return nil, apperrors.NewValidationFailedError("status", err.Error())
	}

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction for status toggle")
		return nil, err
	}
	defer func() { _ = s.ledgerRepo.Rollback(ctx, tx) }()

	locked, err := s.ledgerRepo.FindEntriesForUpdateTx(ctx, tx, []int64{entryID})
	if err != nil {
		s.LogError(ctx, err, "Failed to lock ledger entry", slog.Int64("entry_id", entryID))
		return nil, err
	}
	if len(locked) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %d", entryID))
	}
	current := locked[0]

	if current.Status == target {
		s.LogDebug(ctx, "Status already at target", slog.Int64("entry_id", entryID), slog.String("status", string(target)))
		return &current, nil
	}
	if !current.Status.CanTransitionTo(target) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("ledger entry %d is %s and cannot move to %s", entryID, current.Status, target))
	}

	affected, err := s.ledgerRepo.UpdateStatusTx(ctx, tx, []int64{entryID}, target, requestingUserID, s.now().UTC())
	if err != nil {
		s.LogError(ctx, err, "Failed to update ledger entry status", slog.Int64("entry_id", entryID))
		return nil, err
	}
	if affected == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %d", entryID))
	}

	updated, err := s.ledgerRepo.FindEntriesByIDsTx(ctx, tx, []int64{entryID})
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %d", entryID))
	}
	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit status toggle", slog.Int64("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Ledger entry status changed",
		slog.Int64("entry_id", entryID),
		slog.String("from", string(current.Status)),
		slog.String("to", string(target)),
		slog.String("updated_by", requestingUserID))
	return &updated[0], nil
}
