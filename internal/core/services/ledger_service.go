package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/Jonatasvm/backendGB/internal/dto"
	"github.com/Jonatasvm/backendGB/internal/utils"
	"github.com/Jonatasvm/backendGB/internal/utils/allocation"
	"github.com/jackc/pgx/v5"
)

const (
	payeeSuggestionLimit  = 10
	maxGroupTokenAttempts = 5
)

// ledgerService creates, lists and edits ledger entries.
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerEntryRepositoryFacade
	storage    portssvc.FileStorage
	strategies []allocation.GroupingStrategy
	now        func() time.Time
	newToken   func() (string, error)
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithFileStorage adds the attachment store
func WithFileStorage(storage portssvc.FileStorage) LedgerServiceOption {
	return func(s *ledgerService) {
		s.storage = storage
	}
}

// WithGroupingStrategies replaces the strategies used by the collapsed listing
func WithGroupingStrategies(strategies ...allocation.GroupingStrategy) LedgerServiceOption {
	return func(s *ledgerService) {
		s.strategies = strategies
	}
}

// WithLedgerClock overrides the time source used for audit fields
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// WithGroupTokenGenerator overrides the allocation group token source
func WithGroupTokenGenerator(gen func() (string, error)) LedgerServiceOption {
	return func(s *ledgerService) {
		s.newToken = gen
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(ledgerRepo portsrepo.LedgerEntryRepositoryFacade, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		ledgerRepo: ledgerRepo,
		strategies: allocation.DefaultStrategies,
		now:        time.Now,
		newToken:   utils.NewAllocationGroupToken,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateEntry writes one entry per positive allocation of the submission in a
// single transaction. Split submissions share a freshly generated group token.
func (s *ledgerService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) ([]domain.LedgerEntry, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	submission, err := req.ToSubmission()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	allocations := submission.Allocations()
	entries := make([]domain.LedgerEntry, 0, len(allocations))
	for _, a := range allocations {
		if !a.Amount.IsPositive() {
			s.LogWarn(ctx, "Skipping non-positive allocation",
				slog.Int64("cost_center_id", a.CostCenterID),
				slog.Int64("amount", int64(a.Amount)))
			continue
		}
		entry := domain.EntryFromSubmission(submission, a)
		entry.AuditFields = audit
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil, apperrors.NewValidationFailedError("amount", "at least one allocation must have a positive amount")
	}

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction for entry creation")
		return nil, err
	}
	defer func() { _ = s.ledgerRepo.Rollback(ctx, tx) }()

	var groupToken *string
	if submission.IsSplit() {
		if s.ledgerRepo.Capabilities().GroupToken {
			token, err := s.allocateGroupToken(ctx, tx)
			if err != nil {
				return nil, err
			}
			groupToken = &token
			for i := range entries {
				entries[i].AllocationGroupID = groupToken
			}
		} else {
			s.LogDebug(ctx, "Group token column unavailable, writing split entries without token",
				slog.String("requester", submission.Requester))
		}
	}

	saved, err := s.ledgerRepo.SaveEntriesTx(ctx, tx, entries)
	if err != nil {
		s.LogError(ctx, err, "Failed to save ledger entries", slog.Int("entry_count", len(entries)))
		return nil, err
	}
	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit ledger entries")
		return nil, err
	}

	attrs := []any{
		slog.Int("entry_count", len(saved)),
		slog.String("created_by", creatorUserID),
	}
	if groupToken != nil {
		attrs = append(attrs, slog.String("allocation_group_id", *groupToken))
	}
	s.LogInfo(ctx, "Ledger entries created", attrs...)
	return saved, nil
}

// allocateGroupToken draws tokens until one is not used by any stored entry.
func (s *ledgerService) allocateGroupToken(ctx context.Context, tx pgx.Tx) (string, error) {
	for attempt := 1; attempt <= maxGroupTokenAttempts; attempt++ {
		token, err := s.newToken()
		if err != nil {
			s.LogError(ctx, err, "Failed to generate allocation group token")
			return "", apperrors.NewAppError(http.StatusInternalServerError, "failed to generate allocation group token", err)
		}
		inUse, err := s.ledgerRepo.ReserveGroupTokenTx(ctx, tx, token)
		if err != nil {
			s.LogError(ctx, err, "Failed to check allocation group token", slog.String("allocation_group_id", token))
			return "", err
		}
		if !inUse {
			return token, nil
		}
		s.LogWarn(ctx, "Allocation group token already in use, drawing another",
			slog.String("allocation_group_id", token),
			slog.Int("attempt", attempt))
	}
	return "", apperrors.NewConflictError(fmt.Sprintf("no unused allocation group token after %d attempts", maxGroupTokenAttempts))
}

func (s *ledgerService) GetEntry(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		s.LogDebug(ctx, "Ledger entry lookup failed", slog.Int64("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}
	return entry, nil
}

// ListCollapsed folds allocation groups into one representative each. The
// status filter applies to representatives so a group is never split.
func (s *ledgerService) ListCollapsed(ctx context.Context, params dto.ListEntriesParams) ([]domain.CollapsedEntry, error) {
	if err := dto.Validate(params); err != nil {
		return nil, err
	}
	filter, err := params.ToFilter()
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.ListEntries(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries")
		return nil, err
	}

	rows := allocation.Collapse(entries, s.strategies, filter.Order)
	if filter.Status == nil {
		return rows, nil
	}
	filtered := make([]domain.CollapsedEntry, 0, len(rows))
	for _, row := range rows {
		if row.Status == *filter.Status {
			filtered = append(filtered, row)
		}
	}
	return filtered, nil
}

func (s *ledgerService) SearchPayees(ctx context.Context, query string) ([]domain.PayeeSuggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.PayeeSuggestion{}, nil
	}
	found, err := s.ledgerRepo.SearchPayees(ctx, query, payeeSuggestionLimit)
	if err != nil {
		s.LogError(ctx, err, "Failed to search payees", slog.String("query", query))
		return nil, err
	}
	return found, nil
}

func (s *ledgerService) ListPayees(ctx context.Context) ([]domain.PayeeSuggestion, error) {
	found, err := s.ledgerRepo.ListPayees(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payees")
		return nil, err
	}
	return found, nil
}

// UpdateEntry applies a partial update. Status is not part of the patch.
func (s *ledgerService) UpdateEntry(ctx context.Context, entryID int64, req dto.UpdateEntryRequest, requestingUserID string) (*domain.LedgerEntry, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	patch, err := req.ToPatch()
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperrors.NewValidationFailedError("", "no updatable fields provided")
	}

	updated, err := s.ledgerRepo.UpdateEntry(ctx, entryID, patch, requestingUserID, s.now().UTC())
	if err != nil {
		s.LogError(ctx, err, "Failed to update ledger entry", slog.Int64("entry_id", entryID))
		return nil, err
	}
	s.LogInfo(ctx, "Ledger entry updated", slog.Int64("entry_id", entryID), slog.String("updated_by", requestingUserID))
	return updated, nil
}

// DeleteEntry removes one entry. Other members of its group keep their token.
func (s *ledgerService) DeleteEntry(ctx context.Context, entryID int64, requestingUserID string) error {
	if err := s.ledgerRepo.DeleteEntry(ctx, entryID); err != nil {
		s.LogError(ctx, err, "Failed to delete ledger entry", slog.Int64("entry_id", entryID))
		return err
	}
	s.LogInfo(ctx, "Ledger entry deleted", slog.Int64("entry_id", entryID), slog.String("deleted_by", requestingUserID))
	return nil
}

func (s *ledgerService) AttachFiles(ctx context.Context, entryID int64, files []domain.UploadFile, requestingUserID string) (*domain.LedgerEntry, error) {
	if len(files) == 0 {
		return nil, apperrors.NewValidationFailedError("files", "at least one file is required")
	}
	if s.storage == nil {
		return nil, fmt.Errorf("attachment storage: %w", apperrors.ErrUnavailable)
	}

	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	links, err := s.storage.UploadBatch(ctx, files, entry.ID, entry.CostCenterID)
	if err != nil {
		s.LogError(ctx, err, "Failed to upload attachments",
			slog.Int64("entry_id", entryID),
			slog.Int("file_count", len(files)))
		return nil, err
	}

	updated, err := s.ledgerRepo.AppendAttachments(ctx, entryID, links, requestingUserID, s.now().UTC())
	if err != nil {
		s.LogError(ctx, err, "Failed to record attachments", slog.Int64("entry_id", entryID))
		return nil, err
	}
	s.LogInfo(ctx, "Attachments recorded", slog.Int64("entry_id", entryID), slog.Int("file_count", len(links)))
	return updated, nil
}
