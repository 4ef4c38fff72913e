package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/Jonatasvm/backendGB/internal/dto"
	"github.com/google/uuid"
)

// EntriesPostedTopic is the topic posting events are published to.
const EntriesPostedTopic = "ledger.entries_posted"

const publishTimeout = 5 * time.Second

// exportService posts, renders and audits exports.
type exportService struct {
	BaseService
	ledgerRepo    portsrepo.LedgerEntryRepositoryFacade
	history       portssvc.ExportHistorySvcFacade
	reconciler    portssvc.ExportReconciler
	publisher     portssvc.EventPublisher
	topic         string
	defaultFormat domain.ExportFormat
	now           func() time.Time
}

// ExportServiceOption is a functional option for configuring the export service
type ExportServiceOption func(*exportService)

// WithEventPublisher adds the publisher notified after each committed export
func WithEventPublisher(publisher portssvc.EventPublisher, topic string) ExportServiceOption {
	return func(s *exportService) {
		s.publisher = publisher
		if topic != "" {
			s.topic = topic
		}
	}
}

// WithDefaultExportFormat sets the format used when a request names none
func WithDefaultExportFormat(format domain.ExportFormat) ExportServiceOption {
	return func(s *exportService) {
		s.defaultFormat = format
	}
}

// WithExportClock overrides the time source for posting and file names
func WithExportClock(now func() time.Time) ExportServiceOption {
	return func(s *exportService) {
		s.now = now
	}
}

// NewExportService creates a new export service.
func NewExportService(
	ledgerRepo portsrepo.LedgerEntryRepositoryFacade,
	history portssvc.ExportHistorySvcFacade,
	reconciler portssvc.ExportReconciler,
	options ...ExportServiceOption,
) portssvc.ExportSvcFacade {
	svc := &exportService{
		ledgerRepo:    ledgerRepo,
		history:       history,
		reconciler:    reconciler,
		topic:         EntriesPostedTopic,
		defaultFormat: domain.ExportXLSX,
		now:           time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExportSvcFacade = (*exportService)(nil)

// ExportAndPost marks the entries Posted, renders them and records the batch
// in one transaction. Rows are locked in id order, so an overlapping call
// waits and then fails with a conflict instead of posting twice.
func (s *exportService) ExportAndPost(ctx context.Context, req dto.ExportRequest, requestingUserID string) (*domain.ExportArtifact, error) {
	ids, err := normalizeEntryIDs(req.IDs)
	if err != nil {
		return nil, err
	}
	format, err := s.resolveFormat(req.Format)
	if err != nil {
		return nil, err
	}

	tx, err := s.ledgerRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin transaction for export")
		return nil, err
	}
	defer func() { _ = s.ledgerRepo.Rollback(ctx, tx) }()

	locked, err := s.ledgerRepo.FindEntriesForUpdateTx(ctx, tx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to lock entries for export", slog.Int("entry_count", len(ids)))
		return nil, err
	}
	if missing := missingIDs(ids, locked); len(missing) > 0 {
		return nil, apperrors.NewNotFoundError("ledger entries " + joinIDs(missing))
	}

	var alreadyPosted []int64
	for _, e := range locked {
		if e.Status == domain.EntryPosted {
			alreadyPosted = append(alreadyPosted, e.ID)
		}
	}
	if len(alreadyPosted) > 0 {
		return nil, apperrors.NewConflictError("ledger entries already posted: " + joinIDs(alreadyPosted))
	}

	now := s.now()
	affected, err := s.ledgerRepo.UpdateStatusTx(ctx, tx, ids, domain.EntryPosted, requestingUserID, now.UTC())
	if err != nil {
		s.LogError(ctx, err, "Failed to post entries", slog.Int("entry_count", len(ids)))
		return nil, err
	}
	if affected != int64(len(ids)) {
		return nil, apperrors.NewConflictError(fmt.Sprintf("expected to post %d entries, posted %d", len(ids), affected))
	}

	posted, err := s.ledgerRepo.FindEntriesByIDsTx(ctx, tx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to re-read posted entries")
		return nil, err
	}

	rows := s.reconciler.Normalize(ctx, posted)
	artifact, err := s.reconciler.Render(ctx, rows, format, now)
	if err != nil {
		return nil, err
	}

	batchID, err := s.history.RegisterBatchTx(ctx, tx, requestingUserID, ids)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit export", slog.Int64("batch_id", batchID))
		return nil, err
	}
	artifact.BatchID = &batchID

	s.LogInfo(ctx, "Entries exported and posted",
		slog.Int64("batch_id", batchID),
		slog.Int("entry_count", len(ids)),
		slog.String("format", string(format)),
		slog.String("requested_by", requestingUserID))

	s.publishPosted(ctx, batchID, posted, requestingUserID, now)
	return artifact, nil
}

// publishPosted is best effort: the export is already committed.
func (s *exportService) publishPosted(ctx context.Context, batchID int64, posted []domain.LedgerEntry, requestedBy string, at time.Time) {
	if s.publisher == nil {
		return
	}
	ids := make([]int64, len(posted))
	amounts := make([]domain.Money, len(posted))
	for i, e := range posted {
		ids[i] = e.ID
		amounts[i] = e.Amount
	}
	event := domain.EntriesPostedEvent{
		EventID:     uuid.NewString(),
		BatchID:     batchID,
		EntryIDs:    ids,
		TotalAmount: domain.SumMoney(amounts...),
		RequestedBy: requestedBy,
		OccurredAt:  at.UTC(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, s.topic, strconv.FormatInt(batchID, 10), event); err != nil {
		s.LogWarn(ctx, "Failed to publish entries posted event",
			slog.Int64("batch_id", batchID),
			slog.String("topic", s.topic),
			slog.String("error", err.Error()))
	}
}

// Preview renders entries without posting or auditing them.
func (s *exportService) Preview(ctx context.Context, req dto.ExportRequest) (*domain.ExportArtifact, error) {
	ids, err := normalizeEntryIDs(req.IDs)
	if err != nil {
		return nil, err
	}
	format, err := s.resolveFormat(req.Format)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.FindEntriesByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entries for preview")
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperrors.NewNotFoundError("ledger entries " + joinIDs(ids))
	}
	if missing := missingIDs(ids, entries); len(missing) > 0 {
		s.LogWarn(ctx, "Preview skipped unknown entries", slog.String("entry_ids", joinIDs(missing)))
	}

	rows := s.reconciler.Normalize(ctx, entries)
	return s.reconciler.Render(ctx, rows, format, s.now())
}

// ExportRaw renders client-supplied rows through the lenient normalizer.
func (s *exportService) ExportRaw(ctx context.Context, req dto.RawExportRequest) (*domain.ExportArtifact, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	format, err := s.resolveFormat(req.Format)
	if err != nil {
		return nil, err
	}
	rows := s.reconciler.NormalizeRaw(ctx, req.ToRecords())
	return s.reconciler.Render(ctx, rows, format, s.now())
}

func (s *exportService) resolveFormat(raw string) (domain.ExportFormat, error) {
	if raw == "" {
		return s.defaultFormat, nil
	}
	format, ok := domain.ParseExportFormat(raw)
	if !ok {
		return "", apperrors.NewValidationFailedError("format", fmt.Sprintf("unsupported export format %q", raw))
	}
	return format, nil
}

// normalizeEntryIDs rejects empty or non-positive id lists and returns the
// distinct ids in ascending order.
func normalizeEntryIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, apperrors.NewValidationFailedError("ids", "must not be empty")
	}
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, apperrors.NewValidationFailedError("ids", fmt.Sprintf("invalid entry id %d", id))
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func missingIDs(want []int64, found []domain.LedgerEntry) []int64 {
	present := make(map[int64]bool, len(found))
	for _, e := range found {
		present[e.ID] = true
	}
	var missing []int64
	for _, id := range want {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
