package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

// Store is an in-memory ledger backend. It serves the same ports as the
// PostgreSQL repositories and is safe for concurrent use.
//
// Transactions are serialized: Begin holds the single txSlot until Commit or
// Rollback, and writes outside a transaction wait for it as well. Waiting
// ends early when the caller's context is done. Rollback restores the
// snapshot taken at Begin.
type Store struct {
	txSlot chan struct{}
	dataMu sync.RWMutex

	caps        domain.SchemaCapabilities
	entries     map[int64]domain.LedgerEntry
	nextEntryID int64
	batches     map[int64]domain.ExportBatch
	nextBatchID int64
	costCenters map[int64]domain.CostCenter
	categories  map[int64]string
	clock       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithCapabilities simulates a legacy schema.
func WithCapabilities(caps domain.SchemaCapabilities) Option {
	return func(s *Store) { s.caps = caps }
}

// WithCostCenters seeds the cost-center catalog.
func WithCostCenters(centers ...domain.CostCenter) Option {
	return func(s *Store) {
		for _, cc := range centers {
			s.costCenters[cc.ID] = cc
		}
	}
}

// WithCategories seeds the category catalog.
func WithCategories(categories map[int64]string) Option {
	return func(s *Store) {
		for id, name := range categories {
			s.categories[id] = name
		}
	}
}

// NewStore creates an empty store with the full schema.
func NewStore(opts ...Option) *Store {
	s := &Store{
		txSlot:      make(chan struct{}, 1),
		caps:        domain.FullSchema,
		entries:     make(map[int64]domain.LedgerEntry),
		batches:     make(map[int64]domain.ExportBatch),
		costCenters: make(map[int64]domain.CostCenter),
		categories:  make(map[int64]string),
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Provider exposes the store through every repository port.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:      s,
		ExportBatchRepo: s,
		CatalogRepo:     s,
	}
}

var (
	_ portsrepo.LedgerEntryRepositoryFacade = (*Store)(nil)
	_ portsrepo.ExportBatchRepositoryFacade = (*Store)(nil)
	_ portsrepo.CatalogRepositoryFacade     = (*Store)(nil)
)

type snapshot struct {
	entries     map[int64]domain.LedgerEntry
	nextEntryID int64
	batches     map[int64]domain.ExportBatch
	nextBatchID int64
}

// memTx satisfies pgx.Tx for the ports. Only the store itself interprets it;
// calling pgx methods on it panics.
type memTx struct {
	pgx.Tx
	snap snapshot
	done bool
}

var errForeignTx = errors.New("transaction does not belong to the memory store")

func (s *Store) Capabilities() domain.SchemaCapabilities {
	return s.caps
}

func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, apperrors.NewStorageError("failed to begin transaction", err)
	}
	s.dataMu.RLock()
	snap := snapshot{
		entries:     make(map[int64]domain.LedgerEntry, len(s.entries)),
		nextEntryID: s.nextEntryID,
		batches:     make(map[int64]domain.ExportBatch, len(s.batches)),
		nextBatchID: s.nextBatchID,
	}
	for id, e := range s.entries {
		snap.entries[id] = cloneEntry(e)
	}
	for id, b := range s.batches {
		snap.batches[id] = cloneBatch(b)
	}
	s.dataMu.RUnlock()
	return &memTx{snap: snap}, nil
}

func (s *Store) Commit(_ context.Context, tx pgx.Tx) error {
	mt, err := s.open(tx)
	if err != nil {
		return apperrors.NewStorageError("failed to commit transaction", err)
	}
	mt.done = true
	s.release()
	return nil
}

func (s *Store) Rollback(_ context.Context, tx pgx.Tx) error {
	mt, ok := tx.(*memTx)
	if !ok || mt == nil || mt.done {
		return nil
	}
	s.dataMu.Lock()
	s.entries = mt.snap.entries
	s.nextEntryID = mt.snap.nextEntryID
	s.batches = mt.snap.batches
	s.nextBatchID = mt.snap.nextBatchID
	s.dataMu.Unlock()
	mt.done = true
	s.release()
	return nil
}

// acquire takes the transaction slot or gives up when ctx is done.
func (s *Store) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case s.txSlot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.txSlot
}

func (s *Store) open(tx pgx.Tx) (*memTx, error) {
	mt, ok := tx.(*memTx)
	if !ok || mt == nil {
		return nil, errForeignTx
	}
	if mt.done {
		return nil, pgx.ErrTxClosed
	}
	return mt, nil
}

// ---- ledger entries ----

// ReserveGroupTokenTx reports whether any entry carries token. Transactions
// are already serialized, so no extra lock is taken.
func (s *Store) ReserveGroupTokenTx(_ context.Context, tx pgx.Tx, token string) (bool, error) {
	if _, err := s.open(tx); err != nil {
		return false, apperrors.NewStorageError("failed to check allocation group token", err)
	}
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	for _, e := range s.entries {
		if e.AllocationGroupID != nil && *e.AllocationGroupID == token {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SaveEntriesTx(_ context.Context, tx pgx.Tx, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	if _, err := s.open(tx); err != nil {
		return nil, apperrors.NewStorageError("failed to insert ledger entries", err)
	}
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	saved := make([]domain.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		s.nextEntryID++
		e.ID = s.nextEntryID
		if !s.caps.GroupToken {
			e.AllocationGroupID = nil
		}
		if !s.caps.MultiAllocationFlag {
			e.IsMultiAllocation = false
		}
		s.entries[e.ID] = cloneEntry(e)
		saved = append(saved, cloneEntry(e))
	}
	return saved, nil
}

func (s *Store) FindEntryByID(_ context.Context, entryID int64) (*domain.LedgerEntry, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	e, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %d", entryID))
	}
	out := cloneEntry(e)
	return &out, nil
}

func (s *Store) FindEntriesByIDs(_ context.Context, ids []int64) ([]domain.LedgerEntry, error) {
	return s.findByIDs(ids), nil
}

func (s *Store) FindEntriesByIDsTx(_ context.Context, tx pgx.Tx, ids []int64) ([]domain.LedgerEntry, error) {
	if _, err := s.open(tx); err != nil {
		return nil, apperrors.NewStorageError("failed to query ledger entries", err)
	}
	return s.findByIDs(ids), nil
}

// FindEntriesForUpdateTx needs no row locks: the transaction already owns the store.
func (s *Store) FindEntriesForUpdateTx(_ context.Context, tx pgx.Tx, ids []int64) ([]domain.LedgerEntry, error) {
	if _, err := s.open(tx); err != nil {
		return nil, apperrors.NewStorageError("failed to lock ledger entries", err)
	}
	return s.findByIDs(ids), nil
}

func (s *Store) findByIDs(ids []int64) []domain.LedgerEntry {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	seen := make(map[int64]bool, len(ids))
	out := make([]domain.LedgerEntry, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if e, ok := s.entries[id]; ok {
			out = append(out, cloneEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ListEntries(_ context.Context) ([]domain.LedgerEntry, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	out := make([]domain.LedgerEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, cloneEntry(e))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateStatusTx(_ context.Context, tx pgx.Tx, ids []int64, status domain.EntryStatus, updatedBy string, updatedAt time.Time) (int64, error) {
	if _, err := s.open(tx); err != nil {
		return 0, apperrors.NewStorageError("failed to update ledger entry status", err)
	}
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	var affected int64
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		e, ok := s.entries[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		e.Status = status
		e.LastUpdatedAt = updatedAt
		e.LastUpdatedBy = updatedBy
		s.entries[id] = e
		affected++
	}
	return affected, nil
}

func (s *Store) UpdateEntry(ctx context.Context, entryID int64, patch domain.EntryPatch, updatedBy string, updatedAt time.Time) (*domain.LedgerEntry, error) {
	return s.mutate(ctx, entryID, func(e domain.LedgerEntry) domain.LedgerEntry {
		e = patch.Apply(e)
		e.LastUpdatedAt = updatedAt
		e.LastUpdatedBy = updatedBy
		return e
	})
}

func (s *Store) AppendAttachments(ctx context.Context, entryID int64, links []domain.Attachment, updatedBy string, updatedAt time.Time) (*domain.LedgerEntry, error) {
	return s.mutate(ctx, entryID, func(e domain.LedgerEntry) domain.LedgerEntry {
		e.AttachmentLinks = append(e.AttachmentLinks, links...)
		e.LastUpdatedAt = updatedAt
		e.LastUpdatedBy = updatedBy
		return e
	})
}

func (s *Store) mutate(ctx context.Context, entryID int64, fn func(domain.LedgerEntry) domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, apperrors.NewStorageError("failed to update ledger entry", err)
	}
	defer s.release()
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	e, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %d", entryID))
	}
	e = fn(cloneEntry(e))
	s.entries[entryID] = e
	out := cloneEntry(e)
	return &out, nil
}

func (s *Store) DeleteEntry(ctx context.Context, entryID int64) error {
	if err := s.acquire(ctx); err != nil {
		return apperrors.NewStorageError("failed to delete ledger entry", err)
	}
	defer s.release()
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	if _, ok := s.entries[entryID]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %d", entryID))
	}
	delete(s.entries, entryID)
	return nil
}

func (s *Store) SearchPayees(ctx context.Context, prefix string, limit int) ([]domain.PayeeSuggestion, error) {
	all, _ := s.ListPayees(ctx)
	lowered := strings.ToLower(prefix)
	out := make([]domain.PayeeSuggestion, 0)
	for _, p := range all {
		if !strings.HasPrefix(strings.ToLower(p.Payee), lowered) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ListPayees(_ context.Context) ([]domain.PayeeSuggestion, error) {
	s.dataMu.RLock()
	seen := make(map[domain.PayeeSuggestion]bool)
	out := make([]domain.PayeeSuggestion, 0)
	for _, e := range s.entries {
		p := domain.PayeeSuggestion{Payee: e.Payee, PayeeTaxID: e.PayeeTaxID}
		if p.Payee == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	s.dataMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Payee != out[j].Payee {
			return out[i].Payee < out[j].Payee
		}
		return out[i].PayeeTaxID < out[j].PayeeTaxID
	})
	return out, nil
}

// ---- export batches ----

func (s *Store) SaveBatchTx(_ context.Context, tx pgx.Tx, batch domain.ExportBatch) (int64, error) {
	if _, err := s.open(tx); err != nil {
		return 0, apperrors.NewStorageError("failed to insert export batch", err)
	}
	s.dataMu.Lock()
	defer s.dataMu.Unlock()

	s.nextBatchID++
	batch.ID = s.nextBatchID
	batch.Count = len(batch.Items)
	if batch.GeneratedAt.IsZero() {
		batch.GeneratedAt = s.clock()
	}
	s.batches[batch.ID] = cloneBatch(batch)
	return batch.ID, nil
}

func (s *Store) ListBatches(_ context.Context) ([]domain.ExportBatch, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	out := make([]domain.ExportBatch, 0, len(s.batches))
	for _, b := range s.batches {
		b.Items = nil
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GeneratedAt.Equal(out[j].GeneratedAt) {
			return out[i].GeneratedAt.After(out[j].GeneratedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) FindBatchItems(_ context.Context, batchID int64) ([]int64, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	b, ok := s.batches[batchID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("export batch %d", batchID))
	}
	items := append([]int64(nil), b.Items...)
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items, nil
}

// ---- catalog ----

func (s *Store) FindCostCenterByID(_ context.Context, costCenterID int64) (*domain.CostCenter, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	cc, ok := s.costCenters[costCenterID]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("cost center %d", costCenterID))
	}
	return &cc, nil
}

func (s *Store) FindCategoryNameByID(_ context.Context, categoryID int64) (string, error) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	name, ok := s.categories[categoryID]
	if !ok {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("category %d", categoryID))
	}
	return name, nil
}

func cloneEntry(e domain.LedgerEntry) domain.LedgerEntry {
	if e.AttachmentLinks != nil {
		e.AttachmentLinks = append([]domain.Attachment(nil), e.AttachmentLinks...)
	}
	if e.CategoryID != nil {
		id := *e.CategoryID
		e.CategoryID = &id
	}
	if e.AllocationGroupID != nil {
		token := *e.AllocationGroupID
		e.AllocationGroupID = &token
	}
	return e
}

func cloneBatch(b domain.ExportBatch) domain.ExportBatch {
	b.Items = append([]int64(nil), b.Items...)
	return b
}
