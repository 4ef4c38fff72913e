package services_test

import (
	"context"
	"time"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// fakeTx stands in for a database transaction; mocks only compare it by identity.
type fakeTx struct {
	pgx.Tx
	name string
}

// --- Mock LedgerEntryRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerEntryRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockLedgerRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) Capabilities() domain.SchemaCapabilities {
	args := m.Called()
	return args.Get(0).(domain.SchemaCapabilities)
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByIDs(ctx context.Context, ids []int64) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SearchPayees(ctx context.Context, prefix string, limit int) ([]domain.PayeeSuggestion, error) {
	args := m.Called(ctx, prefix, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayeeSuggestion), args.Error(1)
}

func (m *MockLedgerRepository) ListPayees(ctx context.Context) ([]domain.PayeeSuggestion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PayeeSuggestion), args.Error(1)
}

func (m *MockLedgerRepository) ReserveGroupTokenTx(ctx context.Context, tx pgx.Tx, token string) (bool, error) {
	args := m.Called(ctx, tx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) SaveEntriesTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, entries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) UpdateEntry(ctx context.Context, entryID int64, patch domain.EntryPatch, updatedBy string, updatedAt time.Time) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID, patch, updatedBy, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) AppendAttachments(ctx context.Context, entryID int64, links []domain.Attachment, updatedBy string, updatedAt time.Time) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID, links, updatedBy, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) DeleteEntry(ctx context.Context, entryID int64) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindEntriesForUpdateTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByIDsTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, tx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, ids []int64, status domain.EntryStatus, updatedBy string, updatedAt time.Time) (int64, error) {
	args := m.Called(ctx, tx, ids, status, updatedBy, updatedAt)
	return args.Get(0).(int64), args.Error(1)
}

// --- Mock FileStorage ---
type MockFileStorage struct {
	mock.Mock
}

var _ portssvc.FileStorage = (*MockFileStorage)(nil)

func (m *MockFileStorage) UploadBatch(ctx context.Context, files []domain.UploadFile, entryID int64, costCenterID int64) ([]domain.Attachment, error) {
	args := m.Called(ctx, files, entryID, costCenterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attachment), args.Error(1)
}

// --- Mock EventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

var _ portssvc.EventPublisher = (*MockEventPublisher)(nil)

func (m *MockEventPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	args := m.Called(ctx, topic, key, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Mock catalogs ---
type MockCostCenterCatalog struct {
	mock.Mock
}

var _ portssvc.CostCenterCatalog = (*MockCostCenterCatalog)(nil)

func (m *MockCostCenterCatalog) Resolve(ctx context.Context, costCenterID int64) (domain.CostCenter, error) {
	args := m.Called(ctx, costCenterID)
	return args.Get(0).(domain.CostCenter), args.Error(1)
}

type MockCategoryCatalog struct {
	mock.Mock
}

var _ portssvc.CategoryCatalog = (*MockCategoryCatalog)(nil)

func (m *MockCategoryCatalog) Resolve(ctx context.Context, categoryID int64) (string, error) {
	args := m.Called(ctx, categoryID)
	return args.String(0), args.Error(1)
}

// recordingWriter captures the rows handed to it and encodes only their ids.
type recordingWriter struct {
	format domain.ExportFormat
	rows   []domain.ExportRow
	err    error
}

var _ portssvc.ArtifactWriter = (*recordingWriter)(nil)

func (w *recordingWriter) Format() domain.ExportFormat { return w.format }

func (w *recordingWriter) ContentType() string { return "test/" + string(w.format) }

func (w *recordingWriter) Write(rows []domain.ExportRow) ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.rows = rows
	return []byte("rows"), nil
}
