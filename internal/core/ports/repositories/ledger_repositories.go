package repositories

import (
	"context"
	"time"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerEntryReader defines read operations for ledger entries
type LedgerEntryReader interface {
	// FindEntryByID retrieves one entry; apperrors.ErrNotFound when missing.
	FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error)

	// FindEntriesByIDs retrieves the entries that exist among ids, ordered by id.
	FindEntriesByIDs(ctx context.Context, ids []int64) ([]domain.LedgerEntry, error)

	// ListEntries retrieves every entry ordered by id ascending.
	ListEntries(ctx context.Context) ([]domain.LedgerEntry, error)

	// SearchPayees returns distinct payees whose name starts with prefix.
	SearchPayees(ctx context.Context, prefix string, limit int) ([]domain.PayeeSuggestion, error)

	// ListPayees returns every distinct payee.
	ListPayees(ctx context.Context) ([]domain.PayeeSuggestion, error)
}

// LedgerEntryWriter defines write operations for ledger entries
type LedgerEntryWriter interface {
	// ReserveGroupTokenTx serializes concurrent writers of token for the rest of
	// the transaction and reports whether stored entries already carry it.
	ReserveGroupTokenTx(ctx context.Context, tx pgx.Tx, token string) (bool, error)

	// SaveEntriesTx inserts entries and returns them with their assigned ids.
	SaveEntriesTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error)

	// UpdateEntry applies a partial update; apperrors.ErrNotFound when missing.
	UpdateEntry(ctx context.Context, entryID int64, patch domain.EntryPatch, updatedBy string, updatedAt time.Time) (*domain.LedgerEntry, error)

	// AppendAttachments adds references to the entry's attachment list.
	AppendAttachments(ctx context.Context, entryID int64, links []domain.Attachment, updatedBy string, updatedAt time.Time) (*domain.LedgerEntry, error)

	// DeleteEntry removes one entry; apperrors.ErrNotFound when missing.
	DeleteEntry(ctx context.Context, entryID int64) error
}

// LedgerStatusWriter defines the locked read and status writes used by status transitions
type LedgerStatusWriter interface {
	// FindEntriesForUpdateTx locks the rows of ids in ascending id order and returns the ones found.
	FindEntriesForUpdateTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]domain.LedgerEntry, error)

	// FindEntriesByIDsTx re-reads rows inside the transaction.
	FindEntriesByIDsTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]domain.LedgerEntry, error)

	// UpdateStatusTx sets status on ids and returns the number of rows affected.
	UpdateStatusTx(ctx context.Context, tx pgx.Tx, ids []int64, status domain.EntryStatus, updatedBy string, updatedAt time.Time) (int64, error)
}

// LedgerEntryRepositoryFacade combines all ledger entry repository interfaces
type LedgerEntryRepositoryFacade interface {
	LedgerEntryReader
	LedgerEntryWriter
	LedgerStatusWriter
	TransactionManager

	// Capabilities reports the optional columns detected at startup.
	Capabilities() domain.SchemaCapabilities
}
