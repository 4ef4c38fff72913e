package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portsrepo "github.com/Jonatasvm/backendGB/internal/core/ports/repositories"
	"github.com/Jonatasvm/backendGB/internal/models"
	"github.com/Jonatasvm/backendGB/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerBaseColumns = `id, entry_date, payment_date, competency_date, requester, payee, payee_tax_id,
	reference, notes, pix_key, amount, cost_center_id, payment_method, status, account, payer_label,
	category_id, attachment_links, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
	caps          domain.SchemaCapabilities
	selectColumns string
}

// newPgxLedgerRepository creates a repository whose queries match the detected schema.
func newPgxLedgerRepository(pool *pgxpool.Pool, caps domain.SchemaCapabilities) *PgxLedgerRepository {
	cols := ledgerBaseColumns
	if caps.GroupToken {
		cols += ", allocation_group_id"
	} else {
		cols += ", NULL::text AS allocation_group_id"
	}
	if caps.MultiAllocationFlag {
		cols += ", is_multi_allocation"
	} else {
		cols += ", false AS is_multi_allocation"
	}
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		caps:           caps,
		selectColumns:  cols,
	}
}

var _ portsrepo.LedgerEntryRepositoryFacade = (*PgxLedgerRepository)(nil)

func (r *PgxLedgerRepository) Capabilities() domain.SchemaCapabilities {
	return r.caps
}

// SaveEntriesTx inserts all entries through one batch on tx, in order.
func (r *PgxLedgerRepository) SaveEntriesTx(ctx context.Context, tx pgx.Tx, entries []domain.LedgerEntry) ([]domain.LedgerEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	columns := []string{
		"entry_date", "payment_date", "competency_date", "requester", "payee", "payee_tax_id",
		"reference", "notes", "pix_key", "amount", "cost_center_id", "payment_method", "status",
		"account", "payer_label", "category_id", "attachment_links",
		"created_at", "created_by", "last_updated_at", "last_updated_by",
	}
	if r.caps.GroupToken {
		columns = append(columns, "allocation_group_id")
	}
	if r.caps.MultiAllocationFlag {
		columns = append(columns, "is_multi_allocation")
	}
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO ledger_entries (%s) VALUES (%s) RETURNING id;",
		strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	batch := &pgx.Batch{}
	for _, e := range entries {
		m := mapping.ToModelLedgerEntry(e)
		args := []any{
			m.EntryDate, m.PaymentDate, m.CompetencyDate, m.Requester, m.Payee, m.PayeeTaxID,
			m.Reference, m.Notes, m.PixKey, m.Amount, m.CostCenterID, m.PaymentMethod, m.Status,
			m.Account, m.PayerLabel, m.CategoryID, m.AttachmentLinks,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		}
		if r.caps.GroupToken {
			args = append(args, m.AllocationGroupID)
		}
		if r.caps.MultiAllocationFlag {
			args = append(args, m.IsMultiAllocation)
		}
		batch.Queue(query, args...)
	}

	br := tx.SendBatch(ctx, batch)
	saved := make([]domain.LedgerEntry, len(entries))
	for i, e := range entries {
		if err := br.QueryRow().Scan(&e.ID); err != nil {
			_ = br.Close()
			return nil, mapPgError(err, "failed to insert ledger entry")
		}
		if !r.caps.GroupToken {
			e.AllocationGroupID = nil
		}
		if !r.caps.MultiAllocationFlag {
			e.IsMultiAllocation = false
		}
		saved[i] = e
	}
	if err := br.Close(); err != nil {
		return nil, mapPgError(err, "failed to execute ledger entry batch")
	}
	return saved, nil
}

// FindEntryByID retrieves a ledger entry by its ID.
// ReserveGroupTokenTx takes a transaction-scoped advisory lock on token so two
// concurrent submissions cannot both claim it, then checks stored entries.
func (r *PgxLedgerRepository) ReserveGroupTokenTx(ctx context.Context, tx pgx.Tx, token string) (bool, error) {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1));`, token); err != nil {
		return false, mapPgError(err, "failed to lock allocation group token")
	}
	var inUse bool
	query := `SELECT EXISTS (SELECT 1 FROM ledger_entries WHERE allocation_group_id = $1);`
	if err := tx.QueryRow(ctx, query, token).Scan(&inUse); err != nil {
		return false, mapPgError(err, "failed to check allocation group token")
	}
	return inUse, nil
}

func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE id = $1;`, r.selectColumns)
	entries, err := r.queryEntries(ctx, r.Pool, query, entryID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %d", entryID))
	}
	return &entries[0], nil
}

func (r *PgxLedgerRepository) FindEntriesByIDs(ctx context.Context, ids []int64) ([]domain.LedgerEntry, error) {
	return r.findByIDs(ctx, r.Pool, ids, false)
}

func (r *PgxLedgerRepository) FindEntriesByIDsTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]domain.LedgerEntry, error) {
	return r.findByIDs(ctx, tx, ids, false)
}

// FindEntriesForUpdateTx locks the rows in id order so overlapping bulk
// transitions queue behind each other instead of interleaving.
func (r *PgxLedgerRepository) FindEntriesForUpdateTx(ctx context.Context, tx pgx.Tx, ids []int64) ([]domain.LedgerEntry, error) {
	return r.findByIDs(ctx, tx, ids, true)
}

func (r *PgxLedgerRepository) findByIDs(ctx context.Context, q querier, ids []int64, forUpdate bool) ([]domain.LedgerEntry, error) {
	if len(ids) == 0 {
		return []domain.LedgerEntry{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE id = ANY($1) ORDER BY id`, r.selectColumns)
	if forUpdate {
		query += " FOR UPDATE"
	}
	return r.queryEntries(ctx, q, query+";", ids)
}

// ListEntries retrieves every entry ordered by id.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries ORDER BY id;`, r.selectColumns)
	return r.queryEntries(ctx, r.Pool, query)
}

func (r *PgxLedgerRepository) queryEntries(ctx context.Context, q querier, query string, args ...any) ([]domain.LedgerEntry, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query ledger entries")
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		return nil, mapPgError(err, "failed to scan ledger entries")
	}
	return mapping.ToDomainLedgerEntries(found), nil
}

// UpdateStatusTx sets the status of ids and reports how many rows changed.
func (r *PgxLedgerRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, ids []int64, status domain.EntryStatus, updatedBy string, updatedAt time.Time) (int64, error) {
	query := `
		UPDATE ledger_entries
		SET status = $1, last_updated_at = $2, last_updated_by = $3
		WHERE id = ANY($4);
	`
	cmdTag, err := tx.Exec(ctx, query, string(status), updatedAt, updatedBy, ids)
	if err != nil {
		return 0, mapPgError(err, "failed to update ledger entry status")
	}
	return cmdTag.RowsAffected(), nil
}

// UpdateEntry applies the non-nil fields of patch.
func (r *PgxLedgerRepository) UpdateEntry(ctx context.Context, entryID int64, patch domain.EntryPatch, updatedBy string, updatedAt time.Time) (*domain.LedgerEntry, error) {
	var sets []string
	var args []any
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.EntryDate != nil {
		set("entry_date", mapping.ToPgDate(*patch.EntryDate))
	}
	if patch.PaymentDate != nil {
		set("payment_date", mapping.ToPgDate(*patch.PaymentDate))
	}
	if patch.CompetencyDate != nil {
		set("competency_date", mapping.ToPgDate(*patch.CompetencyDate))
	}
	if patch.Requester != nil {
		set("requester", *patch.Requester)
	}
	if patch.Payee != nil {
		set("payee", *patch.Payee)
	}
	if patch.PayeeTaxID != nil {
		set("payee_tax_id", *patch.PayeeTaxID)
	}
	if patch.Reference != nil {
		set("reference", *patch.Reference)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	if patch.PixKey != nil {
		set("pix_key", *patch.PixKey)
	}
	if patch.Amount != nil {
		set("amount", int64(*patch.Amount))
	}
	if patch.CostCenterID != nil {
		set("cost_center_id", *patch.CostCenterID)
	}
	if patch.PaymentMethod != nil {
		set("payment_method", *patch.PaymentMethod)
	}
	if patch.Account != nil {
		set("account", *patch.Account)
	}
	if patch.PayerLabel != nil {
		set("payer_label", *patch.PayerLabel)
	}
	if patch.CategoryID != nil {
		set("category_id", *patch.CategoryID)
	}
	if len(sets) == 0 {
		return nil, apperrors.NewValidationFailedError("", "no fields to update")
	}
	set("last_updated_at", updatedAt)
	set("last_updated_by", updatedBy)
	args = append(args, entryID)

	query := fmt.Sprintf(`UPDATE ledger_entries SET %s WHERE id = $%d RETURNING %s;`,
		strings.Join(sets, ", "), len(args), r.selectColumns)
	return r.updateReturning(ctx, entryID, query, args...)
}

// AppendAttachments concatenates links onto the stored attachment list.
func (r *PgxLedgerRepository) AppendAttachments(ctx context.Context, entryID int64, links []domain.Attachment, updatedBy string, updatedAt time.Time) (*domain.LedgerEntry, error) {
	modelLinks := make([]models.Attachment, len(links))
	for i, l := range links {
		modelLinks[i] = models.Attachment(l)
	}
	query := fmt.Sprintf(`
		UPDATE ledger_entries
		SET attachment_links = attachment_links || $1::jsonb, last_updated_at = $2, last_updated_by = $3
		WHERE id = $4
		RETURNING %s;`, r.selectColumns)
	return r.updateReturning(ctx, entryID, query, modelLinks, updatedAt, updatedBy, entryID)
}

func (r *PgxLedgerRepository) updateReturning(ctx context.Context, entryID int64, query string, args ...any) (*domain.LedgerEntry, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to update ledger entry")
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.LedgerEntry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %d", entryID))
		}
		return nil, mapPgError(err, "failed to update ledger entry")
	}
	e := mapping.ToDomainLedgerEntry(m)
	return &e, nil
}

// DeleteEntry removes one entry. Siblings in its allocation group are untouched.
func (r *PgxLedgerRepository) DeleteEntry(ctx context.Context, entryID int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1;`, entryID)
	if err != nil {
		return mapPgError(err, "failed to delete ledger entry")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("ledger entry %d", entryID))
	}
	return nil
}

// SearchPayees matches payee names by case-insensitive prefix.
func (r *PgxLedgerRepository) SearchPayees(ctx context.Context, prefix string, limit int) ([]domain.PayeeSuggestion, error) {
	query := `
		SELECT DISTINCT payee, payee_tax_id
		FROM ledger_entries
		WHERE payee ILIKE $1 || '%' ESCAPE '\'
		ORDER BY payee, payee_tax_id
		LIMIT $2;
	`
	return r.queryPayees(ctx, query, escapeLike(prefix), limit)
}

func (r *PgxLedgerRepository) ListPayees(ctx context.Context) ([]domain.PayeeSuggestion, error) {
	query := `
		SELECT DISTINCT payee, payee_tax_id
		FROM ledger_entries
		WHERE payee <> ''
		ORDER BY payee, payee_tax_id;
	`
	return r.queryPayees(ctx, query)
}

func (r *PgxLedgerRepository) queryPayees(ctx context.Context, query string, args ...any) ([]domain.PayeeSuggestion, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query payees")
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PayeeSuggestion])
	if err != nil {
		return nil, mapPgError(err, "failed to scan payees")
	}
	out := make([]domain.PayeeSuggestion, len(found))
	for i, p := range found {
		out[i] = domain.PayeeSuggestion{Payee: p.Payee, PayeeTaxID: p.PayeeTaxID}
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
