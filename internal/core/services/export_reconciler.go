package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Jonatasvm/backendGB/internal/apperrors"
	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/Jonatasvm/backendGB/internal/utils"
	"github.com/shopspring/decimal"
)

// DefaultDateShiftDays is the offset between the stored payment date and the
// date written to exports.
const DefaultDateShiftDays = 1

const exportFilePrefix = "pagamentos_"

// exportReconciler turns ledger entries into export rows and renders them.
type exportReconciler struct {
	BaseService
	costCenters   portssvc.CostCenterCatalog
	categories    portssvc.CategoryCatalog
	writers       map[domain.ExportFormat]portssvc.ArtifactWriter
	dateShiftDays int
}

// ReconcilerOption is a functional option for configuring the export reconciler
type ReconcilerOption func(*exportReconciler)

// WithDateShiftDays overrides the payment date offset applied to exports
func WithDateShiftDays(days int) ReconcilerOption {
	return func(r *exportReconciler) {
		r.dateShiftDays = days
	}
}

// NewExportReconciler creates a reconciler rendering through the given writers.
func NewExportReconciler(
	costCenters portssvc.CostCenterCatalog,
	categories portssvc.CategoryCatalog,
	writers []portssvc.ArtifactWriter,
	options ...ReconcilerOption,
) portssvc.ExportReconciler {
	r := &exportReconciler{
		costCenters:   costCenters,
		categories:    categories,
		writers:       make(map[domain.ExportFormat]portssvc.ArtifactWriter, len(writers)),
		dateShiftDays: DefaultDateShiftDays,
	}
	for _, w := range writers {
		r.writers[w.Format()] = w
	}
	for _, option := range options {
		option(r)
	}
	return r
}

var _ portssvc.ExportReconciler = (*exportReconciler)(nil)

// Normalize resolves catalog labels and applies date and label rules. Catalog
// failures degrade the affected column and are logged.
func (r *exportReconciler) Normalize(ctx context.Context, entries []domain.LedgerEntry) []domain.ExportRow {
	costCenterCache := make(map[int64]*domain.CostCenter)
	categoryCache := make(map[int64]string)

	rows := make([]domain.ExportRow, 0, len(entries))
	for _, e := range entries {
		cc, ok := costCenterCache[e.CostCenterID]
		if !ok {
			cc = r.resolveCostCenter(ctx, e.CostCenterID)
			costCenterCache[e.CostCenterID] = cc
		}

		costCenterLabel := strconv.FormatInt(e.CostCenterID, 10)
		payer := e.PayerLabel
		if cc != nil {
			if cc.Label != "" {
				costCenterLabel = utils.TitleCase(cc.Label)
			}
			if payer == "" {
				payer = cc.PayerLabel
			}
		}

		var category string
		if e.CategoryID != nil {
			name, cached := categoryCache[*e.CategoryID]
			if !cached {
				name = r.resolveCategory(ctx, *e.CategoryID)
				categoryCache[*e.CategoryID] = name
			}
			category = name
		}

		rows = append(rows, domain.ExportRow{
			ID:            e.ID,
			PaymentDate:   e.PaymentDate.AddDays(r.dateShiftDays),
			Amount:        e.Amount,
			PaymentMethod: utils.CanonicalPaymentMethod(e.PaymentMethod),
			PayerLabel:    payer,
			CostCenter:    costCenterLabel,
			Payee:         e.Payee,
			PayeeTaxID:    e.PayeeTaxID,
			PixKey:        e.PixKey,
			CostCenterID:  strconv.FormatInt(e.CostCenterID, 10),
			Category:      category,
			Status:        e.Status.Label(),
			Notes:         e.Notes,
		})
	}
	return rows
}

func (r *exportReconciler) resolveCostCenter(ctx context.Context, id int64) *domain.CostCenter {
	if r.costCenters == nil {
		return nil
	}
	cc, err := r.costCenters.Resolve(ctx, id)
	if err != nil {
		r.LogWarn(ctx, "Cost center lookup failed, exporting raw id",
			slog.Int64("cost_center_id", id),
			slog.String("error", err.Error()))
		return nil
	}
	return &cc
}

func (r *exportReconciler) resolveCategory(ctx context.Context, id int64) string {
	if r.categories == nil {
		return ""
	}
	name, err := r.categories.Resolve(ctx, id)
	if err != nil {
		r.LogWarn(ctx, "Category lookup failed, exporting blank category",
			slog.Int64("category_id", id),
			slog.String("error", err.Error()))
		return ""
	}
	return name
}

// NormalizeRaw coerces client-supplied rows. Unparseable amounts become zero
// and unparseable dates become blank; every coercion is logged.
func (r *exportReconciler) NormalizeRaw(ctx context.Context, records []domain.RawExportRecord) []domain.ExportRow {
	rows := make([]domain.ExportRow, 0, len(records))
	for _, rec := range records {
		costCenter := rec.CostCenter
		if costCenter != "" {
			costCenter = utils.TitleCase(costCenter)
		} else {
			costCenter = rec.CostCenterID
		}

		rows = append(rows, domain.ExportRow{
			ID:            rec.ID,
			PaymentDate:   r.coerceDate(ctx, rec.ID, "paymentDate", rec.PaymentDate).AddDays(r.dateShiftDays),
			Amount:        r.coerceAmount(ctx, rec.ID, rec.Amount),
			PaymentMethod: utils.CanonicalPaymentMethod(rec.PaymentMethod),
			PayerLabel:    rec.PayerLabel,
			CostCenter:    costCenter,
			Payee:         rec.Payee,
			PayeeTaxID:    rec.PayeeTaxID,
			PixKey:        rec.PixKey,
			CostCenterID:  rec.CostCenterID,
			Category:      rec.Category,
			Status:        r.coerceStatus(ctx, rec.ID, rec.Status).Label(),
			Notes:         rec.Notes,
		})
	}
	return rows
}

// coerceAmount parses minor units. A decimal value is rounded to the nearest unit.
func (r *exportReconciler) coerceAmount(ctx context.Context, rowID int64, raw string) domain.Money {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		r.LogWarn(ctx, "Coerced unparseable amount to zero",
			slog.Int64("row_id", rowID),
			slog.String("field", "amount"),
			slog.String("raw_value", raw))
		return 0
	}
	return domain.Money(d.Round(0).IntPart())
}

func (r *exportReconciler) coerceDate(ctx context.Context, rowID int64, field, raw string) domain.Date {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.Date{}
	}
	d, err := domain.ParseDate(trimmed)
	if err != nil {
		r.LogWarn(ctx, "Coerced unparseable date to blank",
			slog.Int64("row_id", rowID),
			slog.String("field", field),
			slog.String("raw_value", raw))
		return domain.Date{}
	}
	return d
}

// coerceStatus accepts the status vocabulary and boolean posted flags.
func (r *exportReconciler) coerceStatus(ctx context.Context, rowID int64, raw string) domain.EntryStatus {
	if status, err := domain.ParseEntryStatus(raw); err == nil {
		return status
	}
	if posted, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
		if posted {
			return domain.EntryPosted
		}
		return domain.EntryPending
	}
	if strings.TrimSpace(raw) != "" {
		r.LogWarn(ctx, "Coerced unknown status to pending",
			slog.Int64("row_id", rowID),
			slog.String("field", "status"),
			slog.String("raw_value", raw))
	}
	return domain.EntryPending
}

// Render encodes rows with the writer registered for format.
func (r *exportReconciler) Render(ctx context.Context, rows []domain.ExportRow, format domain.ExportFormat, generatedAt time.Time) (*domain.ExportArtifact, error) {
	writer, ok := r.writers[format]
	if !ok {
		return nil, apperrors.NewValidationFailedError("format", fmt.Sprintf("unsupported export format %q", format))
	}
	content, err := writer.Write(rows)
	if err != nil {
		r.LogError(ctx, err, "Failed to render export artifact", slog.String("format", string(format)))
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to render export artifact", err)
	}
	return &domain.ExportArtifact{
		FileName:    exportFilePrefix + generatedAt.Format("2006-01-02_15-04-05") + "." + string(format),
		ContentType: writer.ContentType(),
		Content:     content,
		RowCount:    len(rows),
	}, nil
}
