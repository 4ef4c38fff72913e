package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/Jonatasvm/backendGB/internal/dto"
	"github.com/Jonatasvm/backendGB/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Response headers describing an export artifact.
const (
	HeaderExportBatchID  = "X-Export-Batch-ID"
	HeaderExportRowCount = "X-Export-Row-Count"
)

// exportHandler handles HTTP requests related to exports and export batches.
type exportHandler struct {
	exportService  portssvc.ExportSvcFacade
	historyService portssvc.ExportHistorySvcFacade
}

// newExportHandler creates a new exportHandler.
func newExportHandler(es portssvc.ExportSvcFacade, hs portssvc.ExportHistorySvcFacade) *exportHandler {
	return &exportHandler{
		exportService:  es,
		historyService: hs,
	}
}

// registerExportRoutes registers routes related to exports and the export audit trail.
func registerExportRoutes(rg *gin.RouterGroup, exportService portssvc.ExportSvcFacade, historyService portssvc.ExportHistorySvcFacade) {
	h := newExportHandler(exportService, historyService)

	exports := rg.Group("/exports")
	{
		exports.POST("", h.exportAndPost)
		exports.POST("/preview", h.preview)
		exports.POST("/raw", h.exportRaw)
	}

	batches := rg.Group("/export-batches")
	{
		batches.GET("", h.listBatches)
		batches.POST("", h.registerBatch)
		batches.GET("/:batchID/items", h.batchItems)
	}
}

// writeArtifact sends an artifact as a file download.
func writeArtifact(c *gin.Context, artifact *domain.ExportArtifact) {
	c.Header("Content-Disposition", `attachment; filename="`+artifact.FileName+`"`)
	c.Header(HeaderExportRowCount, strconv.Itoa(artifact.RowCount))
	if artifact.BatchID != nil {
		c.Header(HeaderExportBatchID, strconv.FormatInt(*artifact.BatchID, 10))
	}
	c.Data(http.StatusOK, artifact.ContentType, artifact.Content)
}

// exportAndPost godoc
// @Summary Export and post ledger entries
// @Description Marks the entries POSTED, records an export batch and returns the report in one transaction
// @Tags exports
// @Accept  json
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   export body dto.ExportRequest true "Entry ids and format"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid ids or format"
// @Failure 404 {object} map[string]string "Unknown entries"
// @Failure 409 {object} map[string]string "Entries already posted"
// @Security BearerAuth
// @Router /exports [post]
func (h *exportHandler) exportAndPost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExportAndPost", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	logger.Info("Received request to export entries", slog.Int("entry_count", len(req.IDs)))
	artifact, err := h.exportService.ExportAndPost(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to export entries")
		return
	}
	writeArtifact(c, artifact)

	props := map[string]any{
		"row_count": artifact.RowCount,
		"format":    strings.TrimPrefix(filepath.Ext(artifact.FileName), "."),
	}
	if artifact.BatchID != nil {
		props["batch_id"] = *artifact.BatchID
	}
	middleware.PosthogEvent(c, middleware.EventEntriesExported, props)
}

// preview godoc
// @Summary Preview an export
// @Description Renders the report for the given entries without posting them or recording a batch
// @Tags exports
// @Accept  json
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   export body dto.ExportRequest true "Entry ids and format"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string "No entries found"
// @Security BearerAuth
// @Router /exports/preview [post]
func (h *exportHandler) preview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Preview", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	artifact, err := h.exportService.Preview(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to preview export")
		return
	}
	writeArtifact(c, artifact)
}

// exportRaw godoc
// @Summary Export client-supplied rows
// @Description Renders loosely typed rows. Unparseable values are coerced and logged.
// @Tags exports
// @Accept  json
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   export body dto.RawExportRequest true "Rows and format"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "No rows"
// @Security BearerAuth
// @Router /exports/raw [post]
func (h *exportHandler) exportRaw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RawExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExportRaw", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	artifact, err := h.exportService.ExportRaw(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Failed to export rows")
		return
	}
	writeArtifact(c, artifact)
}

// listBatches godoc
// @Summary List export batches
// @Tags export-batches
// @Produce  json
// @Success 200 {array} dto.ExportBatchResponse
// @Security BearerAuth
// @Router /export-batches [get]
func (h *exportHandler) listBatches(c *gin.Context) {
	batches, err := h.historyService.ListBatches(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list export batches")
		return
	}
	c.JSON(http.StatusOK, dto.ToExportBatchResponses(batches))
}

// registerBatch godoc
// @Summary Record an export batch
// @Description Records a batch for an export performed elsewhere. Entry statuses are not changed.
// @Tags export-batches
// @Accept  json
// @Produce  json
// @Param   batch body dto.RegisterBatchRequest true "Exported entry ids"
// @Success 201 {object} dto.RegisterBatchResponse
// @Failure 400 {object} map[string]string "Invalid ids"
// @Security BearerAuth
// @Router /export-batches [post]
func (h *exportHandler) registerBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	batchID, err := h.historyService.RegisterBatch(c.Request.Context(), userID, req.EntryIDs)
	if err != nil {
		respondError(c, err, "Failed to record export batch")
		return
	}
	c.JSON(http.StatusCreated, dto.RegisterBatchResponse{BatchID: batchID})
}

// batchItems godoc
// @Summary List the entries of an export batch
// @Tags export-batches
// @Produce  json
// @Param   batchID path int true "Batch ID"
// @Success 200 {object} dto.BatchItemsResponse
// @Failure 404 {object} map[string]string "Batch not found"
// @Security BearerAuth
// @Router /export-batches/{batchID}/items [get]
func (h *exportHandler) batchItems(c *gin.Context) {
	batchID, ok := int64Param(c, "batchID")
	if !ok {
		return
	}

	items, err := h.historyService.ItemsOf(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, err, "Failed to list export batch items")
		return
	}
	c.JSON(http.StatusOK, dto.BatchItemsResponse{BatchID: batchID, EntryIDs: items})
}
