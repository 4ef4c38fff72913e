package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Jonatasvm/backendGB/internal/core/domain"
	portssvc "github.com/Jonatasvm/backendGB/internal/core/ports/services"
	"github.com/Jonatasvm/backendGB/internal/dto"
	"github.com/Jonatasvm/backendGB/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxAttachmentMemory bounds the in-memory part of a multipart upload.
const maxAttachmentMemory = 32 << 20

// entryHandler handles HTTP requests related to ledger entries.
type entryHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	statusService portssvc.StatusSvcFacade
}

// newEntryHandler creates a new entryHandler.
func newEntryHandler(ls portssvc.LedgerSvcFacade, ss portssvc.StatusSvcFacade) *entryHandler {
	return &entryHandler{
		ledgerService: ls,
		statusService: ss,
	}
}

// registerEntryRoutes registers routes related to ledger entries and payees.
func registerEntryRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, statusService portssvc.StatusSvcFacade) {
	h := newEntryHandler(ledgerService, statusService)

	entries := rg.Group("/entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/payees", h.searchPayees)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
		entries.PATCH("/:entryID/status", h.toggleStatus)
		entries.POST("/:entryID/attachments", h.uploadAttachments)
	}
	rg.GET("/payees", h.listPayees)
}

// createEntry godoc
// @Summary Create a ledger entry
// @Description Creates one entry per positive allocation. Split submissions share an allocation group token.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.CreateEntryResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create entry"
// @Security BearerAuth
// @Router /entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := callerID(c)
	if !ok {
		return
	}

	logger.Info("Received request to create entry",
		slog.Int64("cost_center_id", req.CostCenterID),
		slog.Int("additional_allocations", len(req.AdditionalAllocations)))

	saved, err := h.ledgerService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondError(c, err, "Failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreateEntryResponse(saved))
}

// listEntries godoc
// @Summary List ledger entries
// @Description Lists entries with allocation groups collapsed into one row each
// @Tags entries
// @Produce  json
// @Param   status query string false "PENDING/POSTED (legacy N/S accepted)"
// @Param   order query string false "asc or desc" default(desc)
// @Success 200 {array} dto.CollapsedEntryResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list entries"
// @Security BearerAuth
// @Router /entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rows, err := h.ledgerService.ListCollapsed(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToCollapsedEntryResponses(rows))
}

// getEntry godoc
// @Summary Get a ledger entry
// @Tags entries
// @Produce  json
// @Param   entryID path int true "Entry ID"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	entryID, ok := int64Param(c, "entryID")
	if !ok {
		return
	}

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, err, "Failed to retrieve entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a ledger entry
// @Description Applies a partial update. Status changes go through the status endpoint.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entryID path int true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "No fields or invalid input"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /entries/{entryID} [put]
func (h *entryHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := int64Param(c, "entryID")
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	updated, err := h.ledgerService.UpdateEntry(c.Request.Context(), entryID, req, userID)
	if err != nil {
		respondError(c, err, "Failed to update entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(updated))
}

// deleteEntry godoc
// @Summary Delete a ledger entry
// @Tags entries
// @Param   entryID path int true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /entries/{entryID} [delete]
func (h *entryHandler) deleteEntry(c *gin.Context) {
	entryID, ok := int64Param(c, "entryID")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), entryID, userID); err != nil {
		respondError(c, err, "Failed to delete entry")
		return
	}

	c.Status(http.StatusNoContent)
}

// toggleStatus godoc
// @Summary Change the status of a ledger entry
// @Description Moves an entry between PENDING and POSTED. Posted entries cannot return to pending.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   entryID path int true "Entry ID"
// @Param   status body dto.ToggleStatusRequest true "Target status"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Transition not allowed"
// @Security BearerAuth
// @Router /entries/{entryID}/status [patch]
func (h *entryHandler) toggleStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := int64Param(c, "entryID")
	if !ok {
		return
	}

	var req dto.ToggleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ToggleStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	updated, err := h.statusService.ToggleStatus(c.Request.Context(), entryID, req.Status, userID)
	if err != nil {
		respondError(c, err, "Failed to change entry status")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(updated))
}

// uploadAttachments godoc
// @Summary Upload attachments to a ledger entry
// @Description Stores the files in the entry's folder and appends their links to the entry
// @Tags entries
// @Accept  multipart/form-data
// @Produce  json
// @Param   entryID path int true "Entry ID"
// @Param   files formData file true "Files to attach"
// @Success 200 {object} dto.LedgerEntryResponse
// @Failure 400 {object} map[string]string "No files"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 503 {object} map[string]string "Attachment storage not configured"
// @Security BearerAuth
// @Router /entries/{entryID}/attachments [post]
func (h *entryHandler) uploadAttachments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID, ok := int64Param(c, "entryID")
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := c.Request.ParseMultipartForm(maxAttachmentMemory); err != nil {
		logger.Warn("Failed to parse multipart form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form: " + err.Error()})
		return
	}
	headers := c.Request.MultipartForm.File["files"]

	files := make([]domain.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			logger.Warn("Failed to open uploaded file", slog.String("file", fh.Filename), slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read file " + fh.Filename})
			return
		}
		defer f.Close()
		files = append(files, domain.UploadFile{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Content:  f,
		})
	}

	updated, err := h.ledgerService.AttachFiles(c.Request.Context(), entryID, files, userID)
	if err != nil {
		respondError(c, err, "Failed to upload attachments")
		return
	}

	c.JSON(http.StatusOK, dto.ToLedgerEntryResponse(updated))
}

// searchPayees godoc
// @Summary Payee autocomplete
// @Description Returns up to 10 distinct payees whose name starts with q
// @Tags payees
// @Produce  json
// @Param   q query string false "Name prefix"
// @Success 200 {array} domain.PayeeSuggestion
// @Security BearerAuth
// @Router /entries/payees [get]
func (h *entryHandler) searchPayees(c *gin.Context) {
	var params dto.SearchPayeesParams
	_ = c.ShouldBindQuery(&params)

	found, err := h.ledgerService.SearchPayees(c.Request.Context(), params.Query)
	if err != nil {
		respondError(c, err, "Failed to search payees")
		return
	}
	c.JSON(http.StatusOK, found)
}

// listPayees godoc
// @Summary List distinct payees
// @Tags payees
// @Produce  json
// @Success 200 {array} domain.PayeeSuggestion
// @Security BearerAuth
// @Router /payees [get]
func (h *entryHandler) listPayees(c *gin.Context) {
	found, err := h.ledgerService.ListPayees(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list payees")
		return
	}
	c.JSON(http.StatusOK, found)
}
