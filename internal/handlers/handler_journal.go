package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/ledger_bridge/internal/core/ports/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
	"github.com/SscSPs/ledger_bridge/internal/middleware"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// registerJournalRoutes registers routes related to journal entries and batch runs.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("/validate", h.validateJournalEntry)
		entries.POST("", h.createJournalEntry)
		entries.POST("/batch", h.batchCreateJournalEntries)
		entries.GET("", h.listJournalEntries)
		entries.GET("/:id", h.getJournalEntry)
		entries.PUT("/:id", h.updateJournalEntry)
		entries.POST("/:id/submit", h.submitJournalEntry)
	}

	runs := rg.Group("/batch-runs")
	{
		runs.GET("", h.listBatchRuns)
		runs.GET("/:id", h.getBatchRun)
	}
}

// validateJournalEntry godoc
// @Summary Validate a journal entry
// @Description Checks required fields and double-entry balance without contacting the ledger
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.JournalEntryRequest true "Journal entry"
// @Success 200 {object} domain.ValidationResult
// @Failure 400 {object} map[string]string "Invalid request format"
// @Security BearerAuth
// @Router /journal-entries/validate [post]
func (h *journalHandler) validateJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "JSON for ValidateJournalEntry")
		return
	}

	result := h.journalService.ValidateJournalEntry(req.ToDraft())
	logger.Debug("Journal entry validated", slog.Bool("valid", result.Valid))
	c.JSON(http.StatusOK, result)
}

// createJournalEntry godoc
// @Summary Create a journal entry
// @Description Validates and creates a draft journal entry on the ledger, optionally submitting it
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateJournalEntryRequest true "Journal entry"
// @Success 201 {object} domain.JournalCreation
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 422 {object} dto.ValidationFailedResponse
// @Failure 502 {object} map[string]string "Ledger call failed"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createJournalEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "JSON for CreateJournalEntry")
		return
	}

	logger.Info("Received request to create journal entry",
		slog.String("company", req.Company),
		slog.Int("line_count", len(req.Lines)),
		slog.Bool("auto_submit", req.AutoSubmit),
	)

	creation, err := h.journalService.CreateJournalEntry(c.Request.Context(), req.ToDraft(), req.SkipValidation, req.AutoSubmit)
	if err != nil {
		respondError(c, logger, err, "Failed to create journal entry")
		return
	}

	c.JSON(http.StatusCreated, creation)
}

// batchCreateJournalEntries godoc
// @Summary Create journal entries in a batch
// @Description Processes entries sequentially. Entries already created are never rolled back.
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   batch body dto.BatchCreateJournalEntriesRequest true "Entries"
// @Success 200 {object} domain.BatchResult
// @Failure 400 {object} map[string]string "Invalid request format or empty batch"
// @Security BearerAuth
// @Router /journal-entries/batch [post]
func (h *journalHandler) batchCreateJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BatchCreateJournalEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "JSON for BatchCreateJournalEntries")
		return
	}

	result, err := h.journalService.RunBatch(c.Request.Context(), req.ToDrafts(), req.AutoSubmit, req.StopOnError)
	if err != nil {
		respondError(c, logger, err, "Failed to process batch")
		return
	}

	c.JSON(http.StatusOK, result)
}

// listJournalEntries godoc
// @Summary List journal entries
// @Tags journal-entries
// @Produce  json
// @Param   company query string false "Company"
// @Param   docstatus query int false "0 draft, 1 submitted, 2 cancelled"
// @Param   fromDate query string false "YYYY-MM-DD"
// @Param   toDate query string false "YYYY-MM-DD"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listJournalEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err, "query for ListJournalEntries")
		return
	}

	resp, err := h.journalService.ListJournalEntries(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getJournalEntry godoc
// @Summary Get a journal entry
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Journal entry ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getJournalEntry(c *gin.Context) {
	id := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("journal_id", id))

	record, err := h.journalService.GetJournalEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal entry")
		return
	}

	c.JSON(http.StatusOK, record)
}

// updateJournalEntry godoc
// @Summary Update a draft journal entry
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   id path string true "Journal entry ID"
// @Param   entry body dto.JournalEntryRequest true "New content"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string "Entry is submitted or cancelled"
// @Failure 422 {object} dto.ValidationFailedResponse
// @Security BearerAuth
// @Router /journal-entries/{id} [put]
func (h *journalHandler) updateJournalEntry(c *gin.Context) {
	id := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("journal_id", id))

	var req dto.JournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err, "JSON for UpdateJournalEntry")
		return
	}

	record, err := h.journalService.UpdateJournalEntry(c.Request.Context(), id, req.ToDraft())
	if err != nil {
		respondError(c, logger, err, "Failed to update journal entry")
		return
	}

	c.JSON(http.StatusOK, record)
}

// submitJournalEntry godoc
// @Summary Submit a draft journal entry
// @Tags journal-entries
// @Produce  json
// @Param   id path string true "Journal entry ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Journal entry not found"
// @Failure 409 {object} map[string]string "Entry is already submitted or cancelled"
// @Security BearerAuth
// @Router /journal-entries/{id}/submit [post]
func (h *journalHandler) submitJournalEntry(c *gin.Context) {
	id := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("journal_id", id))

	record, err := h.journalService.SubmitJournalEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to submit journal entry")
		return
	}

	logger.Info("Journal entry submitted")
	c.JSON(http.StatusOK, record)
}

// listBatchRuns godoc
// @Summary List recent batch runs
// @Tags batch-runs
// @Produce  json
// @Param   limit query int false "Maximum number of runs"
// @Success 200 {object} dto.BatchRunsResponse
// @Security BearerAuth
// @Router /batch-runs [get]
func (h *journalHandler) listBatchRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var q dto.ListBatchRunsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBindError(c, logger, err, "query for ListBatchRuns")
		return
	}

	runs, err := h.journalService.ListBatchRuns(c.Request.Context(), q.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list batch runs")
		return
	}

	c.JSON(http.StatusOK, dto.BatchRunsResponse{Runs: runs})
}

// getBatchRun godoc
// @Summary Get a batch run with its per-entry outcomes
// @Tags batch-runs
// @Produce  json
// @Param   id path string true "Batch run ID"
// @Success 200 {object} domain.BatchRun
// @Failure 404 {object} map[string]string "Batch run not found"
// @Security BearerAuth
// @Router /batch-runs/{id} [get]
func (h *journalHandler) getBatchRun(c *gin.Context) {
	id := c.Param("id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("batch_run_id", id))

	run, err := h.journalService.GetBatchRun(c.Request.Context(), id)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve batch run")
		return
	}

	c.JSON(http.StatusOK, run)
}
