package http

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/importers"
	"github.com/mrlokans/curriculum/internal/logger"
	"github.com/mrlokans/curriculum/internal/tasks"
)

// ImportsController triggers imports and serves run history.
type ImportsController struct {
	runs  RunStore
	queue TaskQueue
	log   *logger.Logger
	now   func() time.Time
}

// NewImportsController creates a new ImportsController. queue may be nil,
// in which case only the history endpoints are usable.
func NewImportsController(runs RunStore, queue TaskQueue, log *logger.Logger) *ImportsController {
	return &ImportsController{
		runs:  runs,
		queue: queue,
		log:   log.With(logger.FieldComponent, "http_imports"),
		now:   time.Now,
	}
}

// CreateImportRequest is the body of POST /api/imports.
type CreateImportRequest struct {
	Path   string `json:"path" binding:"required"`
	DryRun bool   `json:"dry_run"`
	Commit bool   `json:"commit"`
}

// CreateImportResponse identifies the enqueued run.
type CreateImportResponse struct {
	RunID  string `json:"run_id"`
	TaskID string `json:"task_id"`
	Mode   string `json:"mode"`
}

// CreateImport handles POST /api/imports
// Validates the mode, records a queued run and enqueues the import task.
func (ic *ImportsController) CreateImport(c *gin.Context) {
	var req CreateImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "path is required")
		return
	}

	mode, err := importers.ParseMode(req.DryRun, req.Commit)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_mode"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	run := &entities.ImportRun{
		ID:         uuid.NewString(),
		ExportPath: req.Path,
		Mode:       mode.String(),
		Trigger:    entities.ImportTriggerAPI,
		Status:     entities.ImportStatusQueued,
		StartedAt:  ic.now(),
	}
	if err := ic.runs.Save(ctx, run); err != nil {
		respondInternalError(c, ic.log, err, "save queued run")
		return
	}

	taskID, err := ic.queue.Enqueue(ctx, tasks.ImportExportTask{
		RunID:      run.ID,
		ExportPath: req.Path,
		Mode:       mode.String(),
		Trigger:    string(entities.ImportTriggerAPI),
	})
	if err != nil {
		run.Status = entities.ImportStatusFailed
		if saveErr := ic.runs.Save(ctx, run); saveErr != nil {
			ic.log.Warn("Failed to mark run as failed", logger.FieldRunID, run.ID, logger.FieldError, saveErr)
		}
		respondInternalError(c, ic.log, err, "enqueue import")
		return
	}

	ic.log.Info("Import enqueued", logger.FieldRunID, run.ID, logger.FieldTaskID, taskID, logger.FieldPath, req.Path)
	respondAccepted(c, "import enqueued", CreateImportResponse{
		RunID:  run.ID,
		TaskID: taskID,
		Mode:   mode.String(),
	})
}

// ListImports handles GET /api/imports
// Returns stored runs, most recent first, without their reports.
func (ic *ImportsController) ListImports(c *gin.Context) {
	limit, offset := parsePagination(c)

	runs, total, err := ic.runs.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondInternalError(c, ic.log, err, "list runs")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    runs,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(runs)) < total,
	})
}

// LatestImport handles GET /api/imports/latest?path=...
// Returns the most recent run for an export path.
func (ic *ImportsController) LatestImport(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		respondBadRequest(c, "path is required")
		return
	}

	run, err := ic.runs.Latest(c.Request.Context(), path)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "import run")
		return
	}
	if err != nil {
		respondInternalError(c, ic.log, err, "latest run")
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetImport handles GET /api/imports/:id
// Returns a single run including its report.
func (ic *ImportsController) GetImport(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respondBadRequest(c, "invalid id")
		return
	}

	run, err := ic.runs.Get(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "import run")
		return
	}
	if err != nil {
		respondInternalError(c, ic.log, err, "get run")
		return
	}

	c.JSON(http.StatusOK, run)
}
