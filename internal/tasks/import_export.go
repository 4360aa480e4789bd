package tasks

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/importers"
	"github.com/mrlokans/curriculum/internal/logger"
	"github.com/mrlokans/curriculum/internal/services"
)

const ImportExportQueue = "import_export"

// Importer runs one import. services.ImportService implements it.
type Importer interface {
	Import(ctx context.Context, req services.ImportRequest) (*services.ImportResult, error)
}

// ImportExportTask imports one export directory. RunID is chosen by the
// caller so the run can be looked up before the task executes.
type ImportExportTask struct {
	RunID      string `json:"run_id"`
	ExportPath string `json:"export_path"`
	Mode       string `json:"mode"`
	Trigger    string `json:"trigger"`
}

// Config returns the queue configuration for import tasks.
// Imports are not retried; recovery is running the idempotent import again.
func (t ImportExportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        ImportExportQueue,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     2 * time.Hour,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportExportProcessor creates a processor function for ImportExportTask.
func ImportExportProcessor(importer Importer, cfg Config, log *logger.Logger) backlite.QueueProcessor[ImportExportTask] {
	return func(ctx context.Context, task ImportExportTask) error {
		if importer == nil {
			return errors.New("importer not configured")
		}

		mode := importers.Mode(task.Mode)
		if mode != importers.ModeDryRun && mode != importers.ModeCommit {
			return errors.Wrapf(importers.ErrInvalidMode, "task mode %q", task.Mode)
		}

		if cfg.TaskTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.TaskTimeout)
			defer cancel()
		}

		result, err := importer.Import(ctx, services.ImportRequest{
			ExportPath: task.ExportPath,
			Mode:       mode,
			Trigger:    entities.ImportTrigger(task.Trigger),
			RunID:      task.RunID,
		})
		if err != nil {
			return errors.Wrapf(err, "import %s", task.ExportPath)
		}

		log.Info("Import task finished",
			logger.FieldRunID, result.RunID,
			logger.FieldPath, task.ExportPath,
			"success", result.Report.Success,
			"errors", len(result.Report.Errors),
		)
		return nil
	}
}

// NewImportExportQueue creates a backlite queue for import tasks.
func NewImportExportQueue(importer Importer, cfg Config, log *logger.Logger) backlite.Queue {
	return backlite.NewQueue(ImportExportProcessor(importer, cfg, log))
}
