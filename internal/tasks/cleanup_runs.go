package tasks

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/curriculum/internal/logger"
)

const defaultRunRetentionDays = 30

// RunCleaner provides the ability to delete old import runs.
type RunCleaner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupImportRunsTask removes stored import runs older than the retention period.
type CleanupImportRunsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for run cleanup tasks.
func (t CleanupImportRunsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_import_runs",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupImportRunsProcessor creates a processor function for CleanupImportRunsTask.
func CleanupImportRunsProcessor(cleaner RunCleaner, log *logger.Logger, now func() time.Time) backlite.QueueProcessor[CleanupImportRunsTask] {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context, task CleanupImportRunsTask) error {
		if cleaner == nil {
			return errors.New("run cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = defaultRunRetentionDays
		}
		cutoff := now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

		deleted, err := cleaner.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return errors.Wrap(err, "cleanup import runs")
		}

		log.Info("Cleaned up import runs", logger.FieldCount, deleted, "retention_days", retentionDays)
		return nil
	}
}

// NewCleanupImportRunsQueue creates a backlite queue for run cleanup tasks.
func NewCleanupImportRunsQueue(cleaner RunCleaner, log *logger.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupImportRunsProcessor(cleaner, log, nil))
}
