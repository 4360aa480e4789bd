package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/curriculum/internal/entities"
)

// This file collects the store interfaces used by HTTP controllers.
// Each controller depends only on what it calls.

// RunReader provides read access to stored import runs.
type RunReader interface {
	List(ctx context.Context, limit, offset int) ([]entities.ImportRun, int64, error)
	Get(ctx context.Context, id string) (*entities.ImportRun, error)
	Latest(ctx context.Context, exportPath string) (*entities.ImportRun, error)
}

// RunStore combines read access with saving queued runs.
type RunStore interface {
	RunReader
	Save(ctx context.Context, run *entities.ImportRun) error
}

// TaskQueue enqueues background tasks and reports their status.
// tasks.Client is the backlite implementation.
type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
	Ping(ctx context.Context) error
}

// ContentReader provides read access to imported content.
// content.Repository is the gorm implementation.
type ContentReader interface {
	CountByTable(ctx context.Context) (map[string]int64, error)
	FindBySourceID(ctx context.Context, dest entities.Record, sourceID string) error
}

// SyncScheduler triggers and reports on scheduled re-imports.
type SyncScheduler interface {
	RunNow(ctx context.Context) (string, error)
	IsRunning() bool
	NextRunTime() *time.Time
}
