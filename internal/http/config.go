package http

import (
	"github.com/mrlokans/curriculum/internal/database"
	"github.com/mrlokans/curriculum/internal/logger"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
type RouterConfig struct {
	Database *database.Database
	Runs     RunStore
	Content  ContentReader

	// Nil when the scheduler is not running.
	Scheduler SyncScheduler

	// Nil when the task queue is disabled; import triggers are not routed then.
	Tasks TaskQueue

	Version string
	Logger  *logger.Logger
}
