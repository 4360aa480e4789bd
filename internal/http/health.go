package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/curriculum/internal/database"
)

const (
	checkOK            = "ok"
	checkDisabled      = "disabled"
	checkNotConfigured = "not configured"
	healthTimeout      = 2 * time.Second
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports whether the importer server can do its work: the
// content store answers, the task queue database answers and the sync
// schedule is armed.
type HealthController struct {
	db        *database.Database
	queue     TaskQueue
	scheduler SyncScheduler
	version   string
}

// NewHealthController builds the controller. queue and scheduler may be nil
// when the server runs without background tasks.
func NewHealthController(db *database.Database, queue TaskQueue, scheduler SyncScheduler, version string) *HealthController {
	return &HealthController{
		db:        db,
		queue:     queue,
		scheduler: scheduler,
		version:   version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	checks := map[string]string{
		"database":   h.checkDatabase(ctx),
		"task_queue": h.checkQueue(ctx),
		"scheduler":  h.checkScheduler(),
	}

	status := "healthy"
	for _, name := range []string{"database", "task_queue"} {
		if isFailure(checks[name]) {
			status = "unhealthy"
		}
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

func (h *HealthController) checkDatabase(ctx context.Context) string {
	if h.db == nil {
		return checkNotConfigured
	}
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return "error: " + err.Error()
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "error: " + err.Error()
	}
	return checkOK
}

func (h *HealthController) checkQueue(ctx context.Context) string {
	if h.queue == nil {
		return checkDisabled
	}
	if err := h.queue.Ping(ctx); err != nil {
		return "error: " + err.Error()
	}
	return checkOK
}

// The scheduler is informational. A stopped schedule does not make the
// server unhealthy.
func (h *HealthController) checkScheduler() string {
	if h.scheduler == nil {
		return checkDisabled
	}
	if !h.scheduler.IsRunning() {
		return "stopped"
	}
	if next := h.scheduler.NextRunTime(); next != nil {
		return "next run " + next.UTC().Format(time.RFC3339)
	}
	return "running"
}

func isFailure(check string) bool {
	return strings.HasPrefix(check, "error:")
}
