package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/curriculum/internal/logger"
)

// SyncController exposes the scheduled re-import.
type SyncController struct {
	scheduler SyncScheduler
	log       *logger.Logger
}

func NewSyncController(scheduler SyncScheduler, log *logger.Logger) *SyncController {
	return &SyncController{scheduler: scheduler, log: log}
}

// GetStatus handles GET /api/imports/sync
func (sc *SyncController) GetStatus(c *gin.Context) {
	response := gin.H{"running": sc.scheduler.IsRunning()}
	if next := sc.scheduler.NextRunTime(); next != nil {
		response["next_run"] = next
	}
	c.JSON(http.StatusOK, response)
}

// RunNow handles POST /api/imports/sync
// Enqueues the configured re-import immediately.
func (sc *SyncController) RunNow(c *gin.Context) {
	runID, err := sc.scheduler.RunNow(c.Request.Context())
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	respondAccepted(c, "import enqueued", gin.H{"run_id": runID})
}
