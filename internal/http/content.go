package http

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/logger"
)

// ContentController serves read-only views of imported content.
type ContentController struct {
	store ContentReader
	log   *logger.Logger
}

func NewContentController(store ContentReader, log *logger.Logger) *ContentController {
	return &ContentController{store: store, log: log}
}

// GetStats handles GET /api/content/stats
// Returns the row count of every content table.
func (cc *ContentController) GetStats(c *gin.Context) {
	counts, err := cc.store.CountByTable(c.Request.Context())
	if err != nil {
		respondInternalError(c, cc.log, err, "content stats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts})
}

// FindBySourceID handles GET /api/content/:table?source_id=...
// Source ids may contain slashes, so they are passed as a query parameter.
func (cc *ContentController) FindBySourceID(c *gin.Context) {
	record, ok := entities.NewRecord(c.Param("table"))
	if !ok {
		respondNotFound(c, "content table")
		return
	}

	sourceID := c.Query("source_id")
	if sourceID == "" {
		respondBadRequest(c, "source_id is required")
		return
	}

	err := cc.store.FindBySourceID(c.Request.Context(), record, sourceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "record")
		return
	}
	if err != nil {
		respondInternalError(c, cc.log, err, "find by source id")
		return
	}

	c.JSON(http.StatusOK, record)
}
