package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/curriculum/internal/logger"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Tasks, cfg.Scheduler, cfg.Version)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Import run endpoints
	if cfg.Runs != nil {
		imports := NewImportsController(cfg.Runs, cfg.Tasks, log)
		api.GET("/imports", imports.ListImports)
		api.GET("/imports/latest", imports.LatestImport)
		api.GET("/imports/:id", imports.GetImport)
		if cfg.Tasks != nil {
			api.POST("/imports", imports.CreateImport)
		}
	}

	// Scheduled re-import endpoints
	if cfg.Scheduler != nil {
		syncController := NewSyncController(cfg.Scheduler, log)
		api.GET("/imports/sync", syncController.GetStatus)
		api.POST("/imports/sync", syncController.RunNow)
	}

	// Content endpoints
	if cfg.Content != nil {
		contentController := NewContentController(cfg.Content, log)
		api.GET("/content/stats", contentController.GetStats)
		api.GET("/content/:table", contentController.FindBySourceID)
	}

	// Task endpoints
	if cfg.Tasks != nil {
		tasksController := NewTasksController(cfg.Tasks, log)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
