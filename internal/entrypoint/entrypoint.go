package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/curriculum/internal/config"
	http_controllers "github.com/mrlokans/curriculum/internal/http"
	"github.com/mrlokans/curriculum/internal/logger"
	"github.com/mrlokans/curriculum/internal/scheduler"
	"github.com/mrlokans/curriculum/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log *logger.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", "addr", srv.Addr)
		// service connections
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-listenErr:
		return errors.Wrap(err, "listen")
	case <-quit:
	}
	log.Info("Shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "server shutdown")
	}

	log.Info("Server exiting")
	return nil
}

// Run wires the content store, task queue, scheduler and HTTP API, and serves
// until interrupted.
func Run(cfg *config.Config, version string) error {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer log.Sync()

	log.Info("Starting curriculum importer", "version", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("Error closing resources", logger.FieldError, err)
		}
	}()

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var sched *scheduler.ImportSyncScheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.ConfigFrom(cfg.Tasks)

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg, log)
		if err != nil {
			return errors.Wrap(err, "failed to initialize task queue")
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Warn("Error closing task client", logger.FieldError, err)
			}
		}()

		taskClient.Register(
			tasks.NewImportExportQueue(app.Imports, taskCfg, log),
			tasks.NewCleanupImportRunsQueue(app.Runs, log),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(ctx)
		go taskClient.Start(taskCtx)

		sched = scheduler.NewImportSyncScheduler(taskClient, cfg.ImportSync, cfg.Import.RetentionDays, log)
		if err := sched.Start(ctx); err != nil {
			log.Error("Failed to start import scheduler", logger.FieldError, err)
			sched = nil
		}
	} else {
		log.Warn("Task queue disabled: import triggers and scheduled imports are unavailable")
	}

	routerCfg := http_controllers.RouterConfig{
		Database: app.DB,
		Runs:     app.Runs,
		Content:  app.Content,
		Version:  version,
		Logger:   log,
	}
	// Nil pointers must not become non-nil interfaces.
	if taskClient != nil {
		routerCfg.Tasks = taskClient
	}
	if sched != nil {
		routerCfg.Scheduler = sched
	}

	if cfg.Log.Mode == "production" || cfg.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if sched != nil {
			sched.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	return Serve(router, cfg, log, onShutdown)
}
