package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/curriculum/internal/config"
	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/importers"
	"github.com/mrlokans/curriculum/internal/logger"
	"github.com/mrlokans/curriculum/internal/tasks"
)

// CleanupSchedule is when stored import runs past retention are removed: daily at 04:15.
const CleanupSchedule = "15 4 * * *"

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Enqueuer adds a task to the queue. tasks.Client implements it.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// ImportSyncScheduler re-imports a configured export directory on a cron
// schedule and prunes old run history. Work is enqueued, never run inline,
// so scheduled imports serialize with API-triggered ones.
type ImportSyncScheduler struct {
	queue         Enqueuer
	cfg           config.ImportSync
	retentionDays int
	log           *logger.Logger

	cron         *cron.Cron
	syncEntry    cron.EntryID
	cleanupEntry cron.EntryID
	mu           sync.RWMutex
	isRunning    bool
	cancelFunc   context.CancelFunc
}

// NewImportSyncScheduler creates a new scheduler instance
func NewImportSyncScheduler(queue Enqueuer, cfg config.ImportSync, retentionDays int, log *logger.Logger) *ImportSyncScheduler {
	return &ImportSyncScheduler{
		queue:         queue,
		cfg:           cfg,
		retentionDays: retentionDays,
		log:           log.With(logger.FieldComponent, "scheduler"),
		cron:          cron.New(cron.WithParser(cronParser)),
	}
}

// ValidateCronSchedule checks a standard five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start registers the jobs and starts the cron runner.
func (s *ImportSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.cfg.Enabled {
		if s.cfg.Path == "" {
			return errors.New("import sync is enabled but IMPORT_SYNC_PATH is not set")
		}
		if err := ValidateCronSchedule(s.cfg.Schedule); err != nil {
			return errors.Wrapf(err, "invalid cron schedule '%s'", s.cfg.Schedule)
		}

		entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
			if _, err := s.enqueueImport(context.Background()); err != nil {
				s.log.Error("Scheduled import not enqueued", logger.FieldError, err)
			}
		})
		if err != nil {
			return errors.Wrap(err, "failed to schedule import job")
		}
		s.syncEntry = entryID
	} else {
		s.log.Info("Import sync: disabled")
	}

	entryID, err := s.cron.AddFunc(CleanupSchedule, func() {
		if _, err := s.enqueueCleanup(context.Background()); err != nil {
			s.log.Error("Run cleanup not enqueued", logger.FieldError, err)
		}
	})
	if err != nil {
		return errors.Wrap(err, "failed to schedule cleanup job")
	}
	s.cleanupEntry = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	if s.cfg.Enabled {
		s.log.Info("Import sync: started",
			"schedule", s.cfg.Schedule,
			logger.FieldPath, s.cfg.Path,
			"next_run", s.cron.Entry(s.syncEntry).Next,
		)
	}

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *ImportSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}
	s.isRunning = false

	s.log.Info("Import sync: stopped")
}

// RunNow enqueues the configured import immediately and returns the run id.
func (s *ImportSyncScheduler) RunNow(ctx context.Context) (string, error) {
	if s.cfg.Path == "" {
		return "", errors.New("import sync path is not configured")
	}
	return s.enqueueImport(ctx)
}

// IsRunning returns whether the scheduler is active
func (s *ImportSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next scheduled import will occur
func (s *ImportSyncScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || s.syncEntry == 0 {
		return nil
	}
	next := s.cron.Entry(s.syncEntry).Next
	return &next
}

func (s *ImportSyncScheduler) enqueueImport(ctx context.Context) (string, error) {
	runID := uuid.NewString()
	taskID, err := s.queue.Enqueue(ctx, tasks.ImportExportTask{
		RunID:      runID,
		ExportPath: s.cfg.Path,
		Mode:       importers.ModeCommit.String(),
		Trigger:    string(entities.ImportTriggerSchedule),
	})
	if err != nil {
		return "", err
	}
	s.log.Info("Scheduled import enqueued", logger.FieldRunID, runID, logger.FieldTaskID, taskID)
	return runID, nil
}

func (s *ImportSyncScheduler) enqueueCleanup(ctx context.Context) (string, error) {
	return s.queue.Enqueue(ctx, tasks.CleanupImportRunsTask{RetentionDays: s.retentionDays})
}
