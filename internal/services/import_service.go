package services

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/mrlokans/curriculum/internal/assets"
	"github.com/mrlokans/curriculum/internal/config"
	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/importers"
	"github.com/mrlokans/curriculum/internal/logger"
	"github.com/mrlokans/curriculum/internal/report"
	"github.com/mrlokans/curriculum/internal/runlog"
)

var ErrExportPathRequired = errors.New("export path is required")

// ImportRequest describes one import. Empty optional fields fall back to configuration.
type ImportRequest struct {
	ExportPath   string
	ManifestPath string
	Mode         importers.Mode
	Trigger      entities.ImportTrigger
	AssetDir     string
	ReportPath   string
	LogPath      string
	RunID        string
}

// ImportResult is the outcome of a finished run.
type ImportResult struct {
	RunID      string
	Report     *report.Report
	ReportPath string
	LogPath    string
}

// ImportService runs imports one at a time.
type ImportService struct {
	mu sync.Mutex

	repo   importers.Repository
	runs   RunStore
	assets assets.Store
	cfg    *config.Config
	log    *logger.Logger
	now    func() time.Time
}

// NewImportService creates a new ImportService. runs may be nil when run
// history is not kept.
func NewImportService(repo importers.Repository, runs RunStore, store assets.Store, cfg *config.Config, log *logger.Logger) *ImportService {
	return &ImportService{
		repo:   repo,
		runs:   runs,
		assets: store,
		cfg:    cfg,
		log:    log.With(logger.FieldComponent, "import_service"),
		now:    time.Now,
	}
}

// Import runs a full import and writes the run report. The returned error is
// only for failures around the run, such as an unwritable log or report file;
// everything that goes wrong inside the export is in the report.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if req.ExportPath == "" {
		return nil, s.abortRun(ctx, req, ErrExportPathRequired)
	}
	if req.Mode != importers.ModeDryRun && req.Mode != importers.ModeCommit {
		return nil, s.abortRun(ctx, req, importers.ErrInvalidMode)
	}
	s.applyDefaults(&req)

	s.mu.Lock()
	defer s.mu.Unlock()

	tree, err := assets.NewExportTree(req.ExportPath)
	if err != nil {
		return nil, s.abortRun(ctx, req, err)
	}
	if req.ManifestPath == "" {
		req.ManifestPath = filepath.Join(tree.Root(), config.DefaultManifestName)
	}

	sink, err := runlog.OpenJSONL(req.LogPath)
	if err != nil {
		return nil, s.abortRun(ctx, req, errors.Wrap(err, "open import log"))
	}
	defer func() {
		if err := sink.Close(); err != nil {
			s.log.Warn("Failed to close import log", logger.FieldPath, req.LogPath, logger.FieldError, err)
		}
	}()

	log := s.log.With(logger.FieldRunID, req.RunID, logger.FieldMode, req.Mode.String())
	startedAt := s.now()
	run := &entities.ImportRun{
		ID:         req.RunID,
		ExportPath: tree.Root(),
		Mode:       req.Mode.String(),
		Trigger:    req.Trigger,
		Status:     entities.ImportStatusRunning,
		StartedAt:  startedAt,
	}
	s.saveRun(ctx, run, log)

	reporter := report.NewReporter(sink, s.now)
	var store assets.Store = s.assets
	if req.Mode.DryRun() || store == nil {
		store = assets.NopStore{}
	}
	migrator := assets.NewMigrator(tree, store, req.AssetDir, s.cfg.Assets.PublicPrefix, reporter)
	imp := importers.New(s.repo, tree, migrator, reporter, importers.Options{
		Mode:    req.Mode,
		OwnerID: s.cfg.Import.OwnerID,
	}, log)

	rep := imp.Run(ctx, req.ManifestPath)
	if err := reporter.SinkErr(); err != nil {
		log.Warn("Import log is incomplete", logger.FieldPath, req.LogPath, logger.FieldError, err)
	}

	s.finishRun(ctx, run, rep, log)

	result := &ImportResult{RunID: req.RunID, Report: rep, ReportPath: req.ReportPath, LogPath: req.LogPath}
	if err := rep.WriteFile(req.ReportPath); err != nil {
		return result, errors.Wrap(err, "write import report")
	}

	log.Info("Import report written", logger.FieldPath, req.ReportPath, "success", rep.Success)
	return result, nil
}

func (s *ImportService) applyDefaults(req *ImportRequest) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	if req.Trigger == "" {
		req.Trigger = entities.ImportTriggerCLI
	}
	if req.AssetDir == "" {
		req.AssetDir = s.cfg.Assets.Dir
	}
	if req.ReportPath == "" {
		req.ReportPath = s.cfg.Import.ReportPath
	}
	if req.LogPath == "" {
		req.LogPath = s.cfg.Import.LogPath
	}
}

func (s *ImportService) finishRun(ctx context.Context, run *entities.ImportRun, rep *report.Report, log *logger.Logger) {
	finishedAt := s.now()
	run.FinishedAt = &finishedAt
	run.Success = rep.Success
	run.Status = entities.ImportStatusCompleted
	if !rep.Success {
		run.Status = entities.ImportStatusFailed
	}
	run.TotalItems = rep.Coverage.TotalItemsInManifest
	run.ItemsProcessed = rep.Coverage.ItemsProcessed
	run.ErrorCount = len(rep.Errors)
	run.WarningCount = len(rep.Warnings)

	data, err := json.Marshal(rep)
	if err != nil {
		log.Warn("Failed to encode report for run history", logger.FieldError, err)
	} else {
		run.Report = datatypes.JSON(data)
	}
	s.saveRun(ctx, run, log)
}

// abortRun records a run that could not start and returns cause. Runs queued
// through the API already have a row, which would otherwise stay queued.
func (s *ImportService) abortRun(ctx context.Context, req ImportRequest, cause error) error {
	if req.RunID == "" {
		return cause
	}
	now := s.now()
	s.saveRun(ctx, &entities.ImportRun{
		ID:         req.RunID,
		ExportPath: req.ExportPath,
		Mode:       req.Mode.String(),
		Trigger:    req.Trigger,
		Status:     entities.ImportStatusFailed,
		ErrorCount: 1,
		Failure:    cause.Error(),
		StartedAt:  now,
		FinishedAt: &now,
	}, s.log.With(logger.FieldRunID, req.RunID))
	return cause
}

// Run history is best effort; it never fails an import.
func (s *ImportService) saveRun(ctx context.Context, run *entities.ImportRun, log *logger.Logger) {
	if s.runs == nil {
		return
	}
	if err := s.runs.Save(ctx, run); err != nil {
		log.Warn("Failed to save import run", logger.FieldError, err)
	}
}
