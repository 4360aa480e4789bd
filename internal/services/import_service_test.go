package services

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/curriculum/internal/assets"
	"github.com/mrlokans/curriculum/internal/config"
	"github.com/mrlokans/curriculum/internal/database/content"
	"github.com/mrlokans/curriculum/internal/database/runs"
	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/importers"
	"github.com/mrlokans/curriculum/internal/logger"
	"github.com/mrlokans/curriculum/internal/report"
)

const testManifest = `{"subjects": [{"subjectId": "bio", "title": "Biology", "books": [{"bookId": "b1", "title": "Cells",
  "chapters": [{"chapterIdOrIdx": 1, "title": "One", "sections": [{"sectionIdOrIdx": "1.1", "title": "Intro",
    "content": {"terms": [{"term": "cell", "definition": "unit"}],
      "theory": [{"id": "t1", "sourcePath": "chapters/1/theory.json", "html": "<img src=\"img/a.png\">"}]}}]}]}]}]}`

type testEnv struct {
	db      *gorm.DB
	runs    *runs.Repository
	service *ImportService
	export  string
	workDir string
	cfg     *config.Config
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	workDir := t.TempDir()

	db, err := gorm.Open(sqlite.Open(filepath.Join(workDir, "content.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(append(entities.ContentModels(), &entities.ImportRun{})...))

	export := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(export, config.DefaultManifestName), []byte(testManifest), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(export, "chapters", "1", "img"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(export, "chapters", "1", "theory.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(export, "chapters", "1", "img", "a.png"), []byte("png"), 0644))

	cfg := &config.Config{
		Import: config.Import{
			LogPath:    filepath.Join(workDir, "import_log.jsonl"),
			ReportPath: filepath.Join(workDir, "import_report.json"),
			OwnerID:    config.DefaultOwnerID,
		},
		Assets: config.Assets{
			Dir:          filepath.Join(workDir, "assets"),
			PublicPrefix: config.DefaultPublicAssetPrefix,
		},
	}

	runsRepo := runs.NewRepository(db)
	service := NewImportService(content.NewRepository(db), runsRepo, assets.NewLocalStore(), cfg, logger.Nop())
	return &testEnv{db: db, runs: runsRepo, service: service, export: export, workDir: workDir, cfg: cfg}
}

func TestImportService_Commit(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	result, err := env.service.Import(ctx, ImportRequest{ExportPath: env.export, Mode: importers.ModeCommit})
	require.NoError(t, err)
	require.True(t, result.Report.Success, "errors: %v", result.Report.Errors)
	assert.NotEmpty(t, result.RunID)

	var docs []entities.Document
	require.NoError(t, env.db.Find(&docs).Error)
	require.Len(t, docs, 1)
	assert.Equal(t, `<img src="/assets/studygo/a.png">`, docs[0].HTMLContent)
	assert.Equal(t, config.DefaultOwnerID, docs[0].OwnerID)

	_, err = os.Stat(filepath.Join(env.cfg.Assets.Dir, "a.png"))
	assert.NoError(t, err)

	written, err := report.ReadFile(env.cfg.Import.ReportPath)
	require.NoError(t, err)
	assert.Equal(t, result.Report.Counts, written.Counts)
	assert.Equal(t, 1, written.Counts.Assets)

	run, err := env.runs.Get(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusCompleted, run.Status)
	assert.Equal(t, entities.ImportTriggerCLI, run.Trigger)
	assert.Equal(t, "commit", run.Mode)
	assert.True(t, run.Success)
	assert.NotNil(t, run.FinishedAt)
	assert.Equal(t, result.Report.Coverage.ItemsProcessed, run.ItemsProcessed)

	var stored report.Report
	require.NoError(t, json.Unmarshal(run.Report, &stored))
	assert.Equal(t, result.Report.Counts, stored.Counts)
}

func TestImportService_DryRunPersistsNothing(t *testing.T) {
	env := setupTestEnv(t)

	result, err := env.service.Import(context.Background(), ImportRequest{ExportPath: env.export, Mode: importers.ModeDryRun})
	require.NoError(t, err)
	assert.True(t, result.Report.Success)
	assert.Equal(t, 1, result.Report.Counts.Docs)

	var count int64
	require.NoError(t, env.db.Model(&entities.Document{}).Count(&count).Error)
	assert.Zero(t, count)

	_, err = os.Stat(filepath.Join(env.cfg.Assets.Dir, "a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestImportService_AppendsEventLog(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.service.Import(ctx, ImportRequest{ExportPath: env.export, Mode: importers.ModeDryRun})
	require.NoError(t, err)
	first := countLines(t, env.cfg.Import.LogPath)

	_, err = env.service.Import(ctx, ImportRequest{ExportPath: env.export, Mode: importers.ModeDryRun})
	require.NoError(t, err)

	assert.Greater(t, first, 0)
	assert.Equal(t, 2*first, countLines(t, env.cfg.Import.LogPath))
}

func TestImportService_MissingManifest(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	result, err := env.service.Import(ctx, ImportRequest{ExportPath: t.TempDir(), Mode: importers.ModeCommit, Trigger: entities.ImportTriggerAPI})
	require.NoError(t, err)
	assert.False(t, result.Report.Success)
	require.Len(t, result.Report.Errors, 1)

	run, err := env.runs.Get(ctx, result.RunID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusFailed, run.Status)
	assert.Equal(t, 1, run.ErrorCount)
}

func TestImportService_RequestValidation(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.service.Import(context.Background(), ImportRequest{Mode: importers.ModeCommit})
	assert.True(t, errors.Is(err, ErrExportPathRequired))

	_, err = env.service.Import(context.Background(), ImportRequest{ExportPath: env.export})
	assert.True(t, errors.Is(err, importers.ErrInvalidMode))
}

func TestImportService_UnwritableLogFailsQueuedRun(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.runs.Save(ctx, &entities.ImportRun{
		ID:         "queued-run",
		ExportPath: env.export,
		Mode:       importers.ModeCommit.String(),
		Trigger:    entities.ImportTriggerAPI,
		Status:     entities.ImportStatusQueued,
	}))
	blocker := filepath.Join(env.workDir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := env.service.Import(ctx, ImportRequest{
		ExportPath: env.export,
		Mode:       importers.ModeCommit,
		Trigger:    entities.ImportTriggerAPI,
		LogPath:    filepath.Join(blocker, "import_log.jsonl"),
		RunID:      "queued-run",
	})
	require.Error(t, err)

	run, err := env.runs.Get(ctx, "queued-run")
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusFailed, run.Status)
	assert.False(t, run.Success)
	assert.NotNil(t, run.FinishedAt)
	assert.Contains(t, run.Failure, "open import log")
}

func TestImportService_OverridesAndRunID(t *testing.T) {
	env := setupTestEnv(t)
	reportPath := filepath.Join(t.TempDir(), "custom", "report.json")

	result, err := env.service.Import(context.Background(), ImportRequest{
		ExportPath: env.export,
		Mode:       importers.ModeDryRun,
		ReportPath: reportPath,
		RunID:      "fixed-run-id",
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-run-id", result.RunID)
	assert.Equal(t, reportPath, result.ReportPath)

	_, err = os.Stat(reportPath)
	assert.NoError(t, err)
}

func countLines(t *testing.T, path string) int {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	n := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		n++
	}
	require.NoError(t, scanner.Err())
	return n
}
