package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/mrlokans/curriculum/internal/database/runs"
	"github.com/mrlokans/curriculum/internal/entities"
	"github.com/mrlokans/curriculum/internal/logger"
	"github.com/mrlokans/curriculum/internal/tasks"
)

func setupImportsRouter(t *testing.T, queue TaskQueue) (*gin.Engine, *runs.Repository) {
	t.Helper()

	db := setupTestDB(t)
	repo := runs.NewRepository(db.DB)
	router := NewRouter(RouterConfig{
		Database: db,
		Runs:     repo,
		Tasks:    queue,
		Version:  "test",
		Logger:   logger.Nop(),
	})
	return router, repo
}

func postImport(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/imports", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestImportsController_CreateImport(t *testing.T) {
	t.Run("enqueues a commit import and records a queued run", func(t *testing.T) {
		queue := newFakeQueue()
		router, repo := setupImportsRouter(t, queue)

		w := postImport(router, `{"path":"/exports/bio","commit":true}`)
		require.Equal(t, http.StatusAccepted, w.Code)

		var response struct {
			Message string               `json:"message"`
			Data    CreateImportResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "import enqueued", response.Message)
		assert.Equal(t, "task-1", response.Data.TaskID)
		assert.Equal(t, "commit", response.Data.Mode)

		require.Len(t, queue.tasks, 1)
		task, ok := queue.tasks[0].(tasks.ImportExportTask)
		require.True(t, ok)
		assert.Equal(t, response.Data.RunID, task.RunID)
		assert.Equal(t, "/exports/bio", task.ExportPath)
		assert.Equal(t, "commit", task.Mode)
		assert.Equal(t, "api", task.Trigger)

		run, err := repo.Get(context.Background(), response.Data.RunID)
		require.NoError(t, err)
		assert.Equal(t, entities.ImportStatusQueued, run.Status)
		assert.Equal(t, entities.ImportTriggerAPI, run.Trigger)
	})

	t.Run("dry run", func(t *testing.T) {
		queue := newFakeQueue()
		router, _ := setupImportsRouter(t, queue)

		w := postImport(router, `{"path":"/exports/bio","dry_run":true}`)

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, queue.tasks, 1)
		assert.Equal(t, "dry-run", queue.tasks[0].(tasks.ImportExportTask).Mode)
	})

	t.Run("rejects missing mode", func(t *testing.T) {
		queue := newFakeQueue()
		router, _ := setupImportsRouter(t, queue)

		w := postImport(router, `{"path":"/exports/bio"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_mode")
		assert.Empty(t, queue.tasks)
	})

	t.Run("rejects both modes", func(t *testing.T) {
		queue := newFakeQueue()
		router, _ := setupImportsRouter(t, queue)

		w := postImport(router, `{"path":"/exports/bio","dry_run":true,"commit":true}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, queue.tasks)
	})

	t.Run("rejects missing path", func(t *testing.T) {
		router, _ := setupImportsRouter(t, newFakeQueue())

		w := postImport(router, `{"commit":true}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "path is required")
	})

	t.Run("marks the run failed when enqueue fails", func(t *testing.T) {
		queue := newFakeQueue()
		queue.enqueueErr = errors.New("queue closed")
		router, repo := setupImportsRouter(t, queue)

		w := postImport(router, `{"path":"/exports/bio","commit":true}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		list, total, err := repo.List(context.Background(), 10, 0)
		require.NoError(t, err)
		require.Equal(t, int64(1), total)
		assert.Equal(t, entities.ImportStatusFailed, list[0].Status)
	})

	t.Run("not routed without a task queue", func(t *testing.T) {
		router, _ := setupImportsRouter(t, nil)

		w := postImport(router, `{"path":"/exports/bio","commit":true}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestImportsController_ListAndGet(t *testing.T) {
	router, repo := setupImportsRouter(t, newFakeQueue())
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := &entities.ImportRun{ID: uuid.NewString(), ExportPath: "/a", Mode: "commit", Status: entities.ImportStatusCompleted, StartedAt: base}
	newer := &entities.ImportRun{
		ID:         uuid.NewString(),
		ExportPath: "/b",
		Mode:       "dry-run",
		Status:     entities.ImportStatusFailed,
		StartedAt:  base.Add(time.Hour),
		Report:     datatypes.JSON(`{"success":false,"errors":["[root] Fatal error: boom"]}`),
	}
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	t.Run("lists most recent first", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/imports?limit=1", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data    []entities.ImportRun `json:"data"`
			Total   int64                `json:"total"`
			HasMore bool                 `json:"has_more"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(2), response.Total)
		assert.True(t, response.HasMore)
		require.Len(t, response.Data, 1)
		assert.Equal(t, newer.ID, response.Data[0].ID)
		assert.Empty(t, response.Data[0].Report)
	})

	t.Run("gets a run with its report", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/imports/"+newer.ID, nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Fatal error: boom")
	})

	t.Run("latest run for a path", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/imports/latest?path=/a", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), older.ID)
	})

	t.Run("latest requires a known path", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/imports/latest?path=/nowhere", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = httptest.NewRecorder()
		req, _ = http.NewRequest("GET", "/api/imports/latest", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown run", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/imports/"+uuid.NewString(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/imports/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
