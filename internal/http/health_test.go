package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/curriculum/internal/config"
	"github.com/mrlokans/curriculum/internal/database"
	"github.com/mrlokans/curriculum/internal/logger"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()

	db, err := database.NewDatabase(config.Database{
		Driver: config.DatabaseDriverSQLite,
		Path:   filepath.Join(t.TempDir(), "http.db"),
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func getHealth(t *testing.T, controller *HealthController) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()

	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("returns healthy when database and queue answer", func(t *testing.T) {
		db := setupTestDB(t)

		w, response := getHealth(t, NewHealthController(db, newFakeQueue(), nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Equal(t, "ok", response.Checks["task_queue"])
		assert.Equal(t, "disabled", response.Checks["scheduler"])
		assert.Contains(t, response.Time, "T")
	})

	t.Run("reports missing components", func(t *testing.T) {
		w, response := getHealth(t, NewHealthController(nil, nil, nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "not configured", response.Checks["database"])
		assert.Equal(t, "disabled", response.Checks["task_queue"])
	})

	t.Run("returns unhealthy when database connection is closed", func(t *testing.T) {
		db := setupTestDB(t)
		require.NoError(t, db.Close())

		w, response := getHealth(t, NewHealthController(db, newFakeQueue(), nil, "1.0.0"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["database"], "error")
	})

	t.Run("returns unhealthy when task queue does not answer", func(t *testing.T) {
		queue := newFakeQueue()
		queue.pingErr = errors.New("database is locked")

		w, response := getHealth(t, NewHealthController(setupTestDB(t), queue, nil, "1.0.0"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "error: database is locked", response.Checks["task_queue"])
	})

	t.Run("stopped scheduler is reported but not fatal", func(t *testing.T) {
		w, response := getHealth(t, NewHealthController(setupTestDB(t), nil, &fakeScheduler{}, "1.0.0"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "stopped", response.Checks["scheduler"])
	})

	t.Run("running scheduler shows next run", func(t *testing.T) {
		next := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
		scheduler := &fakeScheduler{running: true, next: &next}

		_, response := getHealth(t, NewHealthController(setupTestDB(t), nil, scheduler, "1.0.0"))

		assert.Equal(t, "next run 2026-01-02T03:00:00Z", response.Checks["scheduler"])
	})
}
