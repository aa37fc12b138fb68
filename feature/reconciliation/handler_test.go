package reconciliation

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"order-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, svc *Service) *fiber.App {
	t.Helper()
	app := fiber.New()
	NewHandler(svc, zap.NewNop()).RegisterRoutes(app)
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHandleTriggerRun(t *testing.T) {
	svc := NewService(&fakeRunner{report: sampleReport("run-1", time.Now())}, &fakeCache{}, nil, nil, nil, nil)
	app := setupTestApp(t, svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/runs", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "run-1", body["id"])
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(3), summary["total"])
}

func TestHandleTriggerRun_Aborted(t *testing.T) {
	report := sampleReport("run-1", time.Now())
	svc := NewService(&fakeRunner{report: report, err: errors.New("pos authentication failed")}, &fakeCache{}, nil, nil, nil, nil)
	app := setupTestApp(t, svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/runs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "pos authentication failed", body["error"])
	assert.NotNil(t, body["report"])
}

func TestHandleTriggerRun_Conflict(t *testing.T) {
	runner := &fakeRunner{report: sampleReport("run-1", time.Now()), block: make(chan struct{})}
	svc := NewService(runner, &fakeCache{}, nil, nil, nil, nil)
	app := setupTestApp(t, svc)

	go svc.Run(t.Context())
	require.Eventually(t, svc.Running, time.Second, 5*time.Millisecond)
	defer close(runner.block)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/runs", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestHandleListRuns(t *testing.T) {
	history := NewMemoryHistory(10)
	for _, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, history.Save(t.Context(), sampleReport(id, time.Now()), nil))
	}
	app := setupTestApp(t, NewService(&fakeRunner{}, &fakeCache{}, history, nil, nil, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs?limit=2", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	runs := decodeBody(t, resp.Body)["runs"].([]any)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].(map[string]any)["id"])
}

func TestHandleListRuns_Empty(t *testing.T) {
	app := setupTestApp(t, NewService(&fakeRunner{}, &fakeCache{}, nil, nil, nil, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []any{}, decodeBody(t, resp.Body)["runs"])
}

func TestHandleGetRun(t *testing.T) {
	j := newTestJournal(t)
	require.NoError(t, j.Save(t.Context(), sampleReport("run-1", time.Now()), nil))
	app := setupTestApp(t, NewService(&fakeRunner{}, &fakeCache{}, nil, j, nil, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs/run-1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "run-1", body["id"])
	assert.Len(t, body["outcomes"], 3)

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/runs/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleGetArchivedReport(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		app := setupTestApp(t, NewService(&fakeRunner{}, &fakeCache{}, nil, nil, nil, nil))

		resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs/run-1/report", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("Found", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "archive", "p/runs/run-1.json", mock.Anything).
			Return(io.NopCloser(strings.NewReader(`{"id":"run-1"}`)), nil)
		archive := NewArchiver(client, "archive", "p", nil)
		app := setupTestApp(t, NewService(&fakeRunner{}, &fakeCache{}, nil, nil, archive, nil))

		resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs/run-1/report", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.Equal(t, "run-1", decodeBody(t, resp.Body)["id"])
	})

	t.Run("StorageError", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "archive", mock.Anything, mock.Anything).Return(nil, assert.AnError)
		archive := NewArchiver(client, "archive", "p", nil)
		app := setupTestApp(t, NewService(&fakeRunner{}, &fakeCache{}, nil, nil, archive, nil))

		resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs/run-1/report", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	})
}

func TestHandleCache(t *testing.T) {
	app := setupTestApp(t, NewService(&fakeRunner{}, &fakeCache{entries: []string{"A1", "B2"}}, nil, nil, nil, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/cache", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, []any{"A1", "B2"}, body["entries"])
	assert.Equal(t, "data/shipped-orders.json", body["path"])
}

func TestHandleCache_Error(t *testing.T) {
	app := setupTestApp(t, NewService(&fakeRunner{}, &fakeCache{err: assert.AnError}, nil, nil, nil, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/cache", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestHandleHealth(t *testing.T) {
	app := setupTestApp(t, NewService(&fakeRunner{}, &fakeCache{}, nil, nil, nil, nil))
	resp, err := app.Test(httptest.NewRequest("GET", "/sync/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody(t, resp.Body)["status"])

	app = setupTestApp(t, NewService(&fakeRunner{}, &fakeCache{}, nil, NewJournal(newSQLiteDB(t)), nil, nil))
	resp, err = app.Test(httptest.NewRequest("GET", "/sync/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
