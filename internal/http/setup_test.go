package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookscan/internal/database"
	"github.com/mrlokans/bookscan/internal/entities"
	"github.com/mrlokans/bookscan/internal/metadata"
)

func setupTestDB(t *testing.T) *database.Database {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "bookscan.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type fakeTaskQueue struct {
	mu       sync.Mutex
	books    []uint
	triggers []string
	statuses map[string]backlite.TaskStatus
	err      error
}

func (f *fakeTaskQueue) EnqueueEnrichBook(ctx context.Context, bookID uint) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.books = append(f.books, bookID)
	return "book-task", nil
}

func (f *fakeTaskQueue) EnqueueEnrichAll(ctx context.Context, trigger string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.triggers = append(f.triggers, trigger)
	return "all-task", nil
}

func (f *fakeTaskQueue) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	if f.err != nil {
		return 0, f.err
	}
	status, ok := f.statuses[taskID]
	if !ok {
		return backlite.TaskStatusNotFound, nil
	}
	return status, nil
}

type fakeEnricher struct {
	result *metadata.EnrichmentResult
	err    error
}

func (f *fakeEnricher) EnrichBook(ctx context.Context, bookID uint) (*metadata.EnrichmentResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeProgress struct {
	run     *entities.EnrichmentRun
	err     error
	running bool
}

func (f *fakeProgress) Current() (*entities.EnrichmentRun, error) {
	return f.run, f.err
}

func (f *fakeProgress) IsSyncRunning() (bool, error) {
	return f.running, nil
}

type failingPinger struct{}

func (failingPinger) Ping() error { return errors.New("database is locked") }
