package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookscan/internal/config"
	"github.com/mrlokans/bookscan/internal/entities"
	"github.com/mrlokans/bookscan/internal/metadata"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "bookscan-tasks.db"), TasksDBPath(filepath.Join("data", "bookscan.db")))
	assert.Equal(t, "catalogue-tasks", TasksDBPath("catalogue"))
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	client, err := NewClient(dbPath, DefaultConfig(), nil)
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestStopWithoutStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type stubEnricher struct {
	bookIDs chan uint
	bulk    chan struct{}
	err     error
}

func (s *stubEnricher) EnrichBook(ctx context.Context, bookID uint) (*metadata.EnrichmentResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.bookIDs <- bookID
	return &metadata.EnrichmentResult{Book: &entities.Book{ID: bookID}, FieldsUpdated: []string{"title"}}, nil
}

func (s *stubEnricher) EnrichAllMissing(ctx context.Context) (*metadata.BulkEnrichmentResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.bulk <- struct{}{}
	return &metadata.BulkEnrichmentResult{TotalBooks: 1, Enriched: 1}, nil
}

func TestEnrichTasksRunThroughQueue(t *testing.T) {
	client := newTestClient(t)
	enricher := &stubEnricher{bookIDs: make(chan uint, 1), bulk: make(chan struct{}, 1)}
	client.Register(NewEnrichBookQueue(enricher, nil), NewEnrichAllBooksQueue(enricher, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(EnrichBookTask{BookID: 7}, EnrichAllBooksTask{Trigger: "api"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	select {
	case id := <-enricher.bookIDs:
		assert.Equal(t, uint(7), id)
	case <-time.After(5 * time.Second):
		t.Fatal("enrich_book task was not executed within timeout")
	}

	select {
	case <-enricher.bulk:
	case <-time.After(5 * time.Second):
		t.Fatal("enrich_all_books task was not executed within timeout")
	}
}

func TestEnrichBookProcessor(t *testing.T) {
	t.Run("wraps enricher errors", func(t *testing.T) {
		process := EnrichBookProcessor(&stubEnricher{err: metadata.ErrNoISBN}, nil)
		err := process(context.Background(), EnrichBookTask{BookID: 3})
		assert.ErrorIs(t, err, metadata.ErrNoISBN)
	})

	t.Run("nil enricher", func(t *testing.T) {
		process := EnrichBookProcessor(nil, nil)
		assert.Error(t, process(context.Background(), EnrichBookTask{BookID: 3}))
	})
}

func TestEnrichAllBooksProcessor(t *testing.T) {
	t.Run("already running is not a failure", func(t *testing.T) {
		process := EnrichAllBooksProcessor(&stubEnricher{err: metadata.ErrAlreadyRunning}, nil)
		assert.NoError(t, process(context.Background(), EnrichAllBooksTask{}))
	})

	t.Run("other errors fail the task", func(t *testing.T) {
		process := EnrichAllBooksProcessor(&stubEnricher{err: errors.New("db locked")}, nil)
		assert.ErrorContains(t, process(context.Background(), EnrichAllBooksTask{}), "db locked")
	})
}

func TestEnrichBookTaskConfig(t *testing.T) {
	cfg := EnrichBookTask{BookID: 123}.Config()

	assert.Equal(t, "enrich_book", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Backoff)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.NotNil(t, cfg.Retention)
}

func TestEnrichAllBooksTaskConfig(t *testing.T) {
	cfg := EnrichAllBooksTask{Trigger: "schedule"}.Config()

	assert.Equal(t, "enrich_all_books", cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 60*time.Minute, cfg.Timeout)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Minute, cfg.RetryDelay)
	assert.Equal(t, 5*time.Minute, cfg.TaskTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 24*time.Hour, cfg.RetentionDuration)
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.Tasks{Workers: 4, ReleaseAfter: time.Minute})

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

var _ backlite.Task = EnrichBookTask{}

func TestEnqueueHelpers(t *testing.T) {
	client := newTestClient(t)
	client.Register(NewEnrichBookQueue(nil, nil), NewEnrichAllBooksQueue(nil, nil))
	ctx := context.Background()

	bookTaskID, err := client.EnqueueEnrichBook(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, bookTaskID)

	allTaskID, err := client.EnqueueEnrichAll(ctx, "cli")
	require.NoError(t, err)
	assert.NotEqual(t, bookTaskID, allTaskID)

	status, err := client.Status(ctx, bookTaskID)
	require.NoError(t, err)
	assert.Equal(t, backlite.TaskStatusPending, status)
}
