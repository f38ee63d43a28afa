package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookscan/internal/entities"
	"github.com/mrlokans/bookscan/internal/metadata"
)

// Each controller depends on the narrowest interface it needs. The
// implementations live in internal/database, internal/metadata and
// internal/tasks.

// Pinger reports whether the catalogue database is reachable.
type Pinger interface {
	Ping() error
}

// BookStore is the catalogue used by the books controller.
type BookStore interface {
	Add(book *entities.Book) (*entities.Book, bool, error)
	GetBookByID(id uint) (*entities.Book, error)
	List() ([]entities.Book, error)
	FindByISBN(raw string) (*entities.Book, error)
	Delete(id uint) error
}

// BookEnricher fetches metadata for one book.
type BookEnricher interface {
	EnrichBook(ctx context.Context, bookID uint) (*metadata.EnrichmentResult, error)
}

// ProgressStore exposes the state of the bulk enrichment run.
type ProgressStore interface {
	Current() (*entities.EnrichmentRun, error)
	IsSyncRunning() (bool, error)
}

// TaskQueue enqueues background work and reports its status.
type TaskQueue interface {
	EnqueueEnrichBook(ctx context.Context, bookID uint) (string, error)
	EnqueueEnrichAll(ctx context.Context, trigger string) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
