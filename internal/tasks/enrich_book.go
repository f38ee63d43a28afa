package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/bookscan/internal/logging"
	"github.com/mrlokans/bookscan/internal/metadata"
)

// BookEnricher enriches a single book. *metadata.Enricher implements it.
type BookEnricher interface {
	EnrichBook(ctx context.Context, bookID uint) (*metadata.EnrichmentResult, error)
}

// EnrichBookTask enriches a single book's metadata from OpenLibrary.
type EnrichBookTask struct {
	BookID uint `json:"book_id"`
}

// Config returns the queue configuration for book enrichment tasks.
func (t EnrichBookTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_book",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichBookProcessor creates a processor function for EnrichBookTask.
func EnrichBookProcessor(enricher BookEnricher, log *zap.Logger) backlite.QueueProcessor[EnrichBookTask] {
	log = logging.OrNop(log).Named("tasks")
	return func(ctx context.Context, task EnrichBookTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		result, err := enricher.EnrichBook(ctx, task.BookID)
		if err != nil {
			return fmt.Errorf("enrich book %d: %w", task.BookID, err)
		}

		if len(result.FieldsUpdated) > 0 {
			log.Info("book enriched",
				zap.Uint("book_id", task.BookID),
				zap.Strings("fields", result.FieldsUpdated))
		} else {
			log.Info("book needs no metadata updates", zap.Uint("book_id", task.BookID))
		}

		return nil
	}
}

// NewEnrichBookQueue creates a backlite queue for book enrichment tasks.
func NewEnrichBookQueue(enricher BookEnricher, log *zap.Logger) backlite.Queue {
	return backlite.NewQueue(EnrichBookProcessor(enricher, log))
}
