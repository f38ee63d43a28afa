package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/bookscan/internal/logging"
	"github.com/mrlokans/bookscan/internal/metadata"
)

// BulkEnricher enriches every book missing metadata. *metadata.Enricher
// implements it.
type BulkEnricher interface {
	EnrichAllMissing(ctx context.Context) (*metadata.BulkEnrichmentResult, error)
}

// EnrichAllBooksTask triggers enrichment for all books missing metadata.
// Books are processed sequentially so progress can be reported.
type EnrichAllBooksTask struct {
	// Trigger records what enqueued the run: "api", "schedule" or "cli".
	Trigger string `json:"trigger,omitempty"`
}

// Config returns the queue configuration for bulk enrichment tasks.
func (t EnrichAllBooksTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_all_books",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     60 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichAllBooksProcessor creates a processor function for EnrichAllBooksTask.
// A run that finds another one in progress succeeds without doing anything.
func EnrichAllBooksProcessor(enricher BulkEnricher, log *zap.Logger) backlite.QueueProcessor[EnrichAllBooksTask] {
	log = logging.OrNop(log).Named("tasks")
	return func(ctx context.Context, task EnrichAllBooksTask) error {
		if enricher == nil {
			return fmt.Errorf("enricher not configured")
		}

		result, err := enricher.EnrichAllMissing(ctx)
		if errors.Is(err, metadata.ErrAlreadyRunning) {
			log.Info("bulk enrichment already running, skipping", zap.String("trigger", task.Trigger))
			return nil
		}
		if err != nil {
			return fmt.Errorf("enrich all books: %w", err)
		}

		log.Info("bulk enrichment complete",
			zap.String("trigger", task.Trigger),
			zap.Int("total", result.TotalBooks),
			zap.Int("enriched", result.Enriched),
			zap.Int("skipped", result.Skipped),
			zap.Int("failed", result.Failed))

		return nil
	}
}

// NewEnrichAllBooksQueue creates a backlite queue for bulk enrichment tasks.
func NewEnrichAllBooksQueue(enricher BulkEnricher, log *zap.Logger) backlite.Queue {
	return backlite.NewQueue(EnrichAllBooksProcessor(enricher, log))
}
