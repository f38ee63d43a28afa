package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/bookscan/internal/database/books"
	"github.com/mrlokans/bookscan/internal/entities"
	"github.com/mrlokans/bookscan/internal/metadata"
)

// TriggerAPI marks enrichment runs started through the HTTP API.
const TriggerAPI = "api"

// MetadataController handles book metadata enrichment endpoints.
type MetadataController struct {
	enricher BookEnricher
	progress ProgressStore
	tasks    TaskQueue
	log      *zap.Logger
}

// NewMetadataController creates a new MetadataController.
func NewMetadataController(enricher BookEnricher, progress ProgressStore, tasks TaskQueue, log *zap.Logger) *MetadataController {
	return &MetadataController{
		enricher: enricher,
		progress: progress,
		tasks:    tasks,
		log:      log,
	}
}

// EnrichBookResponse is the response for an enrichment operation.
type EnrichBookResponse struct {
	Success       bool           `json:"success"`
	Book          *entities.Book `json:"book,omitempty"`
	FieldsUpdated []string       `json:"fields_updated"`
	Source        string         `json:"source,omitempty"`
}

// EnrichBook handles POST /api/books/:id/enrich
// It fetches metadata from OpenLibrary synchronously and updates the book.
func (mc *MetadataController) EnrichBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	result, err := mc.enricher.EnrichBook(ctx, id)
	switch {
	case errors.Is(err, books.ErrNotFound):
		respondNotFound(c, "book")
		return
	case errors.Is(err, metadata.ErrNoISBN):
		respondCodedError(c, http.StatusUnprocessableEntity, codeNoISBN, "book has no ISBN to look up")
		return
	case errors.Is(err, metadata.ErrNotFound):
		respondNotFound(c, "OpenLibrary edition")
		return
	case err != nil:
		mc.log.Warn("enrichment failed", zap.Uint("book_id", id), zap.Error(err))
		respondCodedError(c, http.StatusBadGateway, codeUpstream, "metadata lookup failed")
		return
	}

	fields := result.FieldsUpdated
	if fields == nil {
		fields = []string{}
	}
	c.JSON(http.StatusOK, EnrichBookResponse{
		Success:       true,
		Book:          result.Book,
		FieldsUpdated: fields,
		Source:        result.Source,
	})
}

// EnrichAllMissing handles POST /api/books/enrich-all
// It enqueues enrichment of every book missing metadata. Requires the task
// queue.
func (mc *MetadataController) EnrichAllMissing(c *gin.Context) {
	if mc.tasks == nil {
		respondCodedError(c, http.StatusServiceUnavailable, codeQueueDisabled, "task queue is not enabled")
		return
	}

	if mc.progress != nil {
		running, err := mc.progress.IsSyncRunning()
		if err == nil && running {
			respondCodedError(c, http.StatusConflict, codeAlreadyRunning, metadata.ErrAlreadyRunning.Error())
			return
		}
	}

	taskID, err := mc.tasks.EnqueueEnrichAll(c.Request.Context(), TriggerAPI)
	if err != nil {
		respondInternalError(c, mc.log, err, "enqueue enrich_all_books")
		return
	}
	mc.log.Info("bulk enrichment enqueued", zap.String("task_id", taskID))

	respondAccepted(c, "metadata enrichment started", gin.H{"task_id": taskID})
}

// SyncStatusResponse represents the bulk enrichment status.
type SyncStatusResponse struct {
	Running     bool       `json:"running"`
	Status      string     `json:"status,omitempty"`
	TotalItems  int        `json:"total_items"`
	Processed   int        `json:"processed"`
	Enriched    int        `json:"enriched"`
	Failed      int        `json:"failed"`
	Skipped     int        `json:"skipped"`
	CurrentItem string     `json:"current_item,omitempty"`
	Error       string     `json:"error,omitempty"`
	Progress    float64    `json:"progress"` // 0-100 percentage
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// GetSyncStatus handles GET /api/enrichment/status
func (mc *MetadataController) GetSyncStatus(c *gin.Context) {
	resp := SyncStatusResponse{}

	if mc.progress != nil {
		run, err := mc.progress.Current()
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			respondInternalError(c, mc.log, err, "enrichment status")
			return
		default:
			resp.Running = run.Status == entities.RunStatusRunning
			resp.Status = string(run.Status)
			resp.TotalItems = run.TotalBooks
			resp.Processed = run.Processed
			resp.Enriched = run.Enriched
			resp.Failed = run.Failed
			resp.Skipped = run.Skipped
			resp.CurrentItem = run.CurrentBook
			resp.Error = run.Error
			resp.CompletedAt = run.CompletedAt
			if run.TotalBooks > 0 {
				resp.Progress = float64(run.Processed) / float64(run.TotalBooks) * 100
			}
			if run.Status == entities.RunStatusCompleted {
				resp.Progress = 100
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
