package metadata

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/bookscan/internal/entities"
	"github.com/mrlokans/bookscan/internal/logging"
)

var (
	// ErrNoISBN is returned when enriching a book that has no usable ISBN.
	ErrNoISBN = errors.New("book has no ISBN")
	// ErrAlreadyRunning is returned when a bulk enrichment is in progress.
	ErrAlreadyRunning = errors.New("metadata enrichment is already in progress")
)

// MetadataProvider fetches book metadata by ISBN.
type MetadataProvider interface {
	SearchByISBN(ctx context.Context, isbn string) (*BookMetadata, error)
}

// BookUpdater defines the interface for updating books in the database.
type BookUpdater interface {
	GetBookByID(id uint) (*entities.Book, error)
	UpdateBookMetadata(id uint, metadata BookUpdateFields) error
	GetBooksMissingMetadata() ([]entities.Book, error)
}

// ProgressReporter reports bulk enrichment progress.
type ProgressReporter interface {
	StartSync(totalItems int) error
	UpdateProgress(processed, succeeded, failed, skipped int, currentItem string) error
	CompleteSync(succeeded bool, errorMsg string) error
	IsSyncRunning() (bool, error)
}

// BookUpdateFields contains the fields that can be updated via enrichment.
// Nil fields are left untouched.
type BookUpdateFields struct {
	Title           *string
	Author          *string
	CoverURL        *string
	Publisher       *string
	PublicationYear *int
	PageCount       *int
	OpenLibraryKey  *string
}

// Empty reports whether no field is set.
func (f BookUpdateFields) Empty() bool {
	return f.Title == nil && f.Author == nil && f.CoverURL == nil &&
		f.Publisher == nil && f.PublicationYear == nil && f.PageCount == nil &&
		f.OpenLibraryKey == nil
}

// EnrichmentResult contains the result of an enrichment operation.
type EnrichmentResult struct {
	Book          *entities.Book `json:"book"`
	FieldsUpdated []string       `json:"fields_updated"`
	Source        string         `json:"source"`
}

// Enricher handles book metadata enrichment from external sources.
type Enricher struct {
	provider         MetadataProvider
	db               BookUpdater
	progressReporter ProgressReporter
	log              *zap.Logger
}

// NewEnricher creates a new Enricher with the given metadata provider and database.
func NewEnricher(provider MetadataProvider, db BookUpdater, log *zap.Logger) *Enricher {
	return &Enricher{
		provider: provider,
		db:       db,
		log:      logging.OrNop(log).Named("enricher"),
	}
}

// SetProgressReporter sets the progress reporter for bulk operations (optional).
func (e *Enricher) SetProgressReporter(reporter ProgressReporter) {
	e.progressReporter = reporter
}

// EnrichBook fetches metadata for a book by its canonical ISBN-13 and fills
// in the fields the book is missing.
func (e *Enricher) EnrichBook(ctx context.Context, bookID uint) (*EnrichmentResult, error) {
	book, err := e.db.GetBookByID(bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	code := book.ISBN13
	if code == "" {
		code = book.ISBN10
	}
	if code == "" {
		return nil, fmt.Errorf("book %d: %w", bookID, ErrNoISBN)
	}

	metadata, err := e.provider.SearchByISBN(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("metadata search failed: %w", err)
	}

	updates, fieldsUpdated := e.buildUpdates(book, metadata)

	if len(fieldsUpdated) > 0 {
		if err := e.db.UpdateBookMetadata(bookID, updates); err != nil {
			return nil, fmt.Errorf("update book metadata: %w", err)
		}

		book, err = e.db.GetBookByID(bookID)
		if err != nil {
			return nil, fmt.Errorf("refresh book: %w", err)
		}
	}

	e.log.Info("book enriched",
		zap.Uint("book_id", bookID),
		zap.String("isbn", code),
		zap.Strings("fields", fieldsUpdated),
	)

	return &EnrichmentResult{
		Book:          book,
		FieldsUpdated: fieldsUpdated,
		Source:        "openlibrary",
	}, nil
}

// BulkEnrichmentResult contains the summary of a bulk enrichment operation.
type BulkEnrichmentResult struct {
	TotalBooks int      `json:"total_books"`
	Enriched   int      `json:"enriched"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	Errors     []string `json:"errors,omitempty"`
}

// EnrichAllMissing enriches every book that has an ISBN but lacks a title,
// cover, publisher or publication year.
func (e *Enricher) EnrichAllMissing(ctx context.Context) (*BulkEnrichmentResult, error) {
	if e.progressReporter != nil {
		running, err := e.progressReporter.IsSyncRunning()
		if err != nil {
			return nil, fmt.Errorf("check sync status: %w", err)
		}
		if running {
			return nil, ErrAlreadyRunning
		}
	}

	books, err := e.db.GetBooksMissingMetadata()
	if err != nil {
		return nil, fmt.Errorf("get books missing metadata: %w", err)
	}

	result := &BulkEnrichmentResult{
		TotalBooks: len(books),
	}

	if e.progressReporter != nil {
		if err := e.progressReporter.StartSync(len(books)); err != nil {
			return nil, fmt.Errorf("start sync progress: %w", err)
		}
	}

	for i, book := range books {
		select {
		case <-ctx.Done():
			result.Errors = append(result.Errors, "operation cancelled")
			if e.progressReporter != nil {
				_ = e.progressReporter.CompleteSync(false, "operation cancelled")
			}
			return result, ctx.Err()
		default:
		}

		if e.progressReporter != nil {
			_ = e.progressReporter.UpdateProgress(
				i,
				result.Enriched,
				result.Failed,
				result.Skipped,
				book.ISBN13,
			)
		}

		enrichResult, err := e.EnrichBook(ctx, book.ID)
		if err != nil {
			e.log.Warn("enrichment failed", zap.Uint("book_id", book.ID), zap.Error(err))
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", book.ISBN13, err))
			continue
		}

		if len(enrichResult.FieldsUpdated) > 0 {
			result.Enriched++
		} else {
			result.Skipped++
		}
	}

	if e.progressReporter != nil {
		errorMsg := ""
		if len(result.Errors) > 0 {
			errorMsg = fmt.Sprintf("%d errors occurred", len(result.Errors))
		}
		_ = e.progressReporter.CompleteSync(result.Failed == 0, errorMsg)
	}

	e.log.Info("bulk enrichment finished",
		zap.Int("total", result.TotalBooks),
		zap.Int("enriched", result.Enriched),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)

	return result, nil
}

// buildUpdates returns only the fields the book is missing. Values the user
// entered are never overwritten.
func (e *Enricher) buildUpdates(book *entities.Book, metadata *BookMetadata) (BookUpdateFields, []string) {
	var updates BookUpdateFields
	var fieldsUpdated []string

	if book.Title == "" && metadata.Title != "" {
		updates.Title = &metadata.Title
		fieldsUpdated = append(fieldsUpdated, "title")
	}

	if book.Author == "" && metadata.Author != "" {
		updates.Author = &metadata.Author
		fieldsUpdated = append(fieldsUpdated, "author")
	}

	if book.CoverURL == "" && metadata.CoverURL != "" {
		updates.CoverURL = &metadata.CoverURL
		fieldsUpdated = append(fieldsUpdated, "cover_url")
	}

	if book.Publisher == "" && metadata.Publisher != "" {
		updates.Publisher = &metadata.Publisher
		fieldsUpdated = append(fieldsUpdated, "publisher")
	}

	if book.PublicationYear == 0 && metadata.PublicationYear > 0 {
		updates.PublicationYear = &metadata.PublicationYear
		fieldsUpdated = append(fieldsUpdated, "publication_year")
	}

	if book.PageCount == 0 && metadata.PageCount > 0 {
		updates.PageCount = &metadata.PageCount
		fieldsUpdated = append(fieldsUpdated, "page_count")
	}

	if book.OpenLibraryKey == "" && metadata.OpenLibraryKey != "" {
		updates.OpenLibraryKey = &metadata.OpenLibraryKey
		fieldsUpdated = append(fieldsUpdated, "open_library_key")
	}

	return updates, fieldsUpdated
}
