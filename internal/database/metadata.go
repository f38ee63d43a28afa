package database

import (
	"github.com/mrlokans/bookscan/internal/database/books"
	"github.com/mrlokans/bookscan/internal/entities"
	"github.com/mrlokans/bookscan/internal/metadata"
)

// MetadataUpdater wraps the Database to implement metadata.BookUpdater interface.
type MetadataUpdater struct {
	books *books.Repository
}

// NewMetadataUpdater creates a MetadataUpdater wrapping the given database.
func NewMetadataUpdater(db *Database) *MetadataUpdater {
	return &MetadataUpdater{books: db.Books}
}

// GetBookByID delegates to the books repository.
func (m *MetadataUpdater) GetBookByID(id uint) (*entities.Book, error) {
	return m.books.GetBookByID(id)
}

// UpdateBookMetadata converts BookUpdateFields to column updates.
func (m *MetadataUpdater) UpdateBookMetadata(id uint, fields metadata.BookUpdateFields) error {
	if fields.Empty() {
		return nil
	}

	updates := make(books.UpdateFields)
	if fields.Title != nil {
		updates["title"] = *fields.Title
	}
	if fields.Author != nil {
		updates["author"] = *fields.Author
	}
	if fields.CoverURL != nil {
		updates["cover_url"] = *fields.CoverURL
	}
	if fields.Publisher != nil {
		updates["publisher"] = *fields.Publisher
	}
	if fields.PublicationYear != nil {
		updates["publication_year"] = *fields.PublicationYear
	}
	if fields.PageCount != nil {
		updates["page_count"] = *fields.PageCount
	}
	if fields.OpenLibraryKey != nil {
		updates["open_library_key"] = *fields.OpenLibraryKey
	}

	return m.books.UpdateMetadata(id, updates)
}

// GetBooksMissingMetadata returns books missing title, cover, publisher or year.
func (m *MetadataUpdater) GetBooksMissingMetadata() ([]entities.Book, error) {
	return m.books.GetBooksMissingMetadata()
}
