// Package books provides database operations for the book catalogue.
//
// Books are keyed by their canonical ISBN-13 and, where one exists, ISBN-10.
// Lookups accept either form (or a scanned extended UPC) and find the same
// book.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, created, err := repo.Add(&entities.Book{ISBN: "0-13-110362-8"})
//	same, err := repo.FindByISBN("9780131103627")
package books

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/bookscan/internal/entities"
	"github.com/mrlokans/bookscan/internal/isbn"
)

// ErrNotFound is returned when no book matches.
var ErrNotFound = errors.New("book not found")

// Identifier is the canonical identity of a scanned or typed code.
type Identifier struct {
	Raw    string
	ISBN10 string // empty for 979-prefixed ISBN-13s
	ISBN13 string
	Source entities.BookSource
}

// Identify canonicalizes raw, which may be an ISBN-10, an ISBN-13 or an
// extended UPC. Separators are ignored. The error wraps isbn.ErrInvalidISBN
// when raw is none of those.
func Identify(raw string) (Identifier, error) {
	v := isbn.ParseBarcode(raw)
	if !v.Valid() {
		return Identifier{}, fmt.Errorf("identify %q: %w", raw, isbn.ErrInvalidISBN)
	}

	id := Identifier{Raw: raw, Source: entities.BookSourceISBN}
	if len(isbn.Normalize(raw)) > isbn.Length13 {
		id.Source = entities.BookSourceUPC
	}

	isbn13, err := v.To13()
	if err != nil {
		return Identifier{}, err
	}
	id.ISBN13 = isbn13

	isbn10, err := v.To10()
	switch {
	case err == nil:
		id.ISBN10 = isbn10
	case !errors.Is(err, isbn.ErrNotConvertible):
		return Identifier{}, err
	}

	return id, nil
}

// UpdateFields holds the columns that enrichment may change.
type UpdateFields map[string]any

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add stores book unless a book with a matching ISBN is already in the
// catalogue, in which case the existing book is returned and created is
// false. A non-empty book.ISBN must be a valid ISBN or extended UPC.
func (r *Repository) Add(book *entities.Book) (result *entities.Book, created bool, err error) {
	if book.ISBN == "" {
		book.Source = entities.BookSourceManual
		if err := r.db.Create(book).Error; err != nil {
			return nil, false, fmt.Errorf("create book: %w", err)
		}
		return book, true, nil
	}

	id, err := Identify(book.ISBN)
	if err != nil {
		return nil, false, err
	}

	existing, err := r.findByIdentifier(id)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	book.ISBN10 = id.ISBN10
	book.ISBN13 = id.ISBN13
	book.Source = id.Source
	if err := r.db.Create(book).Error; err != nil {
		return nil, false, fmt.Errorf("create book: %w", err)
	}
	return book, true, nil
}

// GetBookByID retrieves a book by its ID.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// List returns all books, newest first.
func (r *Repository) List() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("created_at DESC, id DESC").Find(&books).Error
	return books, err
}

// FindByISBN finds the book identified by raw in any supported format.
func (r *Repository) FindByISBN(raw string) (*entities.Book, error) {
	id, err := Identify(raw)
	if err != nil {
		return nil, err
	}
	return r.findByIdentifier(id)
}

func (r *Repository) findByIdentifier(id Identifier) (*entities.Book, error) {
	var book entities.Book
	q := r.db.Where("isbn13 = ?", id.ISBN13)
	if id.ISBN10 != "" {
		q = r.db.Where("isbn13 = ? OR isbn10 = ?", id.ISBN13, id.ISBN10)
	}
	err := q.First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("isbn %s: %w", id.ISBN13, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetBooksMissingMetadata returns books that have an ISBN but lack a title,
// cover, publisher or publication year.
func (r *Repository) GetBooksMissingMetadata() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.
		Where("isbn13 <> ''").
		Where("title = '' OR cover_url = '' OR publisher = '' OR publication_year = 0").
		Order("id ASC").
		Find(&books).Error
	return books, err
}

// UpdateMetadata applies enrichment results and stamps enriched_at.
func (r *Repository) UpdateMetadata(id uint, fields UpdateFields) error {
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["enriched_at"] = time.Now()

	result := r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a book.
func (r *Repository) Delete(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete book %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book %d: %w", id, ErrNotFound)
	}
	return nil
}
