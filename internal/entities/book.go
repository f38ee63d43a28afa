package entities

import (
	"time"

	"gorm.io/gorm"
)

// BookSource records how a book entered the catalogue.
type BookSource string

const (
	BookSourceISBN   BookSource = "isbn"   // typed or scanned ISBN-10/13
	BookSourceUPC    BookSource = "upc"    // reconstructed from an extended UPC
	BookSourceManual BookSource = "manual" // no usable identifier
)

type Book struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"index;size:512" json:"title"`
	Author          string         `gorm:"index;size:256" json:"author"`
	ISBN            string         `gorm:"size:32" json:"isbn,omitempty"` // as entered
	ISBN10          string         `gorm:"index;size:10" json:"isbn10,omitempty"`
	ISBN13          string         `gorm:"index;size:13" json:"isbn13,omitempty"`
	Source          BookSource     `gorm:"size:20" json:"source"`
	CoverURL        string         `gorm:"size:2048" json:"cover_url,omitempty"`
	Publisher       string         `gorm:"size:256" json:"publisher,omitempty"`
	PublicationYear int            `json:"publication_year,omitempty"`
	PageCount       int            `json:"page_count,omitempty"`
	OpenLibraryKey  string         `gorm:"size:64" json:"open_library_key,omitempty"`
	EnrichedAt      *time.Time     `json:"enriched_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// MissingMetadata reports whether any field filled by enrichment is empty.
func (b *Book) MissingMetadata() bool {
	return b.Title == "" || b.CoverURL == "" || b.Publisher == "" || b.PublicationYear == 0
}
