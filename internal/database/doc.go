// Package database provides the data access layer for the catalogue.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── metadata.go      # Adapter used by the metadata enricher
//	├── books/           # Book CRUD and ISBN lookups
//	└── progress/        # Bulk enrichment run tracking
//
// # Using Sub-packages
//
// Database wires one Repository per sub-package:
//
//	db, err := database.NewDatabase("./bookscan.db", logger)
//
//	book, created, err := db.Books.Add(&entities.Book{ISBN: "0-13-110362-8"})
//	found, err := db.Books.FindByISBN("9780131103627") // same book
//
// Books are stored with both ISBN forms when one exists, so a lookup by
// either form, or by the extended UPC printed on older mass-market
// paperbacks, finds the same row.
//
// # Interface Implementations
//
//   - books.Repository: implements http.BookStore
//   - progress.Repository: implements metadata.ProgressReporter and http.ProgressStore
//   - MetadataUpdater: implements metadata.BookUpdater
package database
