package config

const (
	// DefaultDatabasePath is the default path for the catalogue database
	DefaultDatabasePath = "./bookscan.db"

	// DefaultOpenLibraryBaseURL is the public OpenLibrary API
	DefaultOpenLibraryBaseURL = "https://openlibrary.org"
)
