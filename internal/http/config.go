package http

import "go.uber.org/zap"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. Optional dependencies may be nil; their
// routes are then not registered.
type RouterConfig struct {
	// Core dependencies
	Database Pinger
	Books    BookStore

	// Metadata enrichment (optional)
	Enricher BookEnricher
	Progress ProgressStore

	// Background task queue (optional)
	TaskClient TaskQueue

	// EnrichOnAdd enqueues enrichment for newly added books.
	EnrichOnAdd bool

	// AllowedOrigins configures CORS. Empty disables the middleware.
	AllowedOrigins []string

	// Application info
	Version string

	Logger *zap.Logger
}
