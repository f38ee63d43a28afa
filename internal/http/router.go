package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookscan/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := logging.OrNop(cfg.Logger).Named("http")

	router := gin.New()
	router.Use(requestID())
	router.Use(requestLogger(log))
	router.Use(recovery(log))

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.AllowedOrigins,
			AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Length", "Content-Type", RequestIDHeader},
			ExposeHeaders: []string{"Content-Length", RequestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	health := NewHealthController(cfg.Database, cfg.TaskClient, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	isbnController := NewISBNController()
	router.GET("/api/isbn/validate", isbnController.Validate)
	router.GET("/api/isbn/convert", isbnController.Convert)
	router.GET("/api/isbn/match", isbnController.Match)
	router.GET("/api/isbn/upc", isbnController.FromUPC)

	if cfg.Books != nil {
		booksController := NewBooksController(cfg.Books, cfg.TaskClient, cfg.EnrichOnAdd, log)
		router.POST("/api/books", booksController.AddBook)
		router.GET("/api/books", booksController.ListBooks)
		router.GET("/api/books/lookup", booksController.LookupBook)
		router.GET("/api/books/:id", booksController.GetBook)
		router.DELETE("/api/books/:id", booksController.DeleteBook)
	}

	if cfg.Enricher != nil {
		metadataController := NewMetadataController(cfg.Enricher, cfg.Progress, cfg.TaskClient, log)
		router.POST("/api/books/:id/enrich", metadataController.EnrichBook)
		router.POST("/api/books/enrich-all", metadataController.EnrichAllMissing)
		router.GET("/api/enrichment/status", metadataController.GetSyncStatus)
	}

	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient, log)
		router.GET("/api/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
