package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/bookscan/internal/database/books"
	"github.com/mrlokans/bookscan/internal/entities"
	"github.com/mrlokans/bookscan/internal/isbn"
)

type BooksController struct {
	store       BookStore
	tasks       TaskQueue
	enrichOnAdd bool
	log         *zap.Logger
}

func NewBooksController(store BookStore, tasks TaskQueue, enrichOnAdd bool, log *zap.Logger) *BooksController {
	return &BooksController{
		store:       store,
		tasks:       tasks,
		enrichOnAdd: enrichOnAdd,
		log:         log,
	}
}

// AddBookRequest is the body of POST /api/books. ISBN and UPC are
// alternatives; a book with neither needs a title.
type AddBookRequest struct {
	ISBN   string `json:"isbn"`
	UPC    string `json:"upc"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// AddBookResponse wraps the stored book.
type AddBookResponse struct {
	Book    *entities.Book `json:"book"`
	Created bool           `json:"created"`
	TaskID  string         `json:"task_id,omitempty"`
}

// AddBook handles POST /api/books
// Responds 201 for a new book and 200 when a book with a matching ISBN
// already exists.
func (bc *BooksController) AddBook(c *gin.Context) {
	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	code := strings.TrimSpace(req.ISBN)
	if code == "" {
		code = strings.TrimSpace(req.UPC)
	}
	if code == "" && strings.TrimSpace(req.Title) == "" {
		respondBadRequest(c, "isbn, upc or title is required")
		return
	}

	book, created, err := bc.store.Add(&entities.Book{
		ISBN:   code,
		Title:  strings.TrimSpace(req.Title),
		Author: strings.TrimSpace(req.Author),
	})
	if errors.Is(err, isbn.ErrInvalidISBN) {
		respondCodedError(c, http.StatusBadRequest, codeInvalidISBN, "not a valid ISBN or extended UPC: "+code)
		return
	}
	if err != nil {
		respondInternalError(c, bc.log, err, "add book")
		return
	}

	resp := AddBookResponse{Book: book, Created: created}
	if !created {
		c.JSON(http.StatusOK, resp)
		return
	}

	if bc.enrichOnAdd && bc.tasks != nil && book.ISBN13 != "" {
		taskID, err := bc.tasks.EnqueueEnrichBook(c.Request.Context(), book.ID)
		if err != nil {
			bc.log.Warn("failed to enqueue enrichment", zap.Uint("book_id", book.ID), zap.Error(err))
		} else {
			resp.TaskID = taskID
		}
	}

	bc.log.Info("book added",
		zap.Uint("book_id", book.ID),
		zap.String("isbn13", book.ISBN13),
		zap.String("source", string(book.Source)))
	c.JSON(http.StatusCreated, resp)
}

// ListBooks handles GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	list, err := bc.store.List()
	if err != nil {
		respondInternalError(c, bc.log, err, "list books")
		return
	}
	if list == nil {
		list = []entities.Book{}
	}
	c.JSON(http.StatusOK, gin.H{"books": list, "total": len(list)})
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if errors.Is(err, books.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, bc.log, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// LookupBook handles GET /api/books/lookup?isbn=
// The code may be an ISBN-10, ISBN-13 or extended UPC.
func (bc *BooksController) LookupBook(c *gin.Context) {
	raw, ok := requireQuery(c, "isbn")
	if !ok {
		return
	}

	book, err := bc.store.FindByISBN(raw)
	switch {
	case errors.Is(err, isbn.ErrInvalidISBN):
		respondCodedError(c, http.StatusBadRequest, codeInvalidISBN, "not a valid ISBN or extended UPC: "+raw)
	case errors.Is(err, books.ErrNotFound):
		respondNotFound(c, "book")
	case err != nil:
		respondInternalError(c, bc.log, err, "lookup book")
	default:
		c.JSON(http.StatusOK, book)
	}
}

// DeleteBook handles DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.store.Delete(id)
	if errors.Is(err, books.ErrNotFound) {
		respondNotFound(c, "book")
		return
	}
	if err != nil {
		respondInternalError(c, bc.log, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted")
}
