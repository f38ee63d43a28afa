package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookscan/internal/entities"
)

func newBooksRouter(t *testing.T, queue *fakeTaskQueue) *gin.Engine {
	t.Helper()
	db := setupTestDB(t)
	cfg := RouterConfig{Database: db, Books: db.Books, EnrichOnAdd: true}
	if queue != nil {
		cfg.TaskClient = queue
	}
	return NewRouter(cfg)
}

func TestBooksController_AddBook(t *testing.T) {
	queue := &fakeTaskQueue{}
	router := newBooksRouter(t, queue)

	w := doRequest(router, "POST", "/api/books", AddBookRequest{ISBN: "0-13-110362-8", Title: "The C Programming Language"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode[AddBookResponse](t, w)
	assert.True(t, created.Created)
	assert.Equal(t, "9780131103627", created.Book.ISBN13)
	assert.Equal(t, "0131103628", created.Book.ISBN10)
	assert.Equal(t, entities.BookSourceISBN, created.Book.Source)
	assert.Equal(t, "book-task", created.TaskID)
	assert.Equal(t, []uint{created.Book.ID}, queue.books)

	t.Run("existing book in the other format", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/books", AddBookRequest{ISBN: "9780131103627"})
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[AddBookResponse](t, w)
		assert.False(t, resp.Created)
		assert.Equal(t, created.Book.ID, resp.Book.ID)
		assert.Empty(t, resp.TaskID)
		assert.Len(t, queue.books, 1)
	})

	t.Run("scanned UPC", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/books", AddBookRequest{UPC: "0 70999 00225 5 30054"})
		assert.Equal(t, http.StatusCreated, w.Code)

		resp := decode[AddBookResponse](t, w)
		assert.Equal(t, entities.BookSourceUPC, resp.Book.Source)
		assert.Equal(t, "0345300548", resp.Book.ISBN10)
	})

	t.Run("manual entry is not enriched", func(t *testing.T) {
		before := len(queue.books)
		w := doRequest(router, "POST", "/api/books", AddBookRequest{Title: "Field notes"})
		assert.Equal(t, http.StatusCreated, w.Code)

		resp := decode[AddBookResponse](t, w)
		assert.Equal(t, entities.BookSourceManual, resp.Book.Source)
		assert.Len(t, queue.books, before)
	})

	t.Run("invalid isbn", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/books", AddBookRequest{ISBN: "0131103629"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, codeInvalidISBN, decode[ErrorResponse](t, w).Code)
	})

	t.Run("empty request", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/books", AddBookRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/books", "not an object")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBooksController_AddBook_QueueFailureStillCreates(t *testing.T) {
	router := newBooksRouter(t, &fakeTaskQueue{err: errors.New("queue closed")})

	w := doRequest(router, "POST", "/api/books", AddBookRequest{ISBN: "9780134685991"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, decode[AddBookResponse](t, w).TaskID)
}

func TestBooksController_AddBook_WithoutQueue(t *testing.T) {
	router := newBooksRouter(t, nil)

	w := doRequest(router, "POST", "/api/books", AddBookRequest{ISBN: "9780134685991"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, decode[AddBookResponse](t, w).TaskID)
}

func TestBooksController_ReadAndDelete(t *testing.T) {
	router := newBooksRouter(t, nil)

	w := doRequest(router, "GET", "/api/books", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"books":[],"total":0}`, w.Body.String())

	w = doRequest(router, "POST", "/api/books", AddBookRequest{ISBN: "0345300548"})
	require.Equal(t, http.StatusCreated, w.Code)
	book := decode[AddBookResponse](t, w).Book

	t.Run("list", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/books", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		resp := decode[struct {
			Books []entities.Book `json:"books"`
			Total int             `json:"total"`
		}](t, w)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, book.ID, resp.Books[0].ID)
	})

	t.Run("get by id", func(t *testing.T) {
		w := doRequest(router, "GET", fmt.Sprintf("/api/books/%d", book.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "9780345300546", decode[entities.Book](t, w).ISBN13)

		w = doRequest(router, "GET", "/api/books/999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doRequest(router, "GET", "/api/books/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lookup", func(t *testing.T) {
		for _, code := range []string{"9780345300546", "0345300548", "07099900225530054"} {
			w := doRequest(router, "GET", "/api/books/lookup?isbn="+code, nil)
			assert.Equal(t, http.StatusOK, w.Code, code)
			assert.Equal(t, book.ID, decode[entities.Book](t, w).ID)
		}

		w := doRequest(router, "GET", "/api/books/lookup?isbn=9780134685991", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doRequest(router, "GET", "/api/books/lookup?isbn=garbage", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doRequest(router, "GET", "/api/books/lookup", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/books/%d", book.ID)

		w := doRequest(router, "DELETE", path, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doRequest(router, "DELETE", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doRequest(router, "GET", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
