package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
)

func TestNewRouter_OptionalRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(RouterConfig{})

	assert.Equal(t, http.StatusNotFound, doRequest(router, "GET", "/api/books", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, "POST", "/api/books/1/enrich", nil).Code)
	assert.Equal(t, http.StatusNotFound, doRequest(router, "GET", "/api/tasks/abc", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, "GET", "/ping", nil).Code)
}

func TestNewRouter_CORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(RouterConfig{AllowedOrigins: []string{"https://scanner.example"}})

	req := httptest.NewRequest("OPTIONS", "/api/isbn/validate", nil)
	req.Header.Set("Origin", "https://scanner.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://scanner.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/api/isbn/validate?isbn=0131103628", nil)
	req.Header.Set("Origin", "https://elsewhere.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTasksController_GetTaskStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	queue := &fakeTaskQueue{statuses: map[string]backlite.TaskStatus{
		"t1": backlite.TaskStatusPending,
		"t2": backlite.TaskStatusSuccess,
	}}
	router := NewRouter(RouterConfig{TaskClient: queue})

	w := doRequest(router, "GET", "/api/tasks/t1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"t1","status":"pending"}`, w.Body.String())

	w = doRequest(router, "GET", "/api/tasks/t2", nil)
	assert.JSONEq(t, `{"id":"t2","status":"success"}`, w.Body.String())

	w = doRequest(router, "GET", "/api/tasks/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	router = NewRouter(RouterConfig{TaskClient: &fakeTaskQueue{err: errors.New("closed")}})
	w = doRequest(router, "GET", "/api/tasks/t1", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(RouterConfig{})
	router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := doRequest(router, "GET", "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode[ErrorResponse](t, w).Error)
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(RouterConfig{})

	w := doRequest(router, "GET", "/ping", nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "scan-42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "scan-42", w.Header().Get(RequestIDHeader))
}
