package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check values reported in HealthResponse.Checks.
const (
	checkOK            = "ok"
	checkDisabled      = "disabled"
	checkNotConfigured = "not configured"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController reports whether the catalogue database answers. A
// disabled task queue is reported but does not make the service unhealthy.
type HealthController struct {
	db        Pinger
	tasks     TaskQueue
	version   string
	startedAt time.Time
}

func NewHealthController(db Pinger, tasks TaskQueue, version string) *HealthController {
	return &HealthController{
		db:        db,
		tasks:     tasks,
		version:   version,
		startedAt: time.Now(),
	}
}

func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Uptime:  time.Since(h.startedAt).Truncate(time.Second).String(),
		Version: h.version,
		Checks:  map[string]string{},
	}

	switch {
	case h.db == nil:
		resp.Checks["database"] = checkNotConfigured
	default:
		if err := h.db.Ping(); err != nil {
			resp.Checks["database"] = "error: " + err.Error()
			resp.Status = "unhealthy"
		} else {
			resp.Checks["database"] = checkOK
		}
	}

	resp.Checks["task_queue"] = checkDisabled
	if h.tasks != nil {
		resp.Checks["task_queue"] = checkOK
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
