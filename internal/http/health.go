package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db      Pinger
	tasks   func() bool
	version string
}

// NewHealthController creates the health endpoint. tasksRunning may be nil
// when the task queue is disabled.
func NewHealthController(db Pinger, version string, tasksRunning func() bool) *HealthController {
	return &HealthController{
		db:      db,
		tasks:   tasksRunning,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	switch {
	case h.tasks == nil:
		checks["tasks"] = "disabled"
	case h.tasks():
		checks["tasks"] = "running"
	default:
		checks["tasks"] = "stopped"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}
