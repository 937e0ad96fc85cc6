package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the liveness report.
type HealthResponse struct {
	Status    string    `json:"status" example:"OK"`
	Database  string    `json:"database" example:"up"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthHandler reports service liveness.
type HealthHandler struct {
	db    Pinger
	clock clockwork.Clock
}

func NewHealthHandler(db Pinger, clock clockwork.Clock) *HealthHandler {
	return &HealthHandler{db: db, clock: clock}
}

// Check godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Failure      503  {object}  HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "OK", Database: "up", Timestamp: h.clock.Now().UTC()}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "DEGRADED"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}
