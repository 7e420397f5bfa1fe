package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dhima/recipe-list-platform/internal/api/response"
	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	serviceName    = "recipe-list-platform"
	serviceVersion = "1.0.0"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger logging.Logger
	store  Pinger
}

// NewHealthHandler creates a new health check handler. store may be nil.
func NewHealthHandler(logger logging.Logger, store Pinger) *HealthHandler {
	return &HealthHandler{logger: logger, store: store}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Service  string `json:"service" example:"recipe-list-platform"`
	Version  string `json:"version" example:"1.0.0"`
	Database string `json:"database,omitempty" example:"ok"`
} // @name HealthResponse

// Health godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API service and its database
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Service: serviceName, Version: serviceVersion}
	if h.store == nil {
		response.OK(c, resp)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("database ping failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		response.Success(c, http.StatusServiceUnavailable, resp, "")
		return
	}

	resp.Database = "ok"
	response.OK(c, resp)
}
