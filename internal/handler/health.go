package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stashbox/backend/internal/logging"
	"github.com/stashbox/backend/internal/model"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} model.PingResponse
// @Router /ping [get]
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

// Root godoc
// @Summary Service banner
// @Tags health
// @Produce json
// @Success 200 {object} model.RootResponse
// @Router / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Status:  "ok",
		Message: "stashbox API server is running",
	})
}

// Healthz godoc
// @Summary Readiness check
// @Description Fails with 503 when the database cannot be reached.
// @Tags health
// @Produce json
// @Success 200 {object} model.StatusResponse
// @Failure 503 {object} model.StatusResponse
// @Router /healthz [get]
func Healthz(store Pinger, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			log.Warn(ctx, "readiness check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, model.StatusResponse{Status: "unavailable"})
			return
		}
		c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
	}
}
