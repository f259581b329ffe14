package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/dto"
	"github.com/yukikurage/task-manager/internal/services"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	logger           *zap.SugaredLogger
}

func NewDashboardHandler(dashboardService *services.DashboardService, logger *zap.SugaredLogger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Index returns the employee and task counts
func (h *DashboardHandler) Index(c *gin.Context) {
	dashboard, err := h.dashboardService.Get(c.Request.Context())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDashboardDTO(*dashboard))
}

// Health reports liveness. ping checks the database; a failure answers 503.
func Health(ping func(ctx context.Context) error, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ping(c.Request.Context()); err != nil {
			logger.Warnw("health check failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"message": "Database is unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Manager is running",
		})
	}
}
