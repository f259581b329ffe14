package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/services"
	"go.uber.org/zap"
)

// respondServiceError maps a service error onto the API error envelope.
// Unexpected errors are logged and hidden behind a generic 500.
func respondServiceError(c *gin.Context, log *zap.SugaredLogger, err error) {
	var verr *services.ValidationError

	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, "Validation failed", verr.Fields)
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrDraftingNotConfigured):
		apierrors.ServiceUnavailable(c, "Task drafting is not configured")
	case errors.Is(err, services.ErrDraftingFailed):
		log.Warnw("task drafting failed", "path", c.FullPath(), "error", err)
		apierrors.BadGateway(c, "Task drafting failed")
	default:
		log.Errorw("request failed", "path", c.FullPath(), "method", c.Request.Method, "error", err)
		apierrors.InternalError(c, "")
	}
}
