package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/dto"
	apierrors "github.com/yukikurage/task-manager/internal/errors"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/services"
	"go.uber.org/zap"
)

// TaskHandler serves the task actions that sit beside plain CRUD.
type TaskHandler struct {
	taskService *services.TaskService
	logger      *zap.SugaredLogger
}

func NewTaskHandler(taskService *services.TaskService, logger *zap.SugaredLogger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ToggleAssign assigns the current employee to the task, or unassigns them,
// then redirects to the task detail.
func (h *TaskHandler) ToggleAssign(c *gin.Context) {
	employeeID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID := middleware.GetID(c)
	if _, err := h.taskService.ToggleAssignment(c.Request.Context(), employeeID, taskID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	redirectToTask(c, taskID)
}

// ToggleCompleted flips the completion flag, then redirects to the task detail.
func (h *TaskHandler) ToggleCompleted(c *gin.Context) {
	taskID := middleware.GetID(c)
	if _, err := h.taskService.ToggleCompleted(c.Request.Context(), taskID); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	redirectToTask(c, taskID)
}

// DraftTasks extracts task drafts from free text without storing them
func (h *TaskHandler) DraftTasks(c *gin.Context) {
	var req services.DraftTasksInput
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.taskService.DraftTasks(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskDraftListResponse{Drafts: drafts})
}

// redirectToTask answers a POST with 303 so the client follows with GET.
func redirectToTask(c *gin.Context, taskID uint64) {
	code := http.StatusFound
	if c.Request.Method == http.MethodPost {
		code = http.StatusSeeOther
	}
	c.Redirect(code, fmt.Sprintf("/tasks/%d/", taskID))
}
