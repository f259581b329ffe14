package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-manager/internal/dto"
	"github.com/yukikurage/task-manager/internal/metrics"
	"github.com/yukikurage/task-manager/internal/middleware"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/services"
	"go.uber.org/zap"
)

// Services bundles what the routes depend on.
type Services struct {
	Auth      *services.AuthService
	Position  *services.PositionService
	TaskType  *services.TaskTypeService
	Employee  *services.EmployeeService
	Task      *services.TaskService
	Dashboard *services.DashboardService
}

// RouterConfig holds the non-service settings of the routes.
type RouterConfig struct {
	LoginURL string
	// Ping backs /health.
	Ping func(ctx context.Context) error
	// ServeMetrics mounts /metrics on this router.
	ServeMetrics bool
}

// RegisterRoutes mounts every route on r. Session middleware must already be
// installed on r.
func RegisterRoutes(r *gin.Engine, svc Services, cfg RouterConfig, logger *zap.SugaredLogger) {
	r.GET("/health", Health(cfg.Ping, logger))
	if cfg.ServeMetrics {
		r.GET("/metrics", metrics.Handler())
	}

	authHandler := NewAuthHandler(svc.Auth, logger)
	requireAuth := middleware.RequireAuth(svc.Auth, cfg.LoginURL, logger)

	accounts := r.Group("/accounts")
	{
		accounts.GET("/login/", authHandler.LoginPage)
		accounts.POST("/login/", authHandler.Login)
		accounts.POST("/logout/", authHandler.Logout)
		accounts.GET("/me/", requireAuth, authHandler.GetCurrentEmployee)
	}

	gated := r.Group("/", requireAuth)
	gated.GET("/", NewDashboardHandler(svc.Dashboard, logger).Index)

	NewResourceHandler[models.Position, services.CreatePositionInput, services.UpdatePositionInput](
		svc.Position, "name", "Position", dto.ToPositionDTO, dto.ToPositionDTO, logger,
	).Register(gated.Group("/positions"))

	NewResourceHandler[models.TaskType, services.CreateTaskTypeInput, services.UpdateTaskTypeInput](
		svc.TaskType, "name", "Task type", dto.ToTaskTypeDTO, dto.ToTaskTypeDTO, logger,
	).Register(gated.Group("/task-types"))

	NewResourceHandler[models.Employee, services.CreateEmployeeInput, services.UpdateEmployeeInput](
		svc.Employee, "username", "Employee", dto.ToEmployeeDTO, dto.ToEmployeeDTO, logger,
	).Register(gated.Group("/employees"))

	tasks := gated.Group("/tasks")
	NewResourceHandler[models.Task, services.CreateTaskInput, services.UpdateTaskInput](
		svc.Task, "name", "Task", dto.ToTaskDTO, dto.ToTaskListItemDTO, logger,
	).Register(tasks)

	taskHandler := NewTaskHandler(svc.Task, logger)
	tasks.POST("/draft/", taskHandler.DraftTasks)

	task := tasks.Group("/:id", middleware.RequireIDParam())
	{
		task.POST("/toggle-assign/", taskHandler.ToggleAssign)
		task.GET("/toggle-assign/", taskHandler.ToggleAssign)
		task.POST("/toggle-completed/", taskHandler.ToggleCompleted)
		task.GET("/toggle-completed/", taskHandler.ToggleCompleted)
	}
}
