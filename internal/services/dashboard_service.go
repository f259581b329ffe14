package services

import (
	"context"
	"fmt"

	"github.com/yukikurage/task-manager/internal/repository"
)

// Dashboard holds the headline counts shown on the index page.
type Dashboard struct {
	EmployeeCount int64
	TaskCount     int64
}

// DashboardService aggregates counts across kinds.
type DashboardService struct {
	employeeRepo repository.EmployeeRepository
	taskRepo     repository.TaskRepository
}

func NewDashboardService(employeeRepo repository.EmployeeRepository, taskRepo repository.TaskRepository) *DashboardService {
	return &DashboardService{employeeRepo: employeeRepo, taskRepo: taskRepo}
}

// Get counts employees and tasks.
func (s *DashboardService) Get(ctx context.Context) (*Dashboard, error) {
	employees, err := s.employeeRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}

	tasks, err := s.taskRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &Dashboard{EmployeeCount: employees, TaskCount: tasks}, nil
}
