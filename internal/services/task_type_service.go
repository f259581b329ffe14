package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-manager/internal/metrics"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskTypeService provides business logic for task type operations.
type TaskTypeService struct {
	taskTypeRepo repository.TaskTypeRepository
	logger       *zap.SugaredLogger
}

// NewTaskTypeService creates a new TaskTypeService.
func NewTaskTypeService(taskTypeRepo repository.TaskTypeRepository, logger *zap.SugaredLogger) *TaskTypeService {
	return &TaskTypeService{
		taskTypeRepo: taskTypeRepo,
		logger:       logger,
	}
}

// CreateTaskTypeInput represents parameters to create a task type.
type CreateTaskTypeInput struct {
	Name string `json:"name"`
}

// UpdateTaskTypeInput represents a partial task type update.
type UpdateTaskTypeInput struct {
	Name *string `json:"name"`
}

type taskTypeForm struct {
	Name string `json:"name" validate:"required,max=255"`
}

// List returns one page of task types whose name contains the search term.
func (s *TaskTypeService) List(ctx context.Context, input ListInput) (*Page[models.TaskType], error) {
	filter := input.filter()
	taskTypes, total, err := s.taskTypeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}
	return newPage(taskTypes, total, filter), nil
}

// Get returns a task type by ID.
func (s *TaskTypeService) Get(ctx context.Context, id uint64) (*models.TaskType, error) {
	taskType, err := s.taskTypeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskTypeNotFound
		}
		return nil, fmt.Errorf("failed to find task type: %w", err)
	}
	return taskType, nil
}

// Create validates and stores a new task type.
func (s *TaskTypeService) Create(ctx context.Context, input CreateTaskTypeInput) (taskType *models.TaskType, err error) {
	defer func() { metrics.ObserveEntityOp(KindTaskType, "create", err) }()

	form := taskTypeForm{Name: strings.TrimSpace(input.Name)}
	if err := validateTaskTypeForm(form); err != nil {
		return nil, err
	}

	taskType = &models.TaskType{Name: form.Name}
	if err := s.taskTypeRepo.Create(ctx, taskType); err != nil {
		return nil, fmt.Errorf("failed to create task type: %w", err)
	}
	return taskType, nil
}

// Update applies the provided fields to an existing task type.
func (s *TaskTypeService) Update(ctx context.Context, id uint64, input UpdateTaskTypeInput) (taskType *models.TaskType, err error) {
	defer func() { metrics.ObserveEntityOp(KindTaskType, "update", err) }()

	taskType, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	form := taskTypeForm{Name: taskType.Name}
	if input.Name != nil {
		form.Name = strings.TrimSpace(*input.Name)
	}
	if err := validateTaskTypeForm(form); err != nil {
		return nil, err
	}

	taskType.Name = form.Name
	if err := s.taskTypeRepo.Update(ctx, taskType); err != nil {
		return nil, fmt.Errorf("failed to update task type: %w", err)
	}
	return taskType, nil
}

// Delete removes a task type together with every task of that type.
func (s *TaskTypeService) Delete(ctx context.Context, id uint64) (err error) {
	defer func() { metrics.ObserveEntityOp(KindTaskType, "delete", err) }()

	if err := s.taskTypeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskTypeNotFound
		}
		return fmt.Errorf("failed to delete task type: %w", err)
	}

	s.logger.Infow("task type deleted with its tasks", "task_type_id", id)
	return nil
}

func validateTaskTypeForm(form taskTypeForm) error {
	verr, err := validateForm(form)
	if err != nil {
		return err
	}
	return verr.OrNil()
}
