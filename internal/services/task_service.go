package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/metrics"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrDraftingNotConfigured = errors.New("task drafting is not configured")
	ErrDraftingFailed        = errors.New("task drafting failed")
)

var taskDetailPreload = []string{"TaskType", "Assignments.Employee.Position"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	taskTypeRepo repository.TaskTypeRepository
	employeeRepo repository.EmployeeRepository
	drafter      TaskDrafter
	logger       *zap.SugaredLogger
}

// NewTaskService creates a new TaskService. drafter may be nil, in which
// case DraftTasks reports ErrDraftingNotConfigured.
func NewTaskService(
	taskRepo repository.TaskRepository,
	taskTypeRepo repository.TaskTypeRepository,
	employeeRepo repository.EmployeeRepository,
	drafter TaskDrafter,
	logger *zap.SugaredLogger,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		taskTypeRepo: taskTypeRepo,
		employeeRepo: employeeRepo,
		drafter:      drafter,
		logger:       logger,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Deadline    string   `json:"deadline"`
	IsCompleted bool     `json:"is_completed"`
	Priority    string   `json:"priority"`
	TaskTypeID  uint64   `json:"task_type_id"`
	AssigneeIDs []uint64 `json:"assignee_ids"`
}

// UpdateTaskInput represents input for updating a task. A non-nil
// AssigneeIDs replaces the assignee set, an empty list clears it.
type UpdateTaskInput struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Deadline    *string   `json:"deadline"`
	IsCompleted *bool     `json:"is_completed"`
	Priority    *string   `json:"priority"`
	TaskTypeID  *uint64   `json:"task_type_id"`
	AssigneeIDs *[]uint64 `json:"assignee_ids"`
}

type taskForm struct {
	Name       string `json:"name" validate:"required,max=255"`
	Deadline   string `json:"deadline" validate:"required,datetime=2006-01-02"`
	Priority   string `json:"priority" validate:"required,oneof=UR HI ME LO TR"`
	TaskTypeID uint64 `json:"task_type_id" validate:"required"`
}

// List returns one page of tasks whose name contains the search term,
// incomplete tasks first, then by deadline.
func (s *TaskService) List(ctx context.Context, input ListInput) (*Page[models.Task], error) {
	filter := input.filter()
	tasks, total, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return newPage(tasks, total, filter), nil
}

// Get returns a task with its type and assignees.
func (s *TaskService) Get(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id, taskDetailPreload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// Create validates and stores a task together with its assignees.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (task *models.Task, err error) {
	defer func() { metrics.ObserveEntityOp(KindTask, "create", err) }()

	form := taskForm{
		Name:       strings.TrimSpace(input.Name),
		Deadline:   strings.TrimSpace(input.Deadline),
		Priority:   strings.TrimSpace(input.Priority),
		TaskTypeID: input.TaskTypeID,
	}
	assigneeIDs := uniqueUint64(input.AssigneeIDs)

	deadline, err := s.validate(ctx, form, assigneeIDs)
	if err != nil {
		return nil, err
	}

	task = &models.Task{
		Name:        form.Name,
		Description: strings.TrimSpace(input.Description),
		Deadline:    deadline,
		IsCompleted: input.IsCompleted,
		Priority:    models.Priority(form.Priority),
		TaskTypeID:  form.TaskTypeID,
	}

	if err := s.taskRepo.Create(ctx, task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Infow("task created", "task_id", task.ID, "assignees", len(assigneeIDs))
	return s.Get(ctx, task.ID)
}

// Update applies the provided fields to an existing task.
func (s *TaskService) Update(ctx context.Context, id uint64, input UpdateTaskInput) (task *models.Task, err error) {
	defer func() { metrics.ObserveEntityOp(KindTask, "update", err) }()

	task, err = s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	form := taskForm{
		Name:       task.Name,
		Deadline:   task.Deadline.Format(constants.DateLayout),
		Priority:   string(task.Priority),
		TaskTypeID: task.TaskTypeID,
	}
	if input.Name != nil {
		form.Name = strings.TrimSpace(*input.Name)
	}
	if input.Deadline != nil {
		form.Deadline = strings.TrimSpace(*input.Deadline)
	}
	if input.Priority != nil {
		form.Priority = strings.TrimSpace(*input.Priority)
	}
	if input.TaskTypeID != nil {
		form.TaskTypeID = *input.TaskTypeID
	}

	var assigneeIDs []uint64
	if input.AssigneeIDs != nil {
		assigneeIDs = uniqueUint64(*input.AssigneeIDs)
	}

	deadline, err := s.validate(ctx, form, assigneeIDs)
	if err != nil {
		return nil, err
	}

	task.Name = form.Name
	task.Deadline = deadline
	task.Priority = models.Priority(form.Priority)
	task.TaskTypeID = form.TaskTypeID
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsCompleted != nil {
		task.IsCompleted = *input.IsCompleted
	}

	if err := s.taskRepo.Update(ctx, task, assigneeIDs); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.Get(ctx, task.ID)
}

// Delete removes a task and its assignments.
func (s *TaskService) Delete(ctx context.Context, id uint64) (err error) {
	defer func() { metrics.ObserveEntityOp(KindTask, "delete", err) }()

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ToggleAssignment assigns the employee to the task, or removes them if
// already assigned, and reports the resulting state.
func (s *TaskService) ToggleAssignment(ctx context.Context, employeeID, taskID uint64) (bool, error) {
	assigned, err := s.taskRepo.ToggleAssignment(ctx, employeeID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if errors.Is(err, repository.ErrAssignmentEmployee) {
				return false, ErrEmployeeNotFound
			}
			return false, ErrTaskNotFound
		}
		return false, fmt.Errorf("failed to toggle assignment: %w", err)
	}

	metrics.ObserveAssignmentToggle(assigned)
	s.logger.Infow("task assignment toggled", "task_id", taskID, "employee_id", employeeID, "assigned", assigned)
	return assigned, nil
}

// ToggleCompleted flips the completion flag and returns the updated task.
func (s *TaskService) ToggleCompleted(ctx context.Context, id uint64) (task *models.Task, err error) {
	defer func() { metrics.ObserveEntityOp(KindTask, "toggle_completed", err) }()

	if err := s.taskRepo.ToggleCompleted(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to toggle completion: %w", err)
	}
	return s.Get(ctx, id)
}

// DraftTasksInput represents input for task drafting
type DraftTasksInput struct {
	Text string `json:"text"`
}

// DraftTasks asks the drafter for task drafts found in free text. Drafts
// without a name are dropped, past deadlines are cleared and unknown
// priorities fall back to Medium. Nothing is stored, and an empty result
// is not an error.
func (s *TaskService) DraftTasks(ctx context.Context, input DraftTasksInput) ([]TaskDraft, error) {
	if s.drafter == nil {
		return nil, ErrDraftingNotConfigured
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, NewValidationError("text", "this field is required")
	}

	drafts, err := s.drafter.DraftTasks(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDraftingFailed, err)
	}

	today := time.Now().Format(constants.DateLayout)
	valid := make([]TaskDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" {
			continue
		}

		// YYYY-MM-DD compares correctly as a string
		if d.Deadline != nil {
			if _, err := time.Parse(constants.DateLayout, *d.Deadline); err != nil || *d.Deadline < today {
				d.Deadline = nil
			}
		}

		if !models.Priority(d.Priority).Valid() {
			d.Priority = string(models.PriorityMedium)
		}

		valid = append(valid, d)
		if len(valid) == constants.MaxDraftedTasks {
			break
		}
	}

	return valid, nil
}

// validate runs the struct rules plus the task type and assignee lookups
// and returns the parsed deadline.
func (s *TaskService) validate(ctx context.Context, form taskForm, assigneeIDs []uint64) (time.Time, error) {
	verr, err := validateForm(form)
	if err != nil {
		return time.Time{}, err
	}

	var deadline time.Time
	if !verr.Has("deadline") {
		deadline, err = time.Parse(constants.DateLayout, form.Deadline)
		if err != nil {
			verr.Add("deadline", "must be a date in YYYY-MM-DD format")
		}
	}

	if !verr.Has("task_type_id") {
		ok, err := s.taskTypeRepo.Exists(ctx, form.TaskTypeID)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to check task type: %w", err)
		}
		if !ok {
			verr.Add("task_type_id", "task type does not exist")
		}
	}

	if len(assigneeIDs) > 0 {
		count, err := s.employeeRepo.CountByIDs(ctx, assigneeIDs)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to check assignees: %w", err)
		}
		if count != int64(len(assigneeIDs)) {
			verr.Add("assignee_ids", "one or more employees do not exist")
		}
	}

	if err := verr.OrNil(); err != nil {
		return time.Time{}, err
	}
	return deadline, nil
}
