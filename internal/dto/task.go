package dto

import (
	"cmp"
	"slices"
	"time"

	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/services"
)

// TaskDTO represents a task in detail responses
type TaskDTO struct {
	ID            uint64               `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Deadline      string               `json:"deadline"`
	IsCompleted   bool                 `json:"is_completed"`
	Priority      models.Priority      `json:"priority"`
	PriorityLabel string               `json:"priority_label"`
	TaskTypeID    uint64               `json:"task_type_id"`
	TaskType      *TaskTypeDTO         `json:"task_type,omitempty"`
	Assignees     []EmployeeSummaryDTO `json:"assignees"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// TaskListItemDTO represents a task in list responses (no assignees)
type TaskListItemDTO struct {
	ID            uint64          `json:"id"`
	Name          string          `json:"name"`
	Deadline      string          `json:"deadline"`
	IsCompleted   bool            `json:"is_completed"`
	Priority      models.Priority `json:"priority"`
	PriorityLabel string          `json:"priority_label"`
	TaskTypeID    uint64          `json:"task_type_id"`
	TaskType      *TaskTypeDTO    `json:"task_type,omitempty"`
}

// TaskDraftListResponse wraps drafted tasks
type TaskDraftListResponse struct {
	Drafts []services.TaskDraft `json:"drafts"`
}

// ToTaskDTO converts a Task model to TaskDTO. Assignees come from preloaded
// assignments, ordered by employee ID.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:            task.ID,
		Name:          task.Name,
		Description:   task.Description,
		Deadline:      task.Deadline.Format(constants.DateLayout),
		IsCompleted:   task.IsCompleted,
		Priority:      task.Priority,
		PriorityLabel: task.Priority.Label(),
		TaskTypeID:    task.TaskTypeID,
		Assignees:     make([]EmployeeSummaryDTO, 0, len(task.Assignments)),
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}

	// Include task type if preloaded
	if task.TaskType.ID != 0 {
		taskType := ToTaskTypeDTO(task.TaskType)
		dto.TaskType = &taskType
	}

	for _, a := range task.Assignments {
		if a.Employee.ID != 0 {
			dto.Assignees = append(dto.Assignees, ToEmployeeSummaryDTO(a.Employee))
		}
	}
	slices.SortFunc(dto.Assignees, func(a, b EmployeeSummaryDTO) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return dto
}

// ToTaskListItemDTO converts a Task model to TaskListItemDTO
func ToTaskListItemDTO(task models.Task) TaskListItemDTO {
	dto := TaskListItemDTO{
		ID:            task.ID,
		Name:          task.Name,
		Deadline:      task.Deadline.Format(constants.DateLayout),
		IsCompleted:   task.IsCompleted,
		Priority:      task.Priority,
		PriorityLabel: task.Priority.Label(),
		TaskTypeID:    task.TaskTypeID,
	}

	if task.TaskType.ID != 0 {
		taskType := ToTaskTypeDTO(task.TaskType)
		dto.TaskType = &taskType
	}

	return dto
}
