package dto

import (
	"time"

	"github.com/yukikurage/task-manager/internal/models"
)

// PositionDTO represents a position in API responses
type PositionDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskTypeDTO represents a task type in API responses
type TaskTypeDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPositionDTO converts a Position model to PositionDTO
func ToPositionDTO(position models.Position) PositionDTO {
	return PositionDTO{
		ID:        position.ID,
		Name:      position.Name,
		CreatedAt: position.CreatedAt,
		UpdatedAt: position.UpdatedAt,
	}
}

// ToTaskTypeDTO converts a TaskType model to TaskTypeDTO
func ToTaskTypeDTO(taskType models.TaskType) TaskTypeDTO {
	return TaskTypeDTO{
		ID:        taskType.ID,
		Name:      taskType.Name,
		CreatedAt: taskType.CreatedAt,
		UpdatedAt: taskType.UpdatedAt,
	}
}
