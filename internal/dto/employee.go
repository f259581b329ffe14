package dto

import (
	"cmp"
	"slices"
	"time"

	"github.com/yukikurage/task-manager/internal/models"
)

// EmployeeSummaryDTO is the compact employee form used inside other resources
type EmployeeSummaryDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

// EmployeeDTO represents an employee in API responses. The password hash is
// never part of it.
type EmployeeDTO struct {
	ID         uint64            `json:"id"`
	Username   string            `json:"username"`
	FirstName  string            `json:"first_name"`
	LastName   string            `json:"last_name"`
	FullName   string            `json:"full_name"`
	PositionID uint64            `json:"position_id"`
	Position   *PositionDTO      `json:"position,omitempty"`
	Tasks      []TaskListItemDTO `json:"tasks,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ToEmployeeSummaryDTO converts an Employee model to EmployeeSummaryDTO
func ToEmployeeSummaryDTO(employee models.Employee) EmployeeSummaryDTO {
	return EmployeeSummaryDTO{
		ID:       employee.ID,
		Username: employee.Username,
		FullName: employee.FullName(),
	}
}

// ToEmployeeDTO converts an Employee model to EmployeeDTO. Tasks are taken
// from preloaded assignments, in the default task order.
func ToEmployeeDTO(employee models.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:         employee.ID,
		Username:   employee.Username,
		FirstName:  employee.FirstName,
		LastName:   employee.LastName,
		FullName:   employee.FullName(),
		PositionID: employee.PositionID,
		CreatedAt:  employee.CreatedAt,
		UpdatedAt:  employee.UpdatedAt,
	}

	// Include position if preloaded
	if employee.Position.ID != 0 {
		position := ToPositionDTO(employee.Position)
		dto.Position = &position
	}

	if len(employee.Assignments) > 0 {
		tasks := make([]models.Task, 0, len(employee.Assignments))
		for _, a := range employee.Assignments {
			if a.Task.ID != 0 {
				tasks = append(tasks, a.Task)
			}
		}
		slices.SortFunc(tasks, compareTasks)

		dto.Tasks = make([]TaskListItemDTO, len(tasks))
		for i, task := range tasks {
			dto.Tasks[i] = ToTaskListItemDTO(task)
		}
	}

	return dto
}

// compareTasks orders incomplete tasks first, then by deadline and ID.
func compareTasks(a, b models.Task) int {
	if a.IsCompleted != b.IsCompleted {
		if a.IsCompleted {
			return 1
		}
		return -1
	}
	if c := a.Deadline.Compare(b.Deadline); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
