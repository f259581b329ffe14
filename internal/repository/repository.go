package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yukikurage/task-manager/internal/database"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/utils"
)

var (
	// ErrPositionReferenced is returned when deleting a position that employees still hold.
	ErrPositionReferenced = errors.New("position repository: position is referenced by employees")
	// ErrAssignmentEmployee marks an employee lookup failure inside the assignment toggle.
	ErrAssignmentEmployee = errors.New("task repository: assignment employee lookup failed")
	// ErrAssignmentTask marks a task lookup failure inside the assignment toggle.
	ErrAssignmentTask = errors.New("task repository: assignment task lookup failed")
)

// ListFilter holds the search term and page window for list queries
type ListFilter struct {
	Search     string
	Pagination utils.PaginationParams
}

// PositionRepository defines the interface for position data access
type PositionRepository interface {
	// Create creates a new position
	Create(ctx context.Context, position *models.Position) error

	// FindByID finds a position by ID
	FindByID(ctx context.Context, id uint64) (*models.Position, error)

	// Exists reports whether a position with the ID exists
	Exists(ctx context.Context, id uint64) (bool, error)

	// List retrieves positions filtered by name
	List(ctx context.Context, filter ListFilter) ([]models.Position, int64, error)

	// Update updates a position
	Update(ctx context.Context, position *models.Position) error

	// Delete deletes a position unless an employee references it
	Delete(ctx context.Context, id uint64) error
}

// TaskTypeRepository defines the interface for task type data access
type TaskTypeRepository interface {
	// Create creates a new task type
	Create(ctx context.Context, taskType *models.TaskType) error

	// FindByID finds a task type by ID
	FindByID(ctx context.Context, id uint64) (*models.TaskType, error)

	// Exists reports whether a task type with the ID exists
	Exists(ctx context.Context, id uint64) (bool, error)

	// List retrieves task types filtered by name
	List(ctx context.Context, filter ListFilter) ([]models.TaskType, int64, error)

	// Update updates a task type
	Update(ctx context.Context, taskType *models.TaskType) error

	// Delete deletes a task type together with its tasks
	Delete(ctx context.Context, id uint64) error
}

// EmployeeRepository defines the interface for employee data access
type EmployeeRepository interface {
	// Create creates a new employee
	Create(ctx context.Context, employee *models.Employee) error

	// FindByID finds an employee by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Employee, error)

	// FindByUsername finds an employee by username
	FindByUsername(ctx context.Context, username string) (*models.Employee, error)

	// List retrieves employees filtered by username
	List(ctx context.Context, filter ListFilter) ([]models.Employee, int64, error)

	// Update updates an employee
	Update(ctx context.Context, employee *models.Employee) error

	// Delete deletes an employee and their task assignments
	Delete(ctx context.Context, id uint64) error

	// Count counts all employees
	Count(ctx context.Context) (int64, error)

	// CountByIDs counts how many of the given employee IDs exist
	CountByIDs(ctx context.Context, ids []uint64) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task and its assignments
	Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error

	// FindByID finds a task by ID with optional preloading
	FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks filtered by name in the default task order
	List(ctx context.Context, filter ListFilter) ([]models.Task, int64, error)

	// Update updates a task. A non-nil assigneeIDs replaces the assignee set.
	Update(ctx context.Context, task *models.Task, assigneeIDs []uint64) error

	// Delete deletes a task and its assignments
	Delete(ctx context.Context, id uint64) error

	// Count counts all tasks
	Count(ctx context.Context) (int64, error)

	// ToggleAssignment flips the assignment of an employee to a task and
	// reports whether the employee is assigned afterwards
	ToggleAssignment(ctx context.Context, employeeID, taskID uint64) (bool, error)

	// ToggleCompleted flips the completion flag of a task
	ToggleCompleted(ctx context.Context, id uint64) error
}

// listConfig describes how one entity kind is searched and ordered.
type listConfig struct {
	searchColumn string
	order        string
	preload      []string
}

func list[T any](ctx context.Context, db *gorm.DB, cfg listConfig, filter ListFilter) ([]T, int64, error) {
	var model T
	query := db.WithContext(ctx).
		Model(&model).
		Scopes(database.Contains(cfg.searchColumn, filter.Search)).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := []T{}
	if total == 0 || int64(filter.Pagination.Offset) >= total {
		return items, total, nil
	}

	listQuery := query.Order(cfg.order)
	for _, p := range cfg.preload {
		listQuery = listQuery.Preload(p)
	}
	if filter.Pagination.Limit > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Pagination))
	}

	if err := listQuery.Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func exists[T any](ctx context.Context, db *gorm.DB, id uint64) (bool, error) {
	var model T
	var count int64
	if err := db.WithContext(ctx).Model(&model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// deleteByID deletes one row and maps a missing row onto gorm.ErrRecordNotFound.
func deleteByID[T any](tx *gorm.DB, id uint64) error {
	var model T
	res := tx.Delete(&model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
