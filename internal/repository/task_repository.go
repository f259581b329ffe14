package repository

import (
	"context"
	"fmt"

	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var taskListConfig = listConfig{
	searchColumn: "name",
	order:        "tasks.is_completed ASC, tasks.deadline ASC, tasks.id ASC",
	preload:      []string{"TaskType"},
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task and its assignments in a transaction
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task, assigneeIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(task).Error; err != nil {
			return err
		}

		return insertAssignments(tx, task.ID, assigneeIDs)
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.WithContext(ctx)

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks filtered by name, incomplete first, then by deadline
func (r *GormTaskRepository) List(ctx context.Context, filter ListFilter) ([]models.Task, int64, error) {
	return list[models.Task](ctx, r.db, taskListConfig, filter)
}

// Update updates a task. When assigneeIDs is non-nil the assignee set is
// replaced in the same transaction.
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task, assigneeIDs []uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}

		if assigneeIDs == nil {
			return nil
		}

		if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return insertAssignments(tx, task.ID, assigneeIDs)
	})
}

// Delete deletes a task and its assignments in a transaction
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return deleteByID[models.Task](tx, id)
	})
}

// Count counts all tasks
func (r *GormTaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Count(&count).Error
	return count, err
}

// ToggleAssignment removes the (task, employee) edge if present and adds it
// otherwise. The edge is deleted first so that the outcome never depends on
// a stale read; the composite primary key absorbs a concurrent insert.
func (r *GormTaskRepository) ToggleAssignment(ctx context.Context, employeeID, taskID uint64) (bool, error) {
	var assigned bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Employee{}, employeeID).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrAssignmentEmployee, err)
		}
		if err := tx.Select("id").First(&models.Task{}, taskID).Error; err != nil {
			return fmt.Errorf("%w: %w", ErrAssignmentTask, err)
		}

		res := tx.Where("task_id = ? AND employee_id = ?", taskID, employeeID).Delete(&models.TaskAssignment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			assigned = false
			return nil
		}

		assigned = true
		return insertAssignments(tx, taskID, []uint64{employeeID})
	})
	if err != nil {
		return false, err
	}

	return assigned, nil
}

// ToggleCompleted flips the completion flag with a single UPDATE
func (r *GormTaskRepository) ToggleCompleted(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		UpdateColumn("is_completed", gorm.Expr("NOT is_completed"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func insertAssignments(tx *gorm.DB, taskID uint64, employeeIDs []uint64) error {
	if len(employeeIDs) == 0 {
		return nil
	}

	assignments := make([]models.TaskAssignment, len(employeeIDs))
	for i, employeeID := range employeeIDs {
		assignments[i] = models.TaskAssignment{
			TaskID:     taskID,
			EmployeeID: employeeID,
		}
	}

	return tx.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignments).Error
}
