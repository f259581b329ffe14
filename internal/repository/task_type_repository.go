package repository

import (
	"context"

	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
)

var taskTypeListConfig = listConfig{searchColumn: "name", order: "task_types.id ASC"}

// GormTaskTypeRepository is a GORM implementation of TaskTypeRepository
type GormTaskTypeRepository struct {
	db *gorm.DB
}

// NewTaskTypeRepository creates a new TaskTypeRepository
func NewTaskTypeRepository(db *gorm.DB) TaskTypeRepository {
	return &GormTaskTypeRepository{db: db}
}

// Create creates a new task type
func (r *GormTaskTypeRepository) Create(ctx context.Context, taskType *models.TaskType) error {
	return r.db.WithContext(ctx).Create(taskType).Error
}

// FindByID finds a task type by ID
func (r *GormTaskTypeRepository) FindByID(ctx context.Context, id uint64) (*models.TaskType, error) {
	var taskType models.TaskType
	if err := r.db.WithContext(ctx).First(&taskType, id).Error; err != nil {
		return nil, err
	}
	return &taskType, nil
}

// Exists reports whether a task type with the ID exists
func (r *GormTaskTypeRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists[models.TaskType](ctx, r.db, id)
}

// List retrieves task types filtered by name
func (r *GormTaskTypeRepository) List(ctx context.Context, filter ListFilter) ([]models.TaskType, int64, error) {
	return list[models.TaskType](ctx, r.db, taskTypeListConfig, filter)
}

// Update updates a task type
func (r *GormTaskTypeRepository) Update(ctx context.Context, taskType *models.TaskType) error {
	return r.db.WithContext(ctx).Save(taskType).Error
}

// Delete deletes a task type and every task of that type in a transaction
func (r *GormTaskTypeRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("task_type_id = ?", id)

		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("task_type_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return deleteByID[models.TaskType](tx, id)
	})
}
