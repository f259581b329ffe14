package repository

import (
	"context"

	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var employeeListConfig = listConfig{
	searchColumn: "username",
	order:        "employees.id ASC",
	preload:      []string{"Position"},
}

// GormEmployeeRepository is a GORM implementation of EmployeeRepository
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// Create creates a new employee
func (r *GormEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(employee).Error
}

// FindByID finds an employee by ID with optional preloading
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uint64, preload ...string) (*models.Employee, error) {
	var employee models.Employee
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByUsername finds an employee by username
func (r *GormEmployeeRepository) FindByUsername(ctx context.Context, username string) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// List retrieves employees filtered by username
func (r *GormEmployeeRepository) List(ctx context.Context, filter ListFilter) ([]models.Employee, int64, error) {
	return list[models.Employee](ctx, r.db, employeeListConfig, filter)
}

// Update updates an employee
func (r *GormEmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(employee).Error
}

// Delete deletes an employee and their assignments in a transaction.
// Tasks the employee was assigned to are kept.
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&models.TaskAssignment{}).Error; err != nil {
			return err
		}

		return deleteByID[models.Employee](tx, id)
	})
}

// Count counts all employees
func (r *GormEmployeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Count(&count).Error
	return count, err
}

// CountByIDs counts how many of the given employee IDs exist
func (r *GormEmployeeRepository) CountByIDs(ctx context.Context, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}
