package repository

import (
	"context"

	"github.com/yukikurage/task-manager/internal/models"
	"gorm.io/gorm"
)

var positionListConfig = listConfig{searchColumn: "name", order: "positions.id ASC"}

// GormPositionRepository is a GORM implementation of PositionRepository
type GormPositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository creates a new PositionRepository
func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &GormPositionRepository{db: db}
}

// Create creates a new position
func (r *GormPositionRepository) Create(ctx context.Context, position *models.Position) error {
	return r.db.WithContext(ctx).Create(position).Error
}

// FindByID finds a position by ID
func (r *GormPositionRepository) FindByID(ctx context.Context, id uint64) (*models.Position, error) {
	var position models.Position
	if err := r.db.WithContext(ctx).First(&position, id).Error; err != nil {
		return nil, err
	}
	return &position, nil
}

// Exists reports whether a position with the ID exists
func (r *GormPositionRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	return exists[models.Position](ctx, r.db, id)
}

// List retrieves positions filtered by name
func (r *GormPositionRepository) List(ctx context.Context, filter ListFilter) ([]models.Position, int64, error) {
	return list[models.Position](ctx, r.db, positionListConfig, filter)
}

// Update updates a position
func (r *GormPositionRepository) Update(ctx context.Context, position *models.Position) error {
	return r.db.WithContext(ctx).Save(position).Error
}

// Delete deletes a position in a transaction, refusing while employees hold it
func (r *GormPositionRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holders int64
		if err := tx.Model(&models.Employee{}).Where("position_id = ?", id).Count(&holders).Error; err != nil {
			return err
		}
		if holders > 0 {
			return ErrPositionReferenced
		}

		return deleteByID[models.Position](tx, id)
	})
}
