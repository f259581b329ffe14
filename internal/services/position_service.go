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

// PositionService provides business logic for position operations.
type PositionService struct {
	positionRepo repository.PositionRepository
	logger       *zap.SugaredLogger
}

// NewPositionService creates a new PositionService.
func NewPositionService(positionRepo repository.PositionRepository, logger *zap.SugaredLogger) *PositionService {
	return &PositionService{
		positionRepo: positionRepo,
		logger:       logger,
	}
}

// CreatePositionInput represents parameters to create a position.
type CreatePositionInput struct {
	Name string `json:"name"`
}

// UpdatePositionInput represents a partial position update.
type UpdatePositionInput struct {
	Name *string `json:"name"`
}

type positionForm struct {
	Name string `json:"name" validate:"required,max=255"`
}

// List returns one page of positions whose name contains the search term.
func (s *PositionService) List(ctx context.Context, input ListInput) (*Page[models.Position], error) {
	filter := input.filter()
	positions, total, err := s.positionRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return newPage(positions, total, filter), nil
}

// Get returns a position by ID.
func (s *PositionService) Get(ctx context.Context, id uint64) (*models.Position, error) {
	position, err := s.positionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to find position: %w", err)
	}
	return position, nil
}

// Create validates and stores a new position.
func (s *PositionService) Create(ctx context.Context, input CreatePositionInput) (position *models.Position, err error) {
	defer func() { metrics.ObserveEntityOp(KindPosition, "create", err) }()

	form := positionForm{Name: strings.TrimSpace(input.Name)}
	if err := validatePositionForm(form); err != nil {
		return nil, err
	}

	position = &models.Position{Name: form.Name}
	if err := s.positionRepo.Create(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to create position: %w", err)
	}
	return position, nil
}

// Update applies the provided fields to an existing position.
func (s *PositionService) Update(ctx context.Context, id uint64, input UpdatePositionInput) (position *models.Position, err error) {
	defer func() { metrics.ObserveEntityOp(KindPosition, "update", err) }()

	position, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	form := positionForm{Name: position.Name}
	if input.Name != nil {
		form.Name = strings.TrimSpace(*input.Name)
	}
	if err := validatePositionForm(form); err != nil {
		return nil, err
	}

	position.Name = form.Name
	if err := s.positionRepo.Update(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}
	return position, nil
}

// Delete removes a position. It fails with ErrPositionInUse while any
// employee holds the position.
func (s *PositionService) Delete(ctx context.Context, id uint64) (err error) {
	defer func() { metrics.ObserveEntityOp(KindPosition, "delete", err) }()

	if err := s.positionRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrPositionReferenced):
			s.logger.Infow("position delete refused", "position_id", id)
			return ErrPositionInUse
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrPositionNotFound
		default:
			return fmt.Errorf("failed to delete position: %w", err)
		}
	}
	return nil
}

func validatePositionForm(form positionForm) error {
	verr, err := validateForm(form)
	if err != nil {
		return err
	}
	return verr.OrNil()
}
