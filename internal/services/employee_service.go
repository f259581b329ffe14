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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrFailedToHashPassword = errors.New("failed to hash password")

// EmployeeService handles employee business logic, including credential setup.
type EmployeeService struct {
	employeeRepo repository.EmployeeRepository
	positionRepo repository.PositionRepository
	policy       PasswordPolicy
	logger       *zap.SugaredLogger
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(
	employeeRepo repository.EmployeeRepository,
	positionRepo repository.PositionRepository,
	policy PasswordPolicy,
	logger *zap.SugaredLogger,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
		policy:       policy,
		logger:       logger,
	}
}

// CreateEmployeeInput represents the information needed to register an employee.
type CreateEmployeeInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	PositionID uint64 `json:"position_id"`
}

// UpdateEmployeeInput represents a partial employee update. Passwords are
// set at creation only.
type UpdateEmployeeInput struct {
	Username   *string `json:"username"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	PositionID *uint64 `json:"position_id"`
}

type employeeForm struct {
	Username   string `json:"username" validate:"required,max=150,username"`
	FirstName  string `json:"first_name" validate:"required,max=150"`
	LastName   string `json:"last_name" validate:"required,max=150"`
	PositionID uint64 `json:"position_id" validate:"required"`
}

// List returns one page of employees whose username contains the search term.
func (s *EmployeeService) List(ctx context.Context, input ListInput) (*Page[models.Employee], error) {
	filter := input.filter()
	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return newPage(employees, total, filter), nil
}

// Get returns an employee with their position and assigned tasks.
func (s *EmployeeService) Get(ctx context.Context, id uint64) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id, "Position", "Assignments.Task.TaskType")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return employee, nil
}

// Create validates the payload, hashes the password and stores the employee.
func (s *EmployeeService) Create(ctx context.Context, input CreateEmployeeInput) (employee *models.Employee, err error) {
	defer func() { metrics.ObserveEntityOp(KindEmployee, "create", err) }()

	form := employeeForm{
		Username:   strings.TrimSpace(input.Username),
		FirstName:  strings.TrimSpace(input.FirstName),
		LastName:   strings.TrimSpace(input.LastName),
		PositionID: input.PositionID,
	}

	verr, err := s.validate(ctx, form, 0)
	if err != nil {
		return nil, err
	}
	if input.Password == "" {
		verr.Add("password", "this field is required")
	} else if err := s.policy.Check(input.Password, form.Username); err != nil {
		verr.Add("password", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	employee = &models.Employee{
		Username:     form.Username,
		PasswordHash: string(hashedPassword),
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		PositionID:   form.PositionID,
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("username", usernameTakenReason)
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Infow("employee created", "employee_id", employee.ID, "username", employee.Username)
	return s.Get(ctx, employee.ID)
}

// Update applies the provided fields to an existing employee.
func (s *EmployeeService) Update(ctx context.Context, id uint64, input UpdateEmployeeInput) (employee *models.Employee, err error) {
	defer func() { metrics.ObserveEntityOp(KindEmployee, "update", err) }()

	employee, err = s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	form := employeeForm{
		Username:   employee.Username,
		FirstName:  employee.FirstName,
		LastName:   employee.LastName,
		PositionID: employee.PositionID,
	}
	if input.Username != nil {
		form.Username = strings.TrimSpace(*input.Username)
	}
	if input.FirstName != nil {
		form.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		form.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.PositionID != nil {
		form.PositionID = *input.PositionID
	}

	verr, err := s.validate(ctx, form, employee.ID)
	if err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	employee.Username = form.Username
	employee.FirstName = form.FirstName
	employee.LastName = form.LastName
	employee.PositionID = form.PositionID

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("username", usernameTakenReason)
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	return s.Get(ctx, employee.ID)
}

// Delete removes an employee and their assignments; their tasks remain.
func (s *EmployeeService) Delete(ctx context.Context, id uint64) (err error) {
	defer func() { metrics.ObserveEntityOp(KindEmployee, "delete", err) }()

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

const usernameTakenReason = "an employee with that username already exists"

// validate checks the struct rules, position existence and username
// uniqueness. selfID excludes the employee being updated.
func (s *EmployeeService) validate(ctx context.Context, form employeeForm, selfID uint64) (*ValidationError, error) {
	verr, err := validateForm(form)
	if err != nil {
		return nil, err
	}

	if !verr.Has("position_id") {
		ok, err := s.positionRepo.Exists(ctx, form.PositionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check position: %w", err)
		}
		if !ok {
			verr.Add("position_id", "position does not exist")
		}
	}

	if !verr.Has("username") {
		existing, err := s.employeeRepo.FindByUsername(ctx, form.Username)
		switch {
		case err == nil && existing.ID != selfID:
			verr.Add("username", usernameTakenReason)
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
	}

	return verr, nil
}
