package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles authentication related business logic.
type AuthService struct {
	employeeRepo repository.EmployeeRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(employeeRepo repository.EmployeeRepository) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Next     string `json:"next"`
}

// Login verifies credentials and returns the authenticated employee.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return employee, nil
}

// GetEmployee resolves a session identity to an employee.
func (s *AuthService) GetEmployee(ctx context.Context, id uint64) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id, "Position")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}

	return employee, nil
}
