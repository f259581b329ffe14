package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/yukikurage/task-manager/internal/constants"
)

// PasswordPolicy decides whether a new password is strong enough.
type PasswordPolicy interface {
	Check(password, username string) error
}

var (
	ErrPasswordTooShort     = fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)
	ErrPasswordTooLong      = fmt.Errorf("password must be at most %d bytes", constants.MaxPasswordBytes)
	ErrPasswordNumeric      = errors.New("password cannot be entirely numeric")
	ErrPasswordLikeUsername = errors.New("password is too similar to the username")
)

// DefaultPasswordPolicy enforces a minimum length and the bcrypt input limit,
// and rejects numeric-only passwords and passwords equal to the username.
type DefaultPasswordPolicy struct {
	MinLength int
}

// NewDefaultPasswordPolicy creates a DefaultPasswordPolicy with the standard minimum length.
func NewDefaultPasswordPolicy() DefaultPasswordPolicy {
	return DefaultPasswordPolicy{MinLength: constants.MinPasswordLength}
}

// Check implements PasswordPolicy.
func (p DefaultPasswordPolicy) Check(password, username string) error {
	if len([]rune(password)) < p.MinLength {
		return ErrPasswordTooShort
	}
	if len(password) > constants.MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return ErrPasswordNumeric
	}

	if username != "" && strings.EqualFold(password, username) {
		return ErrPasswordLikeUsername
	}
	return nil
}
