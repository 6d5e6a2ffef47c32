package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/validation"
)

// AccountInput holds the login fields shared by every registration
type AccountInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}
	if !validation.CompiledPatterns.Email.MatchString(strings.ToLower(strings.TrimSpace(email))) {
		return fmt.Errorf("%w: invalid email format", apperrors.ErrValidationFailed)
	}
	return nil
}

// validatePassword requires at least 8 characters with a letter and a digit
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", apperrors.ErrValidationFailed)
	}

	var hasLetter, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: password must contain at least one letter", apperrors.ErrValidationFailed)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one digit", apperrors.ErrValidationFailed)
	}
	return nil
}

func (in AccountInput) validate() error {
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if err := validateName(in.FirstName, "first name"); err != nil {
		return err
	}
	return validateName(in.LastName, "last name")
}

func validateName(name, field string) error {
	if err := requireText(name, field); err != nil {
		return err
	}
	if !validation.NewStringValidation(strings.TrimSpace(name)).WithMaxLength(validation.NameMaxLength).Validate() {
		return fmt.Errorf("%w: %s must be at most %d characters", apperrors.ErrValidationFailed, field, validation.NameMaxLength)
	}
	return nil
}

// createUser hashes the password and inserts an active user with role
func createUser(ctx context.Context, tx repositories.Store, hasher *auth.PasswordHasher, in AccountInput, role models.RoleType) (*models.User, error) {
	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         role,
		IsActive:     true,
	}
	if err := tx.Users().Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
