package services

import (
	"fmt"
	"strings"

	"github.com/yigit/schoolhub/internal/config"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/validation"
)

// Settings carries the academic configuration the services depend on
type Settings struct {
	CurrentYear     string
	MaxForm         int
	DefaultCapacity int
}

// SettingsFromConfig extracts the service settings from the application config
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		CurrentYear:     cfg.Academic.CurrentYear,
		MaxForm:         cfg.Academic.MaxForm,
		DefaultCapacity: cfg.Academic.DefaultCapacity,
	}
}

// academicYear returns the trimmed academic year, or the configured current
// one when year is blank
func (s Settings) academicYear(year string) (string, error) {
	y := strings.TrimSpace(year)
	if y == "" {
		return s.CurrentYear, nil
	}
	if err := validateAcademicYear(y, "academic year"); err != nil {
		return "", err
	}
	return y, nil
}

func validateAcademicYear(year, field string) error {
	if !validation.IsAcademicYear(year) {
		return fmt.Errorf("%w: %s must look like 2026/2027", apperrors.ErrValidationFailed, field)
	}
	return nil
}

func (s Settings) validateForm(form int) error {
	if form < 1 || form > s.MaxForm {
		return fmt.Errorf("%w: form must be between 1 and %d", apperrors.ErrValidationFailed, s.MaxForm)
	}
	return nil
}

func validateSemester(semester int) error {
	if semester != 1 && semester != 2 {
		return fmt.Errorf("%w: semester must be 1 or 2", apperrors.ErrValidationFailed)
	}
	return nil
}

func validateID(id int64, what string) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid %s ID", apperrors.ErrValidationFailed, what)
	}
	return nil
}

func requireText(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s cannot be empty", apperrors.ErrValidationFailed, field)
	}
	return nil
}
