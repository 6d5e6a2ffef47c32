package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

// SubjectService defines the interface for subject operations
type SubjectService interface {
	CreateSubject(ctx context.Context, subject *models.Subject) error
	GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error)
	// ListSubjects lists all subjects, or a course's subjects plus the common
	// ones when courseID > 0.
	ListSubjects(ctx context.Context, courseID int64) ([]*models.Subject, error)
}

type subjectServiceImpl struct {
	store repositories.Store
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(store repositories.Store) SubjectService {
	return &subjectServiceImpl{store: store}
}

// CreateSubject creates a new subject
func (s *subjectServiceImpl) CreateSubject(ctx context.Context, subject *models.Subject) error {
	if subject == nil {
		return fmt.Errorf("%w: subject is nil", apperrors.ErrValidationFailed)
	}
	subject.Name = strings.TrimSpace(subject.Name)
	subject.Code = strings.TrimSpace(subject.Code)
	if err := requireText(subject.Name, "name"); err != nil {
		return err
	}
	if !isValidCode(subject.Code) {
		return fmt.Errorf("%w: code must be alphanumeric and uppercase", apperrors.ErrValidationFailed)
	}
	if subject.CourseID != nil {
		if err := validateID(*subject.CourseID, "course"); err != nil {
			return err
		}
	}

	if err := s.store.Subjects().Create(ctx, subject); err != nil {
		return fmt.Errorf("error creating subject: %w", err)
	}
	return nil
}

// GetSubjectByID retrieves a subject by ID
func (s *subjectServiceImpl) GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error) {
	if err := validateID(id, "subject"); err != nil {
		return nil, err
	}
	return s.store.Subjects().GetByID(ctx, id)
}

// ListSubjects implements SubjectService
func (s *subjectServiceImpl) ListSubjects(ctx context.Context, courseID int64) ([]*models.Subject, error) {
	if courseID > 0 {
		if _, err := s.store.Courses().GetByID(ctx, courseID); err != nil {
			return nil, err
		}
	}
	subjects, err := s.store.Subjects().GetAll(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subjects: %w", err)
	}
	return subjects, nil
}
