package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

const defaultCourseDuration = 3

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id int64) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]*models.Course, error)
}

type courseServiceImpl struct {
	store repositories.Store
}

// NewCourseService creates a new course service instance
func NewCourseService(store repositories.Store) CourseService {
	return &courseServiceImpl{store: store}
}

// isValidCode checks that a code is uppercase alphanumeric
func isValidCode(code string) bool {
	if code == "" {
		return false
	}
	for _, char := range code {
		if !((char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9')) {
			return false
		}
	}
	return true
}

func validateCourse(course *models.Course) error {
	if course == nil {
		return fmt.Errorf("%w: course is nil", apperrors.ErrValidationFailed)
	}
	course.Name = strings.TrimSpace(course.Name)
	course.Code = strings.TrimSpace(course.Code)
	if err := requireText(course.Name, "name"); err != nil {
		return err
	}
	if !isValidCode(course.Code) {
		return fmt.Errorf("%w: code must be alphanumeric and uppercase", apperrors.ErrValidationFailed)
	}
	if course.Duration == 0 {
		course.Duration = defaultCourseDuration
	}
	if course.Duration < 0 {
		return fmt.Errorf("%w: duration must be positive", apperrors.ErrValidationFailed)
	}
	return nil
}

// CreateCourse creates a new course
func (s *courseServiceImpl) CreateCourse(ctx context.Context, course *models.Course) error {
	if err := validateCourse(course); err != nil {
		return err
	}
	if err := s.store.Courses().Create(ctx, course); err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// GetCourseByID retrieves a course by ID
func (s *courseServiceImpl) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	if err := validateID(id, "course"); err != nil {
		return nil, err
	}
	return s.store.Courses().GetByID(ctx, id)
}

// GetAllCourses retrieves all courses
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.store.Courses().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}
