package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// RegisterStudentInput creates a student together with its login account
type RegisterStudentInput struct {
	AccountInput
	AdmissionNumber string
	CourseID        int64
	ClassID         *int64
	DateOfBirth     *time.Time
	Gender          string
	GuardianName    string
	GuardianPhone   string
	Address         string
}

// StudentProfileInput holds the editable profile fields of a student
type StudentProfileInput struct {
	CourseID      int64
	DateOfBirth   *time.Time
	Gender        string
	GuardianName  string
	GuardianPhone string
	Address       string
}

// StudentService defines the interface for student operations
type StudentService interface {
	RegisterStudent(ctx context.Context, in RegisterStudentInput) (*models.Student, error)
	GetStudentByID(ctx context.Context, id int64) (*models.Student, error)
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error)
	UpdateStudent(ctx context.Context, id int64, in StudentProfileInput) (*models.Student, error)
	// AssignClass moves a student into a class of their course, or out of
	// any class when classID is nil.
	AssignClass(ctx context.Context, studentID int64, classID *int64) (*models.Student, error)
}

type studentServiceImpl struct {
	store  repositories.Store
	hasher *auth.PasswordHasher
}

// NewStudentService creates a new student service instance
func NewStudentService(store repositories.Store, hasher *auth.PasswordHasher) StudentService {
	return &studentServiceImpl{store: store, hasher: hasher}
}

var validGenders = map[string]bool{"": true, "MALE": true, "FEMALE": true}

func normalizeGender(g string) (string, error) {
	g = strings.ToUpper(strings.TrimSpace(g))
	if !validGenders[g] {
		return "", fmt.Errorf("%w: gender must be MALE or FEMALE", apperrors.ErrValidationFailed)
	}
	return g, nil
}

func (in *RegisterStudentInput) validate() error {
	if err := in.AccountInput.validate(); err != nil {
		return err
	}
	in.AdmissionNumber = strings.TrimSpace(in.AdmissionNumber)
	if err := requireText(in.AdmissionNumber, "admission number"); err != nil {
		return err
	}
	if err := validateID(in.CourseID, "course"); err != nil {
		return err
	}
	if in.ClassID != nil {
		if err := validateID(*in.ClassID, "class"); err != nil {
			return err
		}
	}
	gender, err := normalizeGender(in.Gender)
	if err != nil {
		return err
	}
	in.Gender = gender
	return nil
}

// classInCourse checks that classID exists and belongs to courseID
func classInCourse(ctx context.Context, tx repositories.Store, classID, courseID int64) error {
	class, err := tx.Classes().GetByID(ctx, classID)
	if err != nil {
		return err
	}
	if class.CourseID != courseID {
		return fmt.Errorf("%w: class %d does not belong to course %d", apperrors.ErrValidationFailed, classID, courseID)
	}
	return nil
}

// registerStudent inserts the user and student rows using tx
func registerStudent(ctx context.Context, tx repositories.Store, hasher *auth.PasswordHasher, in RegisterStudentInput) (*models.Student, error) {
	if _, err := tx.Courses().GetByID(ctx, in.CourseID); err != nil {
		return nil, err
	}
	if in.ClassID != nil {
		if err := classInCourse(ctx, tx, *in.ClassID, in.CourseID); err != nil {
			return nil, err
		}
	}

	user, err := createUser(ctx, tx, hasher, in.AccountInput, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	student := &models.Student{
		UserID:          user.ID,
		AdmissionNumber: in.AdmissionNumber,
		CourseID:        in.CourseID,
		CurrentClassID:  in.ClassID,
		IsActive:        true,
		DateOfBirth:     in.DateOfBirth,
		Gender:          in.Gender,
		GuardianName:    strings.TrimSpace(in.GuardianName),
		GuardianPhone:   strings.TrimSpace(in.GuardianPhone),
		Address:         strings.TrimSpace(in.Address),
	}
	if err := tx.Students().Create(ctx, student); err != nil {
		return nil, err
	}
	student.User = user
	return student, nil
}

// RegisterStudent creates the user account and student row in one transaction
func (s *studentServiceImpl) RegisterStudent(ctx context.Context, in RegisterStudentInput) (*models.Student, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var student *models.Student
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		student, err = registerStudent(ctx, tx, s.hasher, in)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error registering student: %w", err)
	}

	logger.Info().Int64("student_id", student.ID).Str("admission_number", student.AdmissionNumber).Msg("Registered student")
	return student, nil
}

// GetStudentByID retrieves a student by ID
func (s *studentServiceImpl) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	if err := validateID(id, "student"); err != nil {
		return nil, err
	}
	return s.store.Students().GetByID(ctx, id)
}

// ListStudents returns one page of students and the total count
func (s *studentServiceImpl) ListStudents(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error) {
	if filter.Page < 0 || filter.Size < 0 {
		return nil, 0, fmt.Errorf("%w: page and size cannot be negative", apperrors.ErrValidationFailed)
	}
	students, total, err := s.store.Students().List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, total, nil
}

// UpdateStudent updates a student's profile
func (s *studentServiceImpl) UpdateStudent(ctx context.Context, id int64, in StudentProfileInput) (*models.Student, error) {
	if err := validateID(id, "student"); err != nil {
		return nil, err
	}
	gender, err := normalizeGender(in.Gender)
	if err != nil {
		return nil, err
	}

	var updated *models.Student
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		student, err := tx.Students().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.CourseID > 0 {
			student.CourseID = in.CourseID
		}
		student.DateOfBirth = in.DateOfBirth
		student.Gender = gender
		student.GuardianName = strings.TrimSpace(in.GuardianName)
		student.GuardianPhone = strings.TrimSpace(in.GuardianPhone)
		student.Address = strings.TrimSpace(in.Address)
		if err := tx.Students().Update(ctx, student); err != nil {
			return err
		}
		updated, err = tx.Students().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error updating student: %w", err)
	}
	return updated, nil
}

// AssignClass implements StudentService
func (s *studentServiceImpl) AssignClass(ctx context.Context, studentID int64, classID *int64) (*models.Student, error) {
	if err := validateID(studentID, "student"); err != nil {
		return nil, err
	}

	var updated *models.Student
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		student, err := tx.Students().GetByID(ctx, studentID)
		if err != nil {
			return err
		}
		if classID != nil {
			if err := classInCourse(ctx, tx, *classID, student.CourseID); err != nil {
				return err
			}
		}
		if err := tx.Students().AssignClass(ctx, studentID, classID); err != nil {
			return err
		}
		updated, err = tx.Students().GetByID(ctx, studentID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error assigning class: %w", err)
	}
	return updated, nil
}
