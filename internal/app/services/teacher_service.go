package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// RegisterTeacherInput creates a teacher together with its login account
type RegisterTeacherInput struct {
	AccountInput
	StaffNumber string
	Phone       string
}

// TeacherService defines the interface for teacher operations
type TeacherService interface {
	RegisterTeacher(ctx context.Context, in RegisterTeacherInput) (*models.Teacher, error)
	GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error)
	ListTeachers(ctx context.Context) ([]*models.Teacher, error)
	AssignSubject(ctx context.Context, teacherID, subjectID, classID int64) (*models.TeacherSubject, error)
	ListAssignments(ctx context.Context, teacherID int64) ([]*models.TeacherSubject, error)
}

type teacherServiceImpl struct {
	store  repositories.Store
	hasher *auth.PasswordHasher
}

// NewTeacherService creates a new teacher service instance
func NewTeacherService(store repositories.Store, hasher *auth.PasswordHasher) TeacherService {
	return &teacherServiceImpl{store: store, hasher: hasher}
}

// RegisterTeacher creates the user account and teacher row in one transaction
func (s *teacherServiceImpl) RegisterTeacher(ctx context.Context, in RegisterTeacherInput) (*models.Teacher, error) {
	if err := in.AccountInput.validate(); err != nil {
		return nil, err
	}
	in.StaffNumber = strings.TrimSpace(in.StaffNumber)
	if err := requireText(in.StaffNumber, "staff number"); err != nil {
		return nil, err
	}

	var teacher *models.Teacher
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		user, err := createUser(ctx, tx, s.hasher, in.AccountInput, models.RoleTeacher)
		if err != nil {
			return err
		}
		teacher = &models.Teacher{UserID: user.ID, StaffNumber: in.StaffNumber, Phone: strings.TrimSpace(in.Phone)}
		if err := tx.Teachers().Create(ctx, teacher); err != nil {
			return err
		}
		teacher.User = user
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error registering teacher: %w", err)
	}

	logger.Info().Int64("teacher_id", teacher.ID).Str("staff_number", teacher.StaffNumber).Msg("Registered teacher")
	return teacher, nil
}

// GetTeacherByID retrieves a teacher by ID
func (s *teacherServiceImpl) GetTeacherByID(ctx context.Context, id int64) (*models.Teacher, error) {
	if err := validateID(id, "teacher"); err != nil {
		return nil, err
	}
	return s.store.Teachers().GetByID(ctx, id)
}

// ListTeachers retrieves all teachers
func (s *teacherServiceImpl) ListTeachers(ctx context.Context) ([]*models.Teacher, error) {
	teachers, err := s.store.Teachers().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving teachers: %w", err)
	}
	return teachers, nil
}

// AssignSubject records that a teacher teaches a subject in a class
func (s *teacherServiceImpl) AssignSubject(ctx context.Context, teacherID, subjectID, classID int64) (*models.TeacherSubject, error) {
	for _, v := range []struct {
		id   int64
		name string
	}{{teacherID, "teacher"}, {subjectID, "subject"}, {classID, "class"}} {
		if err := validateID(v.id, v.name); err != nil {
			return nil, err
		}
	}

	assignment := &models.TeacherSubject{TeacherID: teacherID, SubjectID: subjectID, ClassID: classID}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Teachers().GetByID(ctx, teacherID); err != nil {
			return err
		}
		if _, err := tx.Subjects().GetByID(ctx, subjectID); err != nil {
			return err
		}
		if _, err := tx.Classes().GetByID(ctx, classID); err != nil {
			return err
		}
		return tx.Teachers().Assign(ctx, assignment)
	})
	if err != nil {
		return nil, fmt.Errorf("error assigning teacher: %w", err)
	}
	return assignment, nil
}

// ListAssignments lists a teacher's subject assignments
func (s *teacherServiceImpl) ListAssignments(ctx context.Context, teacherID int64) ([]*models.TeacherSubject, error) {
	if err := validateID(teacherID, "teacher"); err != nil {
		return nil, err
	}
	if _, err := s.store.Teachers().GetByID(ctx, teacherID); err != nil {
		return nil, err
	}
	return s.store.Teachers().ListAssignments(ctx, teacherID)
}
