package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// maxBulkSize bounds the rows accepted by one bulk request
const maxBulkSize = 500

// BulkFailure describes one row a bulk operation could not apply
type BulkFailure struct {
	Index int    `json:"index"`
	Email string `json:"email,omitempty"`
	Error string `json:"error"`
}

// BulkRegisterResult reports the outcome of a bulk registration
type BulkRegisterResult struct {
	Created []*models.Student `json:"created"`
	Failed  []BulkFailure     `json:"failed"`
}

// UserService defines the interface for account administration
type UserService interface {
	// BulkRegisterStudents registers each row in its own transaction, so one
	// bad row does not block the others.
	BulkRegisterStudents(ctx context.Context, rows []RegisterStudentInput) (*BulkRegisterResult, error)
	SetUsersActive(ctx context.Context, userIDs []int64, active bool) (int64, error)
	DeleteUsers(ctx context.Context, userIDs []int64) (int64, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
}

type userServiceImpl struct {
	store  repositories.Store
	hasher *auth.PasswordHasher
}

// NewUserService creates a new user service instance
func NewUserService(store repositories.Store, hasher *auth.PasswordHasher) UserService {
	return &userServiceImpl{store: store, hasher: hasher}
}

func validateBulkIDs(ids []int64) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one user ID is required", apperrors.ErrValidationFailed)
	}
	if len(ids) > maxBulkSize {
		return fmt.Errorf("%w: at most %d users per request", apperrors.ErrValidationFailed, maxBulkSize)
	}
	for _, id := range ids {
		if err := validateID(id, "user"); err != nil {
			return err
		}
	}
	return nil
}

// BulkRegisterStudents implements UserService
func (s *userServiceImpl) BulkRegisterStudents(ctx context.Context, rows []RegisterStudentInput) (*BulkRegisterResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no students to register", apperrors.ErrValidationFailed)
	}
	if len(rows) > maxBulkSize {
		return nil, fmt.Errorf("%w: at most %d students per request", apperrors.ErrValidationFailed, maxBulkSize)
	}

	result := &BulkRegisterResult{Created: []*models.Student{}, Failed: []BulkFailure{}}
	for i, in := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := in.validate(); err != nil {
			result.Failed = append(result.Failed, BulkFailure{Index: i, Email: in.Email, Error: apperrors.Message(err)})
			continue
		}

		var student *models.Student
		err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
			var err error
			student, err = registerStudent(ctx, tx, s.hasher, in)
			return err
		})
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{Index: i, Email: in.Email, Error: apperrors.Message(err)})
			continue
		}
		result.Created = append(result.Created, student)
	}

	logger.Info().Int("created", len(result.Created)).Int("failed", len(result.Failed)).Msg("Bulk student registration finished")
	return result, nil
}

// SetUsersActive activates or deactivates users; student rows follow
func (s *userServiceImpl) SetUsersActive(ctx context.Context, userIDs []int64, active bool) (int64, error) {
	if err := validateBulkIDs(userIDs); err != nil {
		return 0, err
	}

	var n int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		if n, err = tx.Users().SetActive(ctx, userIDs, active); err != nil {
			return err
		}
		return tx.Students().SetActiveByUserIDs(ctx, userIDs, active)
	})
	if err != nil {
		return 0, fmt.Errorf("error updating users: %w", err)
	}
	return n, nil
}

// DeleteUsers removes users together with their student or teacher profiles
func (s *userServiceImpl) DeleteUsers(ctx context.Context, userIDs []int64) (int64, error) {
	if err := validateBulkIDs(userIDs); err != nil {
		return 0, err
	}

	var n int64
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		n, err = tx.Users().Delete(ctx, userIDs)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("error deleting users: %w", err)
	}

	logger.Warn().Int64("deleted", n).Msg("Deleted users")
	return n, nil
}

// Login checks credentials and returns the matching user
func (s *userServiceImpl) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", apperrors.ErrValidationFailed)
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return user, nil
}
