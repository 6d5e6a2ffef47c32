package services

import (
	"context"
	"fmt"
	"math"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/grading"
)

// ResultInput records one student's scores for a subject and term
type ResultInput struct {
	StudentID    int64
	SubjectID    int64
	AcademicYear string
	Term         int
	ClassScore   float64
	ExamScore    float64
}

// ResultService defines the interface for gradebook operations
type ResultService interface {
	UpsertResult(ctx context.Context, in ResultInput) (*models.StudentResult, error)
	// UpdateScores changes either score component; nil leaves it unchanged.
	UpdateScores(ctx context.Context, id int64, classScore, examScore *float64) (*models.StudentResult, error)
	ListResultsByStudent(ctx context.Context, studentID int64, academicYear string, term int) ([]*models.StudentResult, error)
	ListResultsByClass(ctx context.Context, classID int64, academicYear string, term int) ([]*models.StudentResult, error)
}

type resultServiceImpl struct {
	store    repositories.Store
	settings Settings
}

// NewResultService creates a new result service instance
func NewResultService(store repositories.Store, settings Settings) ResultService {
	return &resultServiceImpl{store: store, settings: settings}
}

// validateScores checks each component and their sum against the 0..100 scale
func validateScores(classScore, examScore float64) error {
	for _, v := range []struct {
		name  string
		value float64
	}{{"class score", classScore}, {"exam score", examScore}} {
		if math.IsNaN(v.value) || v.value < 0 || v.value > grading.MaxScore {
			return fmt.Errorf("%w: %s must be between 0 and %.0f", apperrors.ErrValidationFailed, v.name, grading.MaxScore)
		}
	}
	if grading.Total(classScore, examScore) > grading.MaxScore {
		return fmt.Errorf("%w: total score cannot exceed %.0f", apperrors.ErrValidationFailed, grading.MaxScore)
	}
	return nil
}

func validateTerm(term int) error {
	if term < 1 || term > 3 {
		return fmt.Errorf("%w: term must be 1, 2 or 3", apperrors.ErrValidationFailed)
	}
	return nil
}

// UpsertResult implements ResultService. Total, grade and remarks are always
// derived from the scores; the student's current class is recorded.
func (s *resultServiceImpl) UpsertResult(ctx context.Context, in ResultInput) (*models.StudentResult, error) {
	if err := validateID(in.StudentID, "student"); err != nil {
		return nil, err
	}
	if err := validateID(in.SubjectID, "subject"); err != nil {
		return nil, err
	}
	if err := validateTerm(in.Term); err != nil {
		return nil, err
	}
	if err := validateScores(in.ClassScore, in.ExamScore); err != nil {
		return nil, err
	}
	year, err := s.settings.academicYear(in.AcademicYear)
	if err != nil {
		return nil, err
	}

	result := &models.StudentResult{
		StudentID:    in.StudentID,
		SubjectID:    in.SubjectID,
		AcademicYear: year,
		Term:         in.Term,
		ClassScore:   in.ClassScore,
		ExamScore:    in.ExamScore,
	}
	result.Recompute()

	err = s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		student, err := tx.Students().GetByID(ctx, in.StudentID)
		if err != nil {
			return err
		}
		if _, err := tx.Subjects().GetByID(ctx, in.SubjectID); err != nil {
			return err
		}
		result.ClassID = student.CurrentClassID
		return tx.Results().Upsert(ctx, result)
	})
	if err != nil {
		return nil, fmt.Errorf("error saving result: %w", err)
	}
	return result, nil
}

// UpdateScores implements ResultService
func (s *resultServiceImpl) UpdateScores(ctx context.Context, id int64, classScore, examScore *float64) (*models.StudentResult, error) {
	if err := validateID(id, "result"); err != nil {
		return nil, err
	}
	if classScore == nil && examScore == nil {
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrValidationFailed)
	}

	var result *models.StudentResult
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		result, err = tx.Results().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if classScore != nil {
			result.ClassScore = *classScore
		}
		if examScore != nil {
			result.ExamScore = *examScore
		}
		if err := validateScores(result.ClassScore, result.ExamScore); err != nil {
			return err
		}
		result.Recompute()
		return tx.Results().Update(ctx, result)
	})
	if err != nil {
		return nil, fmt.Errorf("error updating result: %w", err)
	}
	return result, nil
}

// ListResultsByStudent implements ResultService
func (s *resultServiceImpl) ListResultsByStudent(ctx context.Context, studentID int64, academicYear string, term int) ([]*models.StudentResult, error) {
	if err := validateID(studentID, "student"); err != nil {
		return nil, err
	}
	if _, err := s.store.Students().GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return s.list(ctx, models.ResultFilter{StudentID: studentID, AcademicYear: academicYear, Term: term})
}

// ListResultsByClass implements ResultService
func (s *resultServiceImpl) ListResultsByClass(ctx context.Context, classID int64, academicYear string, term int) ([]*models.StudentResult, error) {
	if err := validateID(classID, "class"); err != nil {
		return nil, err
	}
	if _, err := s.store.Classes().GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return s.list(ctx, models.ResultFilter{ClassID: classID, AcademicYear: academicYear, Term: term})
}

func (s *resultServiceImpl) list(ctx context.Context, filter models.ResultFilter) ([]*models.StudentResult, error) {
	if filter.Term != 0 {
		if err := validateTerm(filter.Term); err != nil {
			return nil, err
		}
	}
	results, err := s.store.Results().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving results: %w", err)
	}
	return results, nil
}
