package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

// TimetableService defines the interface for timetable operations
type TimetableService interface {
	CreateEntry(ctx context.Context, entry *models.TimetableEntry) error
	ListByClass(ctx context.Context, classID int64) ([]*models.TimetableEntry, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TimetableEntry, error)
	DeleteEntry(ctx context.Context, id int64) error
}

type timetableServiceImpl struct {
	store repositories.Store
}

// NewTimetableService creates a new timetable service instance
func NewTimetableService(store repositories.Store) TimetableService {
	return &timetableServiceImpl{store: store}
}

// normalizeClock parses "H:MM" or "HH:MM" and returns the zero-padded form
func normalizeClock(v, field string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(v))
	if err != nil {
		return "", fmt.Errorf("%w: %s must be a 24-hour HH:MM time", apperrors.ErrValidationFailed, field)
	}
	return t.Format("15:04"), nil
}

func validateEntry(e *models.TimetableEntry) error {
	if e == nil {
		return fmt.Errorf("%w: entry is nil", apperrors.ErrValidationFailed)
	}
	if err := validateID(e.ClassID, "class"); err != nil {
		return err
	}
	if err := validateID(e.SubjectID, "subject"); err != nil {
		return err
	}
	if e.TeacherID != nil {
		if err := validateID(*e.TeacherID, "teacher"); err != nil {
			return err
		}
	}
	if e.DayOfWeek < 1 || e.DayOfWeek > 7 {
		return fmt.Errorf("%w: day of week must be between 1 and 7", apperrors.ErrValidationFailed)
	}

	var err error
	if e.StartTime, err = normalizeClock(e.StartTime, "start time"); err != nil {
		return err
	}
	if e.EndTime, err = normalizeClock(e.EndTime, "end time"); err != nil {
		return err
	}
	if e.EndTime <= e.StartTime {
		return fmt.Errorf("%w: end time must be after start time", apperrors.ErrValidationFailed)
	}
	e.Room = strings.TrimSpace(e.Room)
	return nil
}

// CreateEntry adds a lesson unless it overlaps the class's or the teacher's
// existing lessons on the same day.
func (s *timetableServiceImpl) CreateEntry(ctx context.Context, entry *models.TimetableEntry) error {
	if err := validateEntry(entry); err != nil {
		return err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Classes().GetByID(ctx, entry.ClassID); err != nil {
			return err
		}
		if _, err := tx.Subjects().GetByID(ctx, entry.SubjectID); err != nil {
			return err
		}

		classEntries, err := tx.Timetables().ListByClass(ctx, entry.ClassID)
		if err != nil {
			return err
		}
		for _, other := range classEntries {
			if entry.Overlaps(other) {
				return apperrors.ErrTimetableConflict.WithDetails(map[string]interface{}{"entryId": other.ID})
			}
		}

		if entry.TeacherID != nil {
			if _, err := tx.Teachers().GetByID(ctx, *entry.TeacherID); err != nil {
				return err
			}
			teacherEntries, err := tx.Timetables().ListByTeacher(ctx, *entry.TeacherID, entry.DayOfWeek)
			if err != nil {
				return err
			}
			for _, other := range teacherEntries {
				if entry.Overlaps(other) {
					return apperrors.NewConflictError("teacher is already booked at this time")
				}
			}
		}

		return tx.Timetables().Create(ctx, entry)
	})
	if err != nil {
		return fmt.Errorf("error creating timetable entry: %w", err)
	}
	return nil
}

// ListByClass returns a class's weekly timetable
func (s *timetableServiceImpl) ListByClass(ctx context.Context, classID int64) ([]*models.TimetableEntry, error) {
	if err := validateID(classID, "class"); err != nil {
		return nil, err
	}
	if _, err := s.store.Classes().GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return s.store.Timetables().ListByClass(ctx, classID)
}

// ListByTeacher returns a teacher's weekly timetable
func (s *timetableServiceImpl) ListByTeacher(ctx context.Context, teacherID int64) ([]*models.TimetableEntry, error) {
	if err := validateID(teacherID, "teacher"); err != nil {
		return nil, err
	}
	if _, err := s.store.Teachers().GetByID(ctx, teacherID); err != nil {
		return nil, err
	}
	return s.store.Timetables().ListByTeacher(ctx, teacherID, 0)
}

// DeleteEntry removes a timetable entry
func (s *timetableServiceImpl) DeleteEntry(ctx context.Context, id int64) error {
	if err := validateID(id, "timetable entry"); err != nil {
		return err
	}
	return s.store.Timetables().Delete(ctx, id)
}
