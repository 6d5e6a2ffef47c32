package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/academic"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// DeleteClassesResult reports what a delete-all run removed
type DeleteClassesResult struct {
	ClassesDeleted     int64 `json:"classesDeleted"`
	StudentsUnassigned int64 `json:"studentsUnassigned"`
	AssignmentsDeleted int64 `json:"assignmentsDeleted"`
	TimetableDeleted   int64 `json:"timetableEntriesDeleted"`
}

// CreateClassInput describes a plain class. Zero Capacity means the
// configured default; SubjectIDs are linked as core subjects.
type CreateClassInput struct {
	CourseID     int64
	Form         int
	Semester     int
	AcademicYear string
	Capacity     int
	SubjectIDs   []int64
}

// ClassService defines the interface for class operations
type ClassService interface {
	// ResolveOrCreateClass returns the class of the period whose elective set
	// equals electiveSubjectIDs, creating it when none exists. An empty
	// academicYear means the configured current year.
	ResolveOrCreateClass(ctx context.Context, courseID int64, electiveSubjectIDs []int64, form, semester int, academicYear string) (*models.Class, error)
	GetClassByID(ctx context.Context, id int64) (*models.Class, error)
	ListClasses(ctx context.Context, filter models.ClassFilter) ([]*models.Class, error)
	// CreateClass creates a class without electives on the next free stream
	// of its period.
	CreateClass(ctx context.Context, in CreateClassInput) (*models.Class, error)
	// AddClassSubjects links core and elective subjects to a class. A class
	// created by the resolver keeps its elective set.
	AddClassSubjects(ctx context.Context, classID int64, coreIDs, electiveIDs []int64) (*models.Class, error)
	DeleteAllClasses(ctx context.Context) (*DeleteClassesResult, error)
}

type classServiceImpl struct {
	store    repositories.Store
	settings Settings
}

// NewClassService creates a new class service instance
func NewClassService(store repositories.Store, settings Settings) ClassService {
	return &classServiceImpl{store: store, settings: settings}
}

func (s *classServiceImpl) validateResolve(courseID int64, electiveIDs []int64, form, semester int) error {
	if err := validateID(courseID, "course"); err != nil {
		return err
	}
	if len(electiveIDs) == 0 {
		return fmt.Errorf("%w: at least one elective subject is required", apperrors.ErrValidationFailed)
	}
	for _, id := range electiveIDs {
		if id <= 0 {
			return fmt.Errorf("%w: elective subject IDs must be positive integers", apperrors.ErrValidationFailed)
		}
	}
	if err := s.settings.validateForm(form); err != nil {
		return err
	}
	return validateSemester(semester)
}

// ResolveOrCreateClass implements ClassService
func (s *classServiceImpl) ResolveOrCreateClass(ctx context.Context, courseID int64, electiveSubjectIDs []int64, form, semester int, academicYear string) (*models.Class, error) {
	if err := s.validateResolve(courseID, electiveSubjectIDs, form, semester); err != nil {
		return nil, err
	}
	year, err := s.settings.academicYear(academicYear)
	if err != nil {
		return nil, err
	}
	ids := academic.UniqueSorted(electiveSubjectIDs)

	var classID int64
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		course, err := tx.Courses().GetByID(ctx, courseID)
		if err != nil {
			return err
		}
		subjects, err := loadSubjects(ctx, tx, ids)
		if err != nil {
			return err
		}
		if err := checkSubjectsForCourse(subjects, courseID, true); err != nil {
			return err
		}

		existing, err := tx.Classes().FindByElectives(ctx, courseID, form, semester, year, ids)
		if err == nil {
			classID = existing.ID
			return nil
		}
		if !errors.Is(err, apperrors.ErrClassNotFound) {
			return err
		}

		names := make([]string, len(subjects))
		for i, sub := range subjects {
			names[i] = sub.Name
		}

		streams, err := tx.Classes().ListStreams(ctx, courseID, form, semester, year)
		if err != nil {
			return err
		}
		stream := academic.NextStream(streams)
		key := academic.ElectiveKey(ids)

		class := &models.Class{
			Name:         academic.ElectiveClassName(course.Name, form, names, semester),
			CourseID:     courseID,
			Form:         form,
			Semester:     semester,
			Stream:       &stream,
			AcademicYear: year,
			Capacity:     s.settings.DefaultCapacity,
			ElectiveKey:  &key,
		}
		if err := tx.Classes().Create(ctx, class); err != nil {
			return err
		}

		links := make([]models.ClassSubject, len(ids))
		for i, id := range ids {
			links[i] = models.ClassSubject{ClassID: class.ID, SubjectID: id, IsElective: true}
		}
		if err := tx.Classes().AddSubjects(ctx, links); err != nil {
			return err
		}

		logger.Info().
			Int64("class_id", class.ID).
			Str("name", class.Name).
			Str("stream", stream).
			Str("academic_year", year).
			Msg("Created elective class")
		classID = class.ID
		return nil
	})

	// A concurrent request created the same combination first; its row wins.
	if errors.Is(err, apperrors.ErrClassKeyConflict) {
		winner, findErr := s.store.Classes().FindByElectives(ctx, courseID, form, semester, year, ids)
		if findErr != nil {
			return nil, err
		}
		classID = winner.ID
		err = nil
	}
	if err != nil {
		if isClientError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error resolving class: %w", err)
	}

	return s.store.Classes().GetByID(ctx, classID)
}

// loadSubjects fetches ids, failing with the missing IDs as details when any
// subject does not exist
func loadSubjects(ctx context.Context, tx repositories.Store, ids []int64) ([]*models.Subject, error) {
	subjects, err := tx.Subjects().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(subjects) != len(ids) {
		return nil, apperrors.ErrSubjectNotFound.WithDetails(map[string]interface{}{"missing": missingIDs(ids, subjects)})
	}
	return subjects, nil
}

// checkSubjectsForCourse rejects subjects of another course. Core subjects
// cannot be electives.
func checkSubjectsForCourse(subjects []*models.Subject, courseID int64, asElectives bool) error {
	for _, sub := range subjects {
		if sub.CourseID != nil && *sub.CourseID != courseID {
			return fmt.Errorf("%w: subject %s belongs to another course", apperrors.ErrValidationFailed, sub.Code)
		}
		if asElectives && sub.IsCore {
			return fmt.Errorf("%w: core subject %s cannot be an elective", apperrors.ErrValidationFailed, sub.Code)
		}
	}
	return nil
}

func isClientError(err error) bool {
	return errors.Is(err, apperrors.ErrValidationFailed) ||
		errors.Is(err, apperrors.ErrResourceNotFound) ||
		errors.Is(err, apperrors.ErrConflict)
}

func missingIDs(want []int64, found []*models.Subject) []int64 {
	have := make(map[int64]struct{}, len(found))
	for _, s := range found {
		have[s.ID] = struct{}{}
	}
	var missing []int64
	for _, id := range want {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// GetClassByID retrieves a class with its subjects
func (s *classServiceImpl) GetClassByID(ctx context.Context, id int64) (*models.Class, error) {
	if err := validateID(id, "class"); err != nil {
		return nil, err
	}
	return s.store.Classes().GetByID(ctx, id)
}

// ListClasses lists classes matching the filter
func (s *classServiceImpl) ListClasses(ctx context.Context, filter models.ClassFilter) ([]*models.Class, error) {
	if filter.Semester != 0 {
		if err := validateSemester(filter.Semester); err != nil {
			return nil, err
		}
	}
	classes, err := s.store.Classes().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error retrieving classes: %w", err)
	}
	return classes, nil
}

// CreateClass implements ClassService
func (s *classServiceImpl) CreateClass(ctx context.Context, in CreateClassInput) (*models.Class, error) {
	if err := validateID(in.CourseID, "course"); err != nil {
		return nil, err
	}
	if err := s.settings.validateForm(in.Form); err != nil {
		return nil, err
	}
	if err := validateSemester(in.Semester); err != nil {
		return nil, err
	}
	if in.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity cannot be negative", apperrors.ErrValidationFailed)
	}
	if in.Capacity == 0 {
		in.Capacity = s.settings.DefaultCapacity
	}
	year, err := s.settings.academicYear(in.AcademicYear)
	if err != nil {
		return nil, err
	}
	for _, id := range in.SubjectIDs {
		if err := validateID(id, "subject"); err != nil {
			return nil, err
		}
	}
	ids := academic.UniqueSorted(in.SubjectIDs)

	var classID int64
	err = s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		course, err := tx.Courses().GetByID(ctx, in.CourseID)
		if err != nil {
			return err
		}
		var subjects []*models.Subject
		if len(ids) > 0 {
			if subjects, err = loadSubjects(ctx, tx, ids); err != nil {
				return err
			}
			if err := checkSubjectsForCourse(subjects, in.CourseID, false); err != nil {
				return err
			}
		}

		streams, err := tx.Classes().ListStreams(ctx, in.CourseID, in.Form, in.Semester, year)
		if err != nil {
			return err
		}
		stream := academic.NextStream(streams)
		class := &models.Class{
			Name:         academic.StreamClassName(course.Name, in.Form, stream),
			CourseID:     in.CourseID,
			Form:         in.Form,
			Semester:     in.Semester,
			Stream:       &stream,
			AcademicYear: year,
			Capacity:     in.Capacity,
		}
		if err := tx.Classes().Create(ctx, class); err != nil {
			return err
		}

		links := make([]models.ClassSubject, len(subjects))
		for i, sub := range subjects {
			links[i] = models.ClassSubject{ClassID: class.ID, SubjectID: sub.ID}
		}
		if err := tx.Classes().AddSubjects(ctx, links); err != nil {
			return err
		}

		logger.Info().
			Int64("class_id", class.ID).
			Str("name", class.Name).
			Str("academic_year", year).
			Msg("Created class")
		classID = class.ID
		return nil
	})
	if err != nil {
		if isClientError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating class: %w", err)
	}

	return s.store.Classes().GetByID(ctx, classID)
}

// AddClassSubjects implements ClassService
func (s *classServiceImpl) AddClassSubjects(ctx context.Context, classID int64, coreIDs, electiveIDs []int64) (*models.Class, error) {
	if err := validateID(classID, "class"); err != nil {
		return nil, err
	}
	if len(coreIDs) == 0 && len(electiveIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one subject is required", apperrors.ErrValidationFailed)
	}
	for _, id := range append(append([]int64{}, coreIDs...), electiveIDs...) {
		if err := validateID(id, "subject"); err != nil {
			return nil, err
		}
	}
	core, electives := academic.UniqueSorted(coreIDs), academic.UniqueSorted(electiveIDs)
	for _, id := range core {
		if containsID(electives, id) {
			return nil, fmt.Errorf("%w: subject %d cannot be both core and elective", apperrors.ErrValidationFailed, id)
		}
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		class, err := tx.Classes().GetByID(ctx, classID)
		if err != nil {
			return err
		}

		var links []models.ClassSubject
		if len(core) > 0 {
			subjects, err := loadSubjects(ctx, tx, core)
			if err != nil {
				return err
			}
			if err := checkSubjectsForCourse(subjects, class.CourseID, false); err != nil {
				return err
			}
			for _, sub := range subjects {
				links = append(links, models.ClassSubject{ClassID: classID, SubjectID: sub.ID})
			}
		}
		if len(electives) > 0 {
			subjects, err := loadSubjects(ctx, tx, electives)
			if err != nil {
				return err
			}
			if err := checkSubjectsForCourse(subjects, class.CourseID, true); err != nil {
				return err
			}
			if class.ElectiveKey != nil {
				fixed, err := academic.ParseElectiveKey(*class.ElectiveKey)
				if err != nil {
					return err
				}
				for _, id := range electives {
					if !containsID(fixed, id) {
						return fmt.Errorf("%w: the elective set of class %q is fixed", apperrors.ErrValidationFailed, class.Name)
					}
				}
			}
			for _, sub := range subjects {
				links = append(links, models.ClassSubject{ClassID: classID, SubjectID: sub.ID, IsElective: true})
			}
		}
		return tx.Classes().AddSubjects(ctx, links)
	})
	if err != nil {
		if isClientError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error adding class subjects: %w", err)
	}

	return s.store.Classes().GetByID(ctx, classID)
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// DeleteAllClasses removes every class in one transaction. Students are
// unassigned first; results keep their rows with the class reference cleared.
func (s *classServiceImpl) DeleteAllClasses(ctx context.Context) (*DeleteClassesResult, error) {
	res := &DeleteClassesResult{}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		var err error
		if res.StudentsUnassigned, err = tx.Students().ClearClassAssignments(ctx); err != nil {
			return err
		}
		if res.AssignmentsDeleted, err = tx.Teachers().DeleteAllAssignments(ctx); err != nil {
			return err
		}
		if res.TimetableDeleted, err = tx.Timetables().DeleteAll(ctx); err != nil {
			return err
		}
		res.ClassesDeleted, err = tx.Classes().DeleteAll(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error deleting classes: %w", err)
	}

	logger.Warn().
		Int64("classes", res.ClassesDeleted).
		Int64("students_unassigned", res.StudentsUnassigned).
		Msg("Deleted all classes")
	return res, nil
}
