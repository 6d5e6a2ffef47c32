package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/academic"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

// PromotionRequest moves the active students of one period into another
type PromotionRequest struct {
	CurrentYear  string
	TargetYear   string
	FromForm     int
	FromSemester int
	ToForm       int
	ToSemester   int
}

// PromotionResult summarizes a promotion run
type PromotionResult struct {
	PromotedCount  int `json:"promotedCount"`
	CreatedClasses int `json:"createdClasses"`
	ReusedClasses  int `json:"reusedClasses"`
}

// PromotionService defines the interface for promoting students between periods
type PromotionService interface {
	PromoteStudents(ctx context.Context, req PromotionRequest) (*PromotionResult, error)
}

type promotionServiceImpl struct {
	store    repositories.Store
	settings Settings
}

// NewPromotionService creates a new promotion service instance
func NewPromotionService(store repositories.Store, settings Settings) PromotionService {
	return &promotionServiceImpl{store: store, settings: settings}
}

func (s *promotionServiceImpl) validate(req *PromotionRequest) error {
	req.CurrentYear = strings.TrimSpace(req.CurrentYear)
	req.TargetYear = strings.TrimSpace(req.TargetYear)
	if err := validateAcademicYear(req.CurrentYear, "current year"); err != nil {
		return err
	}
	if err := validateAcademicYear(req.TargetYear, "target year"); err != nil {
		return err
	}
	for _, form := range []int{req.FromForm, req.ToForm} {
		if err := s.settings.validateForm(form); err != nil {
			return err
		}
	}
	for _, sem := range []int{req.FromSemester, req.ToSemester} {
		if err := validateSemester(sem); err != nil {
			return err
		}
	}
	if req.FromForm == req.ToForm && req.FromSemester == req.ToSemester && req.CurrentYear == req.TargetYear {
		return fmt.Errorf("%w: source and target periods are the same", apperrors.ErrValidationFailed)
	}
	return nil
}

// promotionRun holds per-run caches so each source class is mapped once
type promotionRun struct {
	tx      repositories.Store
	req     PromotionRequest
	courses map[int64]*models.Course
	targets map[int64]int64 // source class -> target class
	result  PromotionResult
}

// PromoteStudents implements PromotionService. Every student moves or none do.
func (s *promotionServiceImpl) PromoteStudents(ctx context.Context, req PromotionRequest) (*PromotionResult, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	var result PromotionResult
	err := s.store.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		students, err := tx.Students().ListActiveInPeriod(ctx, req.FromForm, req.FromSemester, req.CurrentYear)
		if err != nil {
			return err
		}

		run := &promotionRun{
			tx:      tx,
			req:     req,
			courses: make(map[int64]*models.Course),
			targets: make(map[int64]int64),
		}
		for _, st := range students {
			if st.CurrentClassID == nil {
				continue
			}
			targetID, err := run.targetFor(ctx, *st.CurrentClassID)
			if err != nil {
				return fmt.Errorf("promoting student %d: %w", st.ID, err)
			}
			if err := tx.Students().AssignClass(ctx, st.ID, &targetID); err != nil {
				return fmt.Errorf("promoting student %d: %w", st.ID, err)
			}
			run.result.PromotedCount++
		}
		result = run.result
		return nil
	})
	if err != nil {
		logger.Error().Err(err).
			Str("current_year", req.CurrentYear).
			Int("from_form", req.FromForm).
			Int("from_semester", req.FromSemester).
			Msg("Promotion rolled back")
		return nil, fmt.Errorf("error promoting students: %w", err)
	}

	logger.Info().
		Int("promoted", result.PromotedCount).
		Int("created_classes", result.CreatedClasses).
		Int("reused_classes", result.ReusedClasses).
		Str("target_year", req.TargetYear).
		Msg("Promotion completed")
	return &result, nil
}

func (r *promotionRun) course(ctx context.Context, id int64) (*models.Course, error) {
	if c, ok := r.courses[id]; ok {
		return c, nil
	}
	c, err := r.tx.Courses().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.courses[id] = c
	return c, nil
}

// targetName derives the promoted class name from the source class fields
func (r *promotionRun) targetName(ctx context.Context, src *models.Class, course *models.Course) (string, error) {
	if src.ElectiveKey == nil {
		return academic.StreamClassName(course.Name, r.req.ToForm, src.StreamOrEmpty()), nil
	}

	ids, err := academic.ParseElectiveKey(*src.ElectiveKey)
	if err != nil {
		return "", err
	}
	subjects, err := r.tx.Subjects().GetByIDs(ctx, ids)
	if err != nil {
		return "", err
	}
	names := make([]string, len(subjects))
	for i, sub := range subjects {
		names[i] = sub.Name
	}
	return academic.ElectiveClassName(course.Name, r.req.ToForm, names, r.req.ToSemester), nil
}

// targetFor returns the class students of srcID move into, reusing an
// existing class of the target period before creating one.
func (r *promotionRun) targetFor(ctx context.Context, srcID int64) (int64, error) {
	if id, ok := r.targets[srcID]; ok {
		return id, nil
	}

	src, err := r.tx.Classes().GetByID(ctx, srcID)
	if err != nil {
		return 0, err
	}
	course, err := r.course(ctx, src.CourseID)
	if err != nil {
		return 0, err
	}
	name, err := r.targetName(ctx, src, course)
	if err != nil {
		return 0, err
	}

	target, err := r.existingTarget(ctx, src, name)
	if err != nil {
		return 0, err
	}
	if target != nil {
		r.result.ReusedClasses++
	} else {
		target = &models.Class{
			Name:         name,
			CourseID:     src.CourseID,
			Form:         r.req.ToForm,
			Semester:     r.req.ToSemester,
			Stream:       src.Stream,
			AcademicYear: r.req.TargetYear,
			Capacity:     src.Capacity,
			ElectiveKey:  src.ElectiveKey,
		}
		if err := r.tx.Classes().Create(ctx, target); err != nil {
			return 0, err
		}
		if err := r.tx.Classes().CopySubjects(ctx, src.ID, target.ID); err != nil {
			return 0, err
		}
		r.result.CreatedClasses++
		logger.Debug().Int64("source_class_id", src.ID).Int64("class_id", target.ID).Str("name", name).Msg("Created promotion target class")
	}

	r.targets[srcID] = target.ID
	return target.ID, nil
}

// existingTarget finds the class of the target period with the same
// identity as src: its elective set, or its name for plain classes. It
// returns nil when there is none.
func (r *promotionRun) existingTarget(ctx context.Context, src *models.Class, name string) (*models.Class, error) {
	var (
		found *models.Class
		err   error
	)
	if src.ElectiveKey == nil {
		found, err = r.tx.Classes().FindPlainByName(ctx, name, src.CourseID, r.req.ToForm, r.req.ToSemester, r.req.TargetYear)
	} else {
		var ids []int64
		if ids, err = academic.ParseElectiveKey(*src.ElectiveKey); err != nil {
			return nil, err
		}
		found, err = r.tx.Classes().FindByElectives(ctx, src.CourseID, r.req.ToForm, r.req.ToSemester, r.req.TargetYear, ids)
	}
	if errors.Is(err, apperrors.ErrClassNotFound) {
		return nil, nil
	}
	return found, err
}
