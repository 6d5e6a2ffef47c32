package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/dberrors"
)

var subjectColumns = []string{"s.id", "s.name", "s.code", "s.course_id", "s.is_core"}

type subjectRepository struct {
	db DBTX
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db DBTX) SubjectRepository {
	return &subjectRepository{db: db}
}

func scanSubjects(rows pgx.Rows) ([]*models.Subject, error) {
	defer rows.Close()
	var subjects []*models.Subject
	for rows.Next() {
		var s models.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.CourseID, &s.IsCore); err != nil {
			return nil, err
		}
		subjects = append(subjects, &s)
	}
	return subjects, rows.Err()
}

// Create creates a new subject
func (r *subjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	sql, args, err := psql.Insert("subjects").
		Columns("name", "code", "course_id", "is_core").
		Values(subject.Name, subject.Code, subject.CourseID, subject.IsCore).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create subject query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&subject.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "subjects_code_key") {
			return apperrors.ErrSubjectCodeExists
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating subject: %w", err)
	}
	return nil
}

// GetByID retrieves a subject by ID
func (r *subjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	sql, args, err := psql.Select(subjectColumns...).From("subjects s").Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subject query: %w", err)
	}

	var s models.Subject
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.Name, &s.Code, &s.CourseID, &s.IsCore)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}
	return &s, nil
}

// GetByIDs implements SubjectRepository
func (r *subjectRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Subject, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sql, args, err := psql.Select(subjectColumns...).
		From("subjects s").
		Where(squirrel.Eq{"s.id": ids}).
		OrderBy("s.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving subjects: %w", err)
	}
	return scanSubjects(rows)
}

// GetAll implements SubjectRepository
func (r *subjectRepository) GetAll(ctx context.Context, courseID int64) ([]*models.Subject, error) {
	q := psql.Select(subjectColumns...).From("subjects s").OrderBy("s.is_core DESC", "s.name")
	if courseID > 0 {
		q = q.Where(squirrel.Or{squirrel.Eq{"s.course_id": courseID}, squirrel.Eq{"s.course_id": nil}})
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing subjects: %w", err)
	}
	return scanSubjects(rows)
}
