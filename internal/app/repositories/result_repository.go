package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/dberrors"
)

var resultColumns = []string{"id", "student_id", "subject_id", "class_id", "academic_year", "term",
	"class_score", "exam_score", "total_score", "grade", "remarks", "updated_at"}

type resultRepository struct {
	db DBTX
}

// NewResultRepository creates a new ResultRepository
func NewResultRepository(db DBTX) ResultRepository {
	return &resultRepository{db: db}
}

func scanResult(row pgx.Row) (*models.StudentResult, error) {
	var r models.StudentResult
	err := row.Scan(&r.ID, &r.StudentID, &r.SubjectID, &r.ClassID, &r.AcademicYear, &r.Term,
		&r.ClassScore, &r.ExamScore, &r.TotalScore, &r.Grade, &r.Remarks, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Upsert implements ResultRepository
func (r *resultRepository) Upsert(ctx context.Context, result *models.StudentResult) error {
	result.UpdatedAt = time.Now()
	sql, args, err := psql.Insert("student_results").
		Columns("student_id", "subject_id", "class_id", "academic_year", "term",
			"class_score", "exam_score", "total_score", "grade", "remarks", "updated_at").
		Values(result.StudentID, result.SubjectID, result.ClassID, result.AcademicYear, result.Term,
			result.ClassScore, result.ExamScore, result.TotalScore, result.Grade, result.Remarks, result.UpdatedAt).
		Suffix(`ON CONFLICT (student_id, subject_id, academic_year, term) DO UPDATE SET
			class_id = EXCLUDED.class_id,
			class_score = EXCLUDED.class_score,
			exam_score = EXCLUDED.exam_score,
			total_score = EXCLUDED.total_score,
			grade = EXCLUDED.grade,
			remarks = EXCLUDED.remarks,
			updated_at = EXCLUDED.updated_at
		RETURNING id`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert result query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&result.ID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewResourceNotFoundError("student, subject or class not found")
		}
		return fmt.Errorf("error saving result: %w", err)
	}
	return nil
}

// GetByID retrieves a result by ID
func (r *resultRepository) GetByID(ctx context.Context, id int64) (*models.StudentResult, error) {
	sql, args, err := psql.Select(resultColumns...).From("student_results").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get result query: %w", err)
	}

	res, err := scanResult(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResultNotFound
		}
		return nil, fmt.Errorf("error retrieving result: %w", err)
	}
	return res, nil
}

// Update saves the scores and derived fields of a result
func (r *resultRepository) Update(ctx context.Context, result *models.StudentResult) error {
	result.UpdatedAt = time.Now()
	sql, args, err := psql.Update("student_results").
		Set("class_score", result.ClassScore).
		Set("exam_score", result.ExamScore).
		Set("total_score", result.TotalScore).
		Set("grade", result.Grade).
		Set("remarks", result.Remarks).
		Set("updated_at", result.UpdatedAt).
		Where(squirrel.Eq{"id": result.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update result query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResultNotFound
	}
	return nil
}

// List returns results matching the filter ordered by year, term and subject
func (r *resultRepository) List(ctx context.Context, filter models.ResultFilter) ([]*models.StudentResult, error) {
	q := psql.Select(resultColumns...).From("student_results").OrderBy("academic_year", "term", "student_id", "subject_id")
	if filter.StudentID > 0 {
		q = q.Where(squirrel.Eq{"student_id": filter.StudentID})
	}
	if filter.ClassID > 0 {
		q = q.Where(squirrel.Eq{"class_id": filter.ClassID})
	}
	if filter.AcademicYear != "" {
		q = q.Where(squirrel.Eq{"academic_year": filter.AcademicYear})
	}
	if filter.Term > 0 {
		q = q.Where(squirrel.Eq{"term": filter.Term})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list results query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing results: %w", err)
	}
	defer rows.Close()

	var results []*models.StudentResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}
