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

var teacherColumns = []string{
	"t.id", "t.user_id", "t.staff_number", "t.phone", "t.created_at",
	"u.email", "u.first_name", "u.last_name", "u.role", "u.is_active",
}

type teacherRepository struct {
	db DBTX
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(db DBTX) TeacherRepository {
	return &teacherRepository{db: db}
}

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var t models.Teacher
	u := &models.User{}
	err := row.Scan(&t.ID, &t.UserID, &t.StaffNumber, &t.Phone, &t.CreatedAt,
		&u.Email, &u.FirstName, &u.LastName, &u.Role, &u.IsActive)
	if err != nil {
		return nil, err
	}
	u.ID = t.UserID
	t.User = u
	return &t, nil
}

// Create creates a new teacher row for an existing user
func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	now := time.Now()
	sql, args, err := psql.Insert("teachers").
		Columns("user_id", "staff_number", "phone", "created_at").
		Values(teacher.UserID, teacher.StaffNumber, teacher.Phone, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create teacher query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&teacher.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "teachers_staff_number_key") {
			return apperrors.ErrStaffNumberExists
		}
		if dberrors.IsDuplicateConstraintError(err, "teachers_user_id_key") {
			return apperrors.NewConflictError("user already has a teacher profile")
		}
		return fmt.Errorf("error creating teacher: %w", err)
	}
	teacher.CreatedAt = now
	return nil
}

// GetByID retrieves a teacher with its user profile
func (r *teacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	sql, args, err := psql.Select(teacherColumns...).
		From("teachers t").
		Join("users u ON u.id = t.user_id").
		Where(squirrel.Eq{"t.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get teacher query: %w", err)
	}

	t, err := scanTeacher(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}
	return t, nil
}

// List returns all teachers
func (r *teacherRepository) List(ctx context.Context) ([]*models.Teacher, error) {
	sql, args, err := psql.Select(teacherColumns...).
		From("teachers t").
		Join("users u ON u.id = t.user_id").
		OrderBy("u.last_name", "u.first_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list teachers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*models.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// Assign records that a teacher teaches a subject in a class
func (r *teacherRepository) Assign(ctx context.Context, a *models.TeacherSubject) error {
	sql, args, err := psql.Insert("teacher_subjects").
		Columns("teacher_id", "subject_id", "class_id").
		Values(a.TeacherID, a.SubjectID, a.ClassID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build assign teacher query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&a.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return apperrors.ErrAssignmentExists
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewResourceNotFoundError("teacher, subject or class not found")
		}
		return fmt.Errorf("error assigning teacher: %w", err)
	}
	return nil
}

// ListAssignments returns a teacher's subject assignments
func (r *teacherRepository) ListAssignments(ctx context.Context, teacherID int64) ([]*models.TeacherSubject, error) {
	sql, args, err := psql.Select("id", "teacher_id", "subject_id", "class_id").
		From("teacher_subjects").
		Where(squirrel.Eq{"teacher_id": teacherID}).
		OrderBy("class_id", "subject_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list assignments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}
	defer rows.Close()

	var list []*models.TeacherSubject
	for rows.Next() {
		var a models.TeacherSubject
		if err := rows.Scan(&a.ID, &a.TeacherID, &a.SubjectID, &a.ClassID); err != nil {
			return nil, err
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// DeleteAllAssignments removes every teacher assignment
func (r *teacherRepository) DeleteAllAssignments(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM teacher_subjects")
	if err != nil {
		return 0, fmt.Errorf("error deleting teacher assignments: %w", err)
	}
	return tag.RowsAffected(), nil
}
