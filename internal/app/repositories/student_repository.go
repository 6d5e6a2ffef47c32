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
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

var studentColumns = []string{
	"st.id", "st.user_id", "st.admission_number", "st.course_id", "st.current_class_id", "st.is_active",
	"st.date_of_birth", "st.gender", "st.guardian_name", "st.guardian_phone", "st.address", "st.created_at",
	"u.email", "u.first_name", "u.last_name", "u.role", "u.is_active",
}

type studentRepository struct {
	db DBTX
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db DBTX) StudentRepository {
	return &studentRepository{db: db}
}

func selectStudents() squirrel.SelectBuilder {
	return psql.Select(studentColumns...).From("students st").Join("users u ON u.id = st.user_id")
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	u := &models.User{}
	err := row.Scan(&s.ID, &s.UserID, &s.AdmissionNumber, &s.CourseID, &s.CurrentClassID, &s.IsActive,
		&s.DateOfBirth, &s.Gender, &s.GuardianName, &s.GuardianPhone, &s.Address, &s.CreatedAt,
		&u.Email, &u.FirstName, &u.LastName, &u.Role, &u.IsActive)
	if err != nil {
		return nil, err
	}
	u.ID = s.UserID
	s.User = u
	return &s, nil
}

func (r *studentRepository) queryStudents(ctx context.Context, q squirrel.SelectBuilder) ([]*models.Student, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Create creates a new student row for an existing user
func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now()
	sql, args, err := psql.Insert("students").
		Columns("user_id", "admission_number", "course_id", "current_class_id", "is_active",
			"date_of_birth", "gender", "guardian_name", "guardian_phone", "address", "created_at").
		Values(student.UserID, student.AdmissionNumber, student.CourseID, student.CurrentClassID, student.IsActive,
			student.DateOfBirth, student.Gender, student.GuardianName, student.GuardianPhone, student.Address, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_admission_number_key") {
			return apperrors.ErrAdmissionNumberExists
		}
		if dberrors.IsDuplicateConstraintError(err, "students_user_id_key") {
			return apperrors.NewConflictError("user already has a student profile")
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewResourceNotFoundError("course or class not found")
		}
		logger.Error().Err(err).Str("admission_number", student.AdmissionNumber).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}
	student.CreatedAt = now
	return nil
}

// GetByID retrieves a student with its user profile
func (r *studentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	sql, args, err := selectStudents().Where(squirrel.Eq{"st.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return s, nil
}

// List returns one page of students and the total number of matches
func (r *studentRepository) List(ctx context.Context, filter models.StudentFilter) ([]*models.Student, int64, error) {
	where := squirrel.And{}
	if filter.CourseID > 0 {
		where = append(where, squirrel.Eq{"st.course_id": filter.CourseID})
	}
	if filter.ClassID > 0 {
		where = append(where, squirrel.Eq{"st.current_class_id": filter.ClassID})
	}
	if filter.IsActive != nil {
		where = append(where, squirrel.Eq{"st.is_active": *filter.IsActive})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("students st").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	q := selectStudents().Where(where).OrderBy("st.id")
	if filter.Size > 0 {
		page := filter.Page
		if page < 0 {
			page = 0
		}
		q = q.Limit(uint64(filter.Size)).Offset(uint64(page * filter.Size))
	}

	students, err := r.queryStudents(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// Update saves a student's profile fields
func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	sql, args, err := psql.Update("students").
		Set("course_id", student.CourseID).
		Set("date_of_birth", student.DateOfBirth).
		Set("gender", student.Gender).
		Set("guardian_name", student.GuardianName).
		Set("guardian_phone", student.GuardianPhone).
		Set("address", student.Address).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// AssignClass points a student at a class, or clears it when classID is nil
func (r *studentRepository) AssignClass(ctx context.Context, studentID int64, classID *int64) error {
	sql, args, err := psql.Update("students").
		Set("current_class_id", classID).
		Where(squirrel.Eq{"id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build assign class query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrClassNotFound
		}
		return fmt.Errorf("error assigning class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// ListActiveInPeriod implements StudentRepository
func (r *studentRepository) ListActiveInPeriod(ctx context.Context, form, semester int, academicYear string) ([]*models.Student, error) {
	q := selectStudents().
		Join("classes c ON c.id = st.current_class_id").
		Where(squirrel.Eq{
			"st.is_active":    true,
			"c.form":          form,
			"c.semester":      semester,
			"c.academic_year": academicYear,
		}).
		OrderBy("st.id")
	return r.queryStudents(ctx, q)
}

// ClearClassAssignments unassigns every student from their class
func (r *studentRepository) ClearClassAssignments(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "UPDATE students SET current_class_id = NULL WHERE current_class_id IS NOT NULL")
	if err != nil {
		return 0, fmt.Errorf("error clearing class assignments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetActiveByUserIDs mirrors user activation onto student rows
func (r *studentRepository) SetActiveByUserIDs(ctx context.Context, userIDs []int64, active bool) error {
	if len(userIDs) == 0 {
		return nil
	}
	sql, args, err := psql.Update("students").
		Set("is_active", active).
		Where(squirrel.Eq{"user_id": userIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set student active query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error updating student status: %w", err)
	}
	return nil
}
