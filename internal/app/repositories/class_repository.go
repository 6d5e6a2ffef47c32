package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/academic"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/dberrors"
	"github.com/yigit/schoolhub/internal/pkg/logger"
)

var classColumns = []string{"c.id", "c.name", "c.course_id", "c.form", "c.semester", "c.stream", "c.academic_year", "c.capacity", "c.elective_key", "c.created_at"}

// Unique indexes guarding the logical identity of a class
const (
	classElectiveKeyIndex = "classes_elective_key_uidx"
	classPlainNameIndex   = "classes_plain_name_uidx"
)

const copyClassSubjectsSQL = `INSERT INTO class_subjects (class_id, subject_id, is_elective)
SELECT $1, subject_id, is_elective FROM class_subjects WHERE class_id = $2
ON CONFLICT (class_id, subject_id) DO NOTHING`

type classRepository struct {
	db DBTX
}

// NewClassRepository creates a new ClassRepository
func NewClassRepository(db DBTX) ClassRepository {
	return &classRepository{db: db}
}

func scanClass(row pgx.Row) (*models.Class, error) {
	var c models.Class
	err := row.Scan(&c.ID, &c.Name, &c.CourseID, &c.Form, &c.Semester, &c.Stream, &c.AcademicYear, &c.Capacity, &c.ElectiveKey, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func periodWhere(courseID int64, form, semester int, academicYear string) squirrel.Eq {
	return squirrel.Eq{
		"c.course_id":     courseID,
		"c.form":          form,
		"c.semester":      semester,
		"c.academic_year": academicYear,
	}
}

// Create creates a new class
func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	now := time.Now()
	sql, args, err := psql.Insert("classes").
		Columns("name", "course_id", "form", "semester", "stream", "academic_year", "capacity", "elective_key", "created_at").
		Values(class.Name, class.CourseID, class.Form, class.Semester, class.Stream, class.AcademicYear, class.Capacity, class.ElectiveKey, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create class query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&class.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, classElectiveKeyIndex) {
			return apperrors.ErrClassKeyConflict
		}
		if dberrors.IsDuplicateConstraintError(err, classPlainNameIndex) {
			return apperrors.ErrClassNameConflict
		}
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("name", class.Name).Msg("Error executing create class query")
		return fmt.Errorf("error creating class: %w", err)
	}
	class.CreatedAt = now
	return nil
}

// GetByID retrieves a class with its subjects
func (r *classRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	sql, args, err := psql.Select(classColumns...).From("classes c").Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get class query: %w", err)
	}

	class, err := scanClass(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}

	class.Subjects, err = r.ListSubjects(ctx, id)
	if err != nil {
		return nil, err
	}
	return class, nil
}

// List retrieves classes matching the filter
func (r *classRepository) List(ctx context.Context, filter models.ClassFilter) ([]*models.Class, error) {
	q := psql.Select(classColumns...).From("classes c").OrderBy("c.academic_year DESC", "c.form", "c.semester", "c.name")
	if filter.CourseID > 0 {
		q = q.Where(squirrel.Eq{"c.course_id": filter.CourseID})
	}
	if filter.Form > 0 {
		q = q.Where(squirrel.Eq{"c.form": filter.Form})
	}
	if filter.Semester > 0 {
		q = q.Where(squirrel.Eq{"c.semester": filter.Semester})
	}
	if filter.AcademicYear != "" {
		q = q.Where(squirrel.Eq{"c.academic_year": filter.AcademicYear})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list classes query: %w", err)
	}
	return r.queryClasses(ctx, sql, args)
}

func (r *classRepository) queryClasses(ctx context.Context, sql string, args []interface{}) ([]*models.Class, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// FindByElectives implements ClassRepository. The match is on the elective
// rows of class_subjects so classes created outside the resolver count too.
func (r *classRepository) FindByElectives(ctx context.Context, courseID int64, form, semester int, academicYear string, electiveIDs []int64) (*models.Class, error) {
	ids := academic.UniqueSorted(electiveIDs)
	n := len(ids)
	if n == 0 {
		return nil, apperrors.ErrClassNotFound
	}

	sql, args, err := psql.Select(classColumns...).
		From("classes c").
		Where(periodWhere(courseID, form, semester, academicYear)).
		Where(squirrel.Expr(`c.id IN (
			SELECT cs.class_id FROM class_subjects cs
			WHERE cs.is_elective
			GROUP BY cs.class_id
			HAVING COUNT(DISTINCT cs.subject_id) = ?
			   AND COUNT(DISTINCT cs.subject_id) FILTER (WHERE cs.subject_id = ANY(?)) = ?)`, n, ids, n)).
		OrderBy("c.id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find class by electives query: %w", err)
	}

	class, err := scanClass(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error finding class by electives: %w", err)
	}
	return class, nil
}

// FindPlainByName implements ClassRepository
func (r *classRepository) FindPlainByName(ctx context.Context, name string, courseID int64, form, semester int, academicYear string) (*models.Class, error) {
	sql, args, err := psql.Select(classColumns...).
		From("classes c").
		Where(periodWhere(courseID, form, semester, academicYear)).
		Where(squirrel.Eq{"c.name": name, "c.elective_key": nil}).
		OrderBy("c.id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build find class by name query: %w", err)
	}

	class, err := scanClass(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error finding class by name: %w", err)
	}
	return class, nil
}

// ListStreams returns the stream letters in use for the period
func (r *classRepository) ListStreams(ctx context.Context, courseID int64, form, semester int, academicYear string) ([]string, error) {
	sql, args, err := psql.Select("c.stream").
		From("classes c").
		Where(periodWhere(courseID, form, semester, academicYear)).
		Where(squirrel.NotEq{"c.stream": nil}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list streams query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing streams: %w", err)
	}
	defer rows.Close()

	var streams []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		streams = append(streams, s)
	}
	return streams, rows.Err()
}

// AddSubjects links subjects to classes, ignoring links that already exist
func (r *classRepository) AddSubjects(ctx context.Context, links []models.ClassSubject) error {
	if len(links) == 0 {
		return nil
	}
	q := psql.Insert("class_subjects").Columns("class_id", "subject_id", "is_elective")
	for _, l := range links {
		q = q.Values(l.ClassID, l.SubjectID, l.IsElective)
	}
	sql, args, err := q.Suffix("ON CONFLICT (class_id, subject_id) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build add class subjects query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.ErrSubjectNotFound
		}
		return fmt.Errorf("error adding class subjects: %w", err)
	}
	return nil
}

// CopySubjects copies every subject link of one class to another
func (r *classRepository) CopySubjects(ctx context.Context, fromClassID, toClassID int64) error {
	if _, err := r.db.Exec(ctx, copyClassSubjectsSQL, toClassID, fromClassID); err != nil {
		return fmt.Errorf("error copying class subjects: %w", err)
	}
	return nil
}

// ListSubjects returns the subjects linked to a class ordered by id
func (r *classRepository) ListSubjects(ctx context.Context, classID int64) ([]*models.Subject, error) {
	sql, args, err := psql.Select(subjectColumns...).
		From("subjects s").
		Join("class_subjects cs ON cs.subject_id = s.id").
		Where(squirrel.Eq{"cs.class_id": classID}).
		OrderBy("s.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list class subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing class subjects: %w", err)
	}
	return scanSubjects(rows)
}

// DeleteAll removes every class and its subject links. Rows referencing
// classes from other tables must be cleared first.
func (r *classRepository) DeleteAll(ctx context.Context) (int64, error) {
	if _, err := r.db.Exec(ctx, "DELETE FROM class_subjects"); err != nil {
		return 0, fmt.Errorf("error deleting class subjects: %w", err)
	}
	tag, err := r.db.Exec(ctx, "DELETE FROM classes")
	if err != nil {
		return 0, fmt.Errorf("error deleting classes: %w", err)
	}
	return tag.RowsAffected(), nil
}
