package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/dberrors"
)

var timetableColumns = []string{"id", "class_id", "subject_id", "teacher_id", "day_of_week", "start_time", "end_time", "room"}

type timetableRepository struct {
	db DBTX
}

// NewTimetableRepository creates a new TimetableRepository
func NewTimetableRepository(db DBTX) TimetableRepository {
	return &timetableRepository{db: db}
}

// Create creates a new timetable entry
func (r *timetableRepository) Create(ctx context.Context, e *models.TimetableEntry) error {
	sql, args, err := psql.Insert("timetable_entries").
		Columns("class_id", "subject_id", "teacher_id", "day_of_week", "start_time", "end_time", "room").
		Values(e.ClassID, e.SubjectID, e.TeacherID, e.DayOfWeek, e.StartTime, e.EndTime, e.Room).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create timetable entry query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&e.ID); err != nil {
		if dberrors.IsForeignKeyError(err) {
			return apperrors.NewResourceNotFoundError("class, subject or teacher not found")
		}
		return fmt.Errorf("error creating timetable entry: %w", err)
	}
	return nil
}

func (r *timetableRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.TimetableEntry, error) {
	sql, args, err := psql.Select(timetableColumns...).
		From("timetable_entries").
		Where(where).
		OrderBy("day_of_week", "start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list timetable query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing timetable entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.TimetableEntry
	for rows.Next() {
		var e models.TimetableEntry
		if err := rows.Scan(&e.ID, &e.ClassID, &e.SubjectID, &e.TeacherID, &e.DayOfWeek, &e.StartTime, &e.EndTime, &e.Room); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// ListByClass returns a class's weekly timetable
func (r *timetableRepository) ListByClass(ctx context.Context, classID int64) ([]*models.TimetableEntry, error) {
	return r.list(ctx, squirrel.Eq{"class_id": classID})
}

// ListByTeacher returns a teacher's entries on one day, or all days when dayOfWeek is 0
func (r *timetableRepository) ListByTeacher(ctx context.Context, teacherID int64, dayOfWeek int) ([]*models.TimetableEntry, error) {
	where := squirrel.Eq{"teacher_id": teacherID}
	if dayOfWeek > 0 {
		where["day_of_week"] = dayOfWeek
	}
	return r.list(ctx, where)
}

// Delete removes a timetable entry
func (r *timetableRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM timetable_entries WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting timetable entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTimetableNotFound
	}
	return nil
}

// DeleteAll removes every timetable entry
func (r *timetableRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM timetable_entries")
	if err != nil {
		return 0, fmt.Errorf("error deleting timetable entries: %w", err)
	}
	return tag.RowsAffected(), nil
}
