package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

type resultRepository struct{ s *Store }

func (r resultRepository) Upsert(_ context.Context, result *models.StudentResult) error {
	defer r.s.lock()()
	t := r.s.t()
	_, okSt := t.students[result.StudentID]
	_, okSu := t.subjects[result.SubjectID]
	okC := true
	if result.ClassID != nil {
		_, okC = t.classes[*result.ClassID]
	}
	if !okSt || !okSu || !okC {
		return apperrors.NewResourceNotFoundError("student, subject or class not found")
	}

	result.UpdatedAt = time.Now()
	for _, existing := range t.results {
		if existing.StudentID == result.StudentID && existing.SubjectID == result.SubjectID &&
			existing.AcademicYear == result.AcademicYear && existing.Term == result.Term {
			result.ID = existing.ID
			row := *result
			t.results[result.ID] = &row
			return nil
		}
	}

	result.ID = t.nextID("student_results")
	row := *result
	t.results[result.ID] = &row
	return nil
}

func (r resultRepository) GetByID(_ context.Context, id int64) (*models.StudentResult, error) {
	defer r.s.lock()()
	res, ok := r.s.t().results[id]
	if !ok {
		return nil, apperrors.ErrResultNotFound
	}
	out := *res
	return &out, nil
}

func (r resultRepository) Update(_ context.Context, result *models.StudentResult) error {
	defer r.s.lock()()
	res, ok := r.s.t().results[result.ID]
	if !ok {
		return apperrors.ErrResultNotFound
	}
	result.UpdatedAt = time.Now()
	res.ClassScore = result.ClassScore
	res.ExamScore = result.ExamScore
	res.TotalScore = result.TotalScore
	res.Grade = result.Grade
	res.Remarks = result.Remarks
	res.UpdatedAt = result.UpdatedAt
	return nil
}

func (r resultRepository) List(_ context.Context, f models.ResultFilter) ([]*models.StudentResult, error) {
	defer r.s.lock()()
	var out []*models.StudentResult
	for _, res := range r.s.t().results {
		if f.StudentID > 0 && res.StudentID != f.StudentID {
			continue
		}
		if f.ClassID > 0 && (res.ClassID == nil || *res.ClassID != f.ClassID) {
			continue
		}
		if f.AcademicYear != "" && res.AcademicYear != f.AcademicYear {
			continue
		}
		if f.Term > 0 && res.Term != f.Term {
			continue
		}
		cp := *res
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.AcademicYear != b.AcademicYear:
			return a.AcademicYear < b.AcademicYear
		case a.Term != b.Term:
			return a.Term < b.Term
		case a.StudentID != b.StudentID:
			return a.StudentID < b.StudentID
		default:
			return a.SubjectID < b.SubjectID
		}
	})
	return out, nil
}

type timetableRepository struct{ s *Store }

func (r timetableRepository) Create(_ context.Context, e *models.TimetableEntry) error {
	defer r.s.lock()()
	t := r.s.t()
	_, okC := t.classes[e.ClassID]
	_, okS := t.subjects[e.SubjectID]
	okT := true
	if e.TeacherID != nil {
		_, okT = t.teachers[*e.TeacherID]
	}
	if !okC || !okS || !okT {
		return apperrors.NewResourceNotFoundError("class, subject or teacher not found")
	}

	e.ID = t.nextID("timetable_entries")
	row := *e
	t.timetables[e.ID] = &row
	return nil
}

func (r timetableRepository) list(keep func(*models.TimetableEntry) bool) []*models.TimetableEntry {
	var out []*models.TimetableEntry
	for _, e := range r.s.t().timetables {
		if keep(e) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DayOfWeek != out[j].DayOfWeek {
			return out[i].DayOfWeek < out[j].DayOfWeek
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

func (r timetableRepository) ListByClass(_ context.Context, classID int64) ([]*models.TimetableEntry, error) {
	defer r.s.lock()()
	return r.list(func(e *models.TimetableEntry) bool { return e.ClassID == classID }), nil
}

func (r timetableRepository) ListByTeacher(_ context.Context, teacherID int64, dayOfWeek int) ([]*models.TimetableEntry, error) {
	defer r.s.lock()()
	return r.list(func(e *models.TimetableEntry) bool {
		return e.TeacherID != nil && *e.TeacherID == teacherID && (dayOfWeek == 0 || e.DayOfWeek == dayOfWeek)
	}), nil
}

func (r timetableRepository) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	t := r.s.t()
	if _, ok := t.timetables[id]; !ok {
		return apperrors.ErrTimetableNotFound
	}
	delete(t.timetables, id)
	return nil
}

func (r timetableRepository) DeleteAll(_ context.Context) (int64, error) {
	defer r.s.lock()()
	t := r.s.t()
	n := int64(len(t.timetables))
	t.timetables = make(map[int64]*models.TimetableEntry)
	return n, nil
}

type announcementRepository struct{ s *Store }

const defaultAnnouncementLimit = 50

func (r announcementRepository) Create(_ context.Context, a *models.Announcement) error {
	defer r.s.lock()()
	t := r.s.t()
	if a.ClassID != nil {
		if _, ok := t.classes[*a.ClassID]; !ok {
			return apperrors.NewResourceNotFoundError("class or author not found")
		}
	}
	if a.AuthorID != nil {
		if _, ok := t.users[*a.AuthorID]; !ok {
			return apperrors.NewResourceNotFoundError("class or author not found")
		}
	}

	a.ID = t.nextID("announcements")
	a.CreatedAt = time.Now()
	row := *a
	t.announcements[a.ID] = &row
	return nil
}

func (r announcementRepository) List(_ context.Context, f models.AnnouncementFilter) ([]*models.Announcement, error) {
	defer r.s.lock()()
	var out []*models.Announcement
	for _, a := range r.s.t().announcements {
		if f.Audience != "" && a.Audience != f.Audience {
			continue
		}
		if f.ClassID > 0 && a.ClassID != nil && *a.ClassID != f.ClassID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	limit := f.Limit
	if limit <= 0 {
		limit = defaultAnnouncementLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r announcementRepository) Delete(_ context.Context, id int64) error {
	defer r.s.lock()()
	t := r.s.t()
	if _, ok := t.announcements[id]; !ok {
		return apperrors.ErrAnnouncementNotFound
	}
	delete(t.announcements, id)
	return nil
}
