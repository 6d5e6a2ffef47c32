package memory

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/academic"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

type courseRepository struct{ s *Store }

func (r courseRepository) Create(_ context.Context, course *models.Course) error {
	defer r.s.lock()()
	t := r.s.t()
	for _, c := range t.courses {
		if c.Code == course.Code {
			return apperrors.ErrCourseCodeExists
		}
	}
	course.ID = t.nextID("courses")
	row := *course
	t.courses[course.ID] = &row
	return nil
}

func (r courseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	defer r.s.lock()()
	c, ok := r.s.t().courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	out := *c
	return &out, nil
}

func (r courseRepository) GetAll(_ context.Context) ([]*models.Course, error) {
	defer r.s.lock()()
	var out []*models.Course
	for _, c := range r.s.t().courses {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type subjectRepository struct{ s *Store }

func (r subjectRepository) Create(_ context.Context, subject *models.Subject) error {
	defer r.s.lock()()
	t := r.s.t()
	for _, s := range t.subjects {
		if s.Code == subject.Code {
			return apperrors.ErrSubjectCodeExists
		}
	}
	if subject.CourseID != nil {
		if _, ok := t.courses[*subject.CourseID]; !ok {
			return apperrors.ErrCourseNotFound
		}
	}
	subject.ID = t.nextID("subjects")
	row := *subject
	t.subjects[subject.ID] = &row
	return nil
}

func (r subjectRepository) GetByID(_ context.Context, id int64) (*models.Subject, error) {
	defer r.s.lock()()
	s, ok := r.s.t().subjects[id]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	out := *s
	return &out, nil
}

func (r subjectRepository) GetByIDs(_ context.Context, ids []int64) ([]*models.Subject, error) {
	defer r.s.lock()()
	t := r.s.t()
	var out []*models.Subject
	for _, id := range academic.UniqueSorted(ids) {
		if s, ok := t.subjects[id]; ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r subjectRepository) GetAll(_ context.Context, courseID int64) ([]*models.Subject, error) {
	defer r.s.lock()()
	var out []*models.Subject
	for _, s := range r.s.t().subjects {
		if courseID > 0 && s.CourseID != nil && *s.CourseID != courseID {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsCore != out[j].IsCore {
			return out[i].IsCore
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type classRepository struct{ s *Store }

func samePeriod(c *models.Class, courseID int64, form, semester int, academicYear string) bool {
	return c.CourseID == courseID && c.Form == form && c.Semester == semester && c.AcademicYear == academicYear
}

// sortedClasses returns copies of the classes accepted by keep, ordered by id
func (t *tables) sortedClasses(keep func(*models.Class) bool) []*models.Class {
	var out []*models.Class
	for _, c := range t.classes {
		if keep(c) {
			cp := *c
			cp.Subjects = nil
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r classRepository) Create(_ context.Context, class *models.Class) error {
	defer r.s.lock()()
	t := r.s.t()
	if _, ok := t.courses[class.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for _, c := range t.classes {
		if !samePeriod(c, class.CourseID, class.Form, class.Semester, class.AcademicYear) {
			continue
		}
		if c.ElectiveKey == nil && class.ElectiveKey == nil && c.Name == class.Name {
			return apperrors.ErrClassNameConflict
		}
		if c.ElectiveKey != nil && class.ElectiveKey != nil && *c.ElectiveKey == *class.ElectiveKey {
			return apperrors.ErrClassKeyConflict
		}
	}

	class.ID = t.nextID("classes")
	class.CreatedAt = time.Now()
	row := *class
	row.Subjects = nil
	t.classes[class.ID] = &row
	return nil
}

func (r classRepository) GetByID(_ context.Context, id int64) (*models.Class, error) {
	defer r.s.lock()()
	t := r.s.t()
	c, ok := t.classes[id]
	if !ok {
		return nil, apperrors.ErrClassNotFound
	}
	out := *c
	out.Subjects = t.classSubjectList(id)
	return &out, nil
}

func (r classRepository) List(_ context.Context, f models.ClassFilter) ([]*models.Class, error) {
	defer r.s.lock()()
	out := r.s.t().sortedClasses(func(c *models.Class) bool {
		return (f.CourseID == 0 || c.CourseID == f.CourseID) &&
			(f.Form == 0 || c.Form == f.Form) &&
			(f.Semester == 0 || c.Semester == f.Semester) &&
			(f.AcademicYear == "" || c.AcademicYear == f.AcademicYear)
	})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.AcademicYear != b.AcademicYear {
			return a.AcademicYear > b.AcademicYear
		}
		if a.Form != b.Form {
			return a.Form < b.Form
		}
		if a.Semester != b.Semester {
			return a.Semester < b.Semester
		}
		return a.Name < b.Name
	})
	return out, nil
}

func (r classRepository) FindByElectives(_ context.Context, courseID int64, form, semester int, academicYear string, electiveIDs []int64) (*models.Class, error) {
	defer r.s.lock()()
	t := r.s.t()
	want := academic.ElectiveKey(electiveIDs)
	if want == "" {
		return nil, apperrors.ErrClassNotFound
	}

	candidates := t.sortedClasses(func(c *models.Class) bool {
		return samePeriod(c, courseID, form, semester, academicYear)
	})
	for _, c := range candidates {
		var electives []int64
		for subjectID, elective := range t.classSubjects[c.ID] {
			if elective {
				electives = append(electives, subjectID)
			}
		}
		if academic.ElectiveKey(electives) == want {
			return c, nil
		}
	}
	return nil, apperrors.ErrClassNotFound
}

func (r classRepository) FindPlainByName(_ context.Context, name string, courseID int64, form, semester int, academicYear string) (*models.Class, error) {
	defer r.s.lock()()
	matches := r.s.t().sortedClasses(func(c *models.Class) bool {
		return c.ElectiveKey == nil && c.Name == name && samePeriod(c, courseID, form, semester, academicYear)
	})
	if len(matches) == 0 {
		return nil, apperrors.ErrClassNotFound
	}
	return matches[0], nil
}

func (r classRepository) ListStreams(_ context.Context, courseID int64, form, semester int, academicYear string) ([]string, error) {
	defer r.s.lock()()
	var streams []string
	for _, c := range r.s.t().classes {
		if c.Stream != nil && samePeriod(c, courseID, form, semester, academicYear) {
			streams = append(streams, *c.Stream)
		}
	}
	return streams, nil
}

func (r classRepository) AddSubjects(_ context.Context, links []models.ClassSubject) error {
	defer r.s.lock()()
	t := r.s.t()
	for _, l := range links {
		if _, ok := t.classes[l.ClassID]; !ok {
			return apperrors.ErrClassNotFound
		}
		if _, ok := t.subjects[l.SubjectID]; !ok {
			return apperrors.ErrSubjectNotFound
		}
	}
	for _, l := range links {
		t.link(l.ClassID, l.SubjectID, l.IsElective)
	}
	return nil
}

// link inserts a class subject unless it already exists
func (t *tables) link(classID, subjectID int64, elective bool) {
	m, ok := t.classSubjects[classID]
	if !ok {
		m = make(map[int64]bool)
		t.classSubjects[classID] = m
	}
	if _, exists := m[subjectID]; !exists {
		m[subjectID] = elective
	}
}

func (r classRepository) CopySubjects(_ context.Context, fromClassID, toClassID int64) error {
	defer r.s.lock()()
	t := r.s.t()
	if _, ok := t.classes[toClassID]; !ok {
		return apperrors.ErrClassNotFound
	}
	for subjectID, elective := range t.classSubjects[fromClassID] {
		t.link(toClassID, subjectID, elective)
	}
	return nil
}

func (r classRepository) ListSubjects(_ context.Context, classID int64) ([]*models.Subject, error) {
	defer r.s.lock()()
	return r.s.t().classSubjectList(classID), nil
}

func (t *tables) classSubjectList(classID int64) []*models.Subject {
	var out []*models.Subject
	for subjectID := range t.classSubjects[classID] {
		if s, ok := t.subjects[subjectID]; ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteAll applies the schema's ON DELETE actions for every class
func (r classRepository) DeleteAll(_ context.Context) (int64, error) {
	defer r.s.lock()()
	t := r.s.t()
	n := int64(len(t.classes))

	for _, st := range t.students {
		st.CurrentClassID = nil
	}
	for _, res := range t.results {
		res.ClassID = nil
	}
	for id, a := range t.announcements {
		if a.ClassID != nil {
			delete(t.announcements, id)
		}
	}
	t.assignments = make(map[int64]*models.TeacherSubject)
	t.timetables = make(map[int64]*models.TimetableEntry)
	t.classSubjects = make(map[int64]map[int64]bool)
	t.classes = make(map[int64]*models.Class)
	return n, nil
}
