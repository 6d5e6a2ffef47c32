package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

type studentRepository struct{ s *Store }

// withUser copies a student row and attaches its user profile
func (t *tables) withUser(st *models.Student) *models.Student {
	out := *st
	if u, ok := t.users[st.UserID]; ok {
		cp := *u
		out.User = &cp
	}
	return &out
}

func (r studentRepository) Create(_ context.Context, student *models.Student) error {
	defer r.s.lock()()
	t := r.s.t()
	for _, st := range t.students {
		if st.AdmissionNumber == student.AdmissionNumber {
			return apperrors.ErrAdmissionNumberExists
		}
		if st.UserID == student.UserID {
			return apperrors.NewConflictError("user already has a student profile")
		}
	}
	if _, ok := t.users[student.UserID]; !ok {
		return apperrors.ErrUserNotFound
	}
	if _, ok := t.courses[student.CourseID]; !ok {
		return apperrors.NewResourceNotFoundError("course or class not found")
	}
	if student.CurrentClassID != nil {
		if _, ok := t.classes[*student.CurrentClassID]; !ok {
			return apperrors.NewResourceNotFoundError("course or class not found")
		}
	}

	student.ID = t.nextID("students")
	student.CreatedAt = time.Now()
	row := *student
	row.User = nil
	t.students[student.ID] = &row
	return nil
}

func (r studentRepository) GetByID(_ context.Context, id int64) (*models.Student, error) {
	defer r.s.lock()()
	t := r.s.t()
	st, ok := t.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return t.withUser(st), nil
}

func (t *tables) sortedStudents(keep func(*models.Student) bool) []*models.Student {
	var out []*models.Student
	for _, st := range t.students {
		if keep(st) {
			out = append(out, t.withUser(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r studentRepository) List(_ context.Context, f models.StudentFilter) ([]*models.Student, int64, error) {
	defer r.s.lock()()
	all := r.s.t().sortedStudents(func(st *models.Student) bool {
		return (f.CourseID == 0 || st.CourseID == f.CourseID) &&
			(f.ClassID == 0 || (st.CurrentClassID != nil && *st.CurrentClassID == f.ClassID)) &&
			(f.IsActive == nil || st.IsActive == *f.IsActive)
	})
	total := int64(len(all))
	if f.Size <= 0 {
		return all, total, nil
	}

	page := f.Page
	if page < 0 {
		page = 0
	}
	start := page * f.Size
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + f.Size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r studentRepository) Update(_ context.Context, student *models.Student) error {
	defer r.s.lock()()
	t := r.s.t()
	st, ok := t.students[student.ID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if _, ok := t.courses[student.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	st.CourseID = student.CourseID
	st.DateOfBirth = student.DateOfBirth
	st.Gender = student.Gender
	st.GuardianName = student.GuardianName
	st.GuardianPhone = student.GuardianPhone
	st.Address = student.Address
	return nil
}

func (r studentRepository) AssignClass(_ context.Context, studentID int64, classID *int64) error {
	defer r.s.lock()()
	t := r.s.t()
	st, ok := t.students[studentID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	if classID != nil {
		if _, ok := t.classes[*classID]; !ok {
			return apperrors.ErrClassNotFound
		}
		id := *classID
		classID = &id
	}
	st.CurrentClassID = classID
	return nil
}

func (r studentRepository) ListActiveInPeriod(_ context.Context, form, semester int, academicYear string) ([]*models.Student, error) {
	defer r.s.lock()()
	t := r.s.t()
	return t.sortedStudents(func(st *models.Student) bool {
		if !st.IsActive || st.CurrentClassID == nil {
			return false
		}
		c, ok := t.classes[*st.CurrentClassID]
		return ok && c.Form == form && c.Semester == semester && c.AcademicYear == academicYear
	}), nil
}

func (r studentRepository) ClearClassAssignments(_ context.Context) (int64, error) {
	defer r.s.lock()()
	var n int64
	for _, st := range r.s.t().students {
		if st.CurrentClassID != nil {
			st.CurrentClassID = nil
			n++
		}
	}
	return n, nil
}

func (r studentRepository) SetActiveByUserIDs(_ context.Context, userIDs []int64, active bool) error {
	defer r.s.lock()()
	ids := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		ids[id] = struct{}{}
	}
	for _, st := range r.s.t().students {
		if _, ok := ids[st.UserID]; ok {
			st.IsActive = active
		}
	}
	return nil
}

type teacherRepository struct{ s *Store }

func (t *tables) teacherWithUser(te *models.Teacher) *models.Teacher {
	out := *te
	if u, ok := t.users[te.UserID]; ok {
		cp := *u
		out.User = &cp
	}
	return &out
}

func (r teacherRepository) Create(_ context.Context, teacher *models.Teacher) error {
	defer r.s.lock()()
	t := r.s.t()
	for _, te := range t.teachers {
		if te.StaffNumber == teacher.StaffNumber {
			return apperrors.ErrStaffNumberExists
		}
		if te.UserID == teacher.UserID {
			return apperrors.NewConflictError("user already has a teacher profile")
		}
	}
	if _, ok := t.users[teacher.UserID]; !ok {
		return apperrors.ErrUserNotFound
	}

	teacher.ID = t.nextID("teachers")
	teacher.CreatedAt = time.Now()
	row := *teacher
	row.User = nil
	t.teachers[teacher.ID] = &row
	return nil
}

func (r teacherRepository) GetByID(_ context.Context, id int64) (*models.Teacher, error) {
	defer r.s.lock()()
	t := r.s.t()
	te, ok := t.teachers[id]
	if !ok {
		return nil, apperrors.ErrTeacherNotFound
	}
	return t.teacherWithUser(te), nil
}

func (r teacherRepository) List(_ context.Context) ([]*models.Teacher, error) {
	defer r.s.lock()()
	t := r.s.t()
	var out []*models.Teacher
	for _, te := range t.teachers {
		out = append(out, t.teacherWithUser(te))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].User, out[j].User
		if a == nil || b == nil {
			return out[i].ID < out[j].ID
		}
		if a.LastName != b.LastName {
			return strings.Compare(a.LastName, b.LastName) < 0
		}
		return a.FirstName < b.FirstName
	})
	return out, nil
}

func (r teacherRepository) Assign(_ context.Context, a *models.TeacherSubject) error {
	defer r.s.lock()()
	t := r.s.t()
	_, okT := t.teachers[a.TeacherID]
	_, okS := t.subjects[a.SubjectID]
	_, okC := t.classes[a.ClassID]
	if !okT || !okS || !okC {
		return apperrors.NewResourceNotFoundError("teacher, subject or class not found")
	}
	for _, existing := range t.assignments {
		if existing.TeacherID == a.TeacherID && existing.SubjectID == a.SubjectID && existing.ClassID == a.ClassID {
			return apperrors.ErrAssignmentExists
		}
	}

	a.ID = t.nextID("teacher_subjects")
	row := *a
	t.assignments[a.ID] = &row
	return nil
}

func (r teacherRepository) ListAssignments(_ context.Context, teacherID int64) ([]*models.TeacherSubject, error) {
	defer r.s.lock()()
	var out []*models.TeacherSubject
	for _, a := range r.s.t().assignments {
		if a.TeacherID == teacherID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClassID != out[j].ClassID {
			return out[i].ClassID < out[j].ClassID
		}
		return out[i].SubjectID < out[j].SubjectID
	})
	return out, nil
}

func (r teacherRepository) DeleteAllAssignments(_ context.Context) (int64, error) {
	defer r.s.lock()()
	t := r.s.t()
	n := int64(len(t.assignments))
	t.assignments = make(map[int64]*models.TeacherSubject)
	return n, nil
}
