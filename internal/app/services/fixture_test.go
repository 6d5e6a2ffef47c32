package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories/memory"
	"github.com/yigit/schoolhub/internal/pkg/auth"
)

const testYear = "2026/2027"

type fixture struct {
	t        *testing.T
	ctx      context.Context
	store    *memory.Store
	settings Settings
	hasher   *auth.PasswordHasher
	course   *models.Course
	subjects map[string]*models.Subject
	nextAdm  int
}

// newFixture seeds one course with four electives created in the order
// Physics, Chemistry, Biology, ICT plus a common core subject.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		t:        t,
		ctx:      context.Background(),
		store:    memory.NewStore(),
		settings: Settings{CurrentYear: testYear, MaxForm: 3, DefaultCapacity: 45},
		hasher:   auth.NewPasswordHasher(4),
		subjects: make(map[string]*models.Subject),
	}

	f.course = &models.Course{Name: "General Science", Code: "GSC", Duration: 3}
	require.NoError(t, f.store.Courses().Create(f.ctx, f.course))

	for _, s := range []struct{ code, name string }{
		{"PHY", "Physics"}, {"CHE", "Chemistry"}, {"BIO", "Biology"}, {"ICT", "ICT"}, {"EMATH", "Elective Mathematics"},
	} {
		sub := &models.Subject{Name: s.name, Code: s.code, CourseID: &f.course.ID}
		require.NoError(t, f.store.Subjects().Create(f.ctx, sub))
		f.subjects[s.code] = sub
	}
	eng := &models.Subject{Name: "English Language", Code: "ENG", IsCore: true}
	require.NoError(t, f.store.Subjects().Create(f.ctx, eng))
	f.subjects["ENG"] = eng
	return f
}

func (f *fixture) ids(codes ...string) []int64 {
	out := make([]int64, len(codes))
	for i, c := range codes {
		out[i] = f.subjects[c].ID
	}
	return out
}

func (f *fixture) classService() ClassService { return NewClassService(f.store, f.settings) }

// createClass creates a plain class through the service with English as
// its core subject and a capacity of 40
func (f *fixture) createClass(form, semester int, year string) *models.Class {
	f.t.Helper()
	c, err := f.classService().CreateClass(f.ctx, CreateClassInput{
		CourseID:     f.course.ID,
		Form:         form,
		Semester:     semester,
		AcademicYear: year,
		Capacity:     40,
		SubjectIDs:   f.ids("ENG"),
	})
	require.NoError(f.t, err)
	return c
}

// subject adds a subject outside the default set; a nil courseID makes it
// common to every course
func (f *fixture) subject(code, name string, courseID *int64, core bool) *models.Subject {
	f.t.Helper()
	sub := &models.Subject{Name: name, Code: code, CourseID: courseID, IsCore: core}
	require.NoError(f.t, f.store.Subjects().Create(f.ctx, sub))
	f.subjects[code] = sub
	return sub
}

// plainClass writes a class without electives straight to the store with a
// chosen stream
func (f *fixture) plainClass(form, semester int, year, stream string) *models.Class {
	f.t.Helper()
	c := &models.Class{
		Name:         fmt.Sprintf("%s %d%s", f.course.Name, form, stream),
		CourseID:     f.course.ID,
		Form:         form,
		Semester:     semester,
		Stream:       &stream,
		AcademicYear: year,
		Capacity:     40,
	}
	require.NoError(f.t, f.store.Classes().Create(f.ctx, c))
	require.NoError(f.t, f.store.Classes().AddSubjects(f.ctx, []models.ClassSubject{{ClassID: c.ID, SubjectID: f.subjects["ENG"].ID}}))
	return c
}

// student inserts a user and student directly, skipping password hashing
func (f *fixture) student(classID *int64, active bool) *models.Student {
	f.t.Helper()
	f.nextAdm++
	u := &models.User{
		Email:     fmt.Sprintf("student%d@school.test", f.nextAdm),
		FirstName: "Student",
		LastName:  fmt.Sprint(f.nextAdm),
		Role:      models.RoleStudent,
		IsActive:  active,
	}
	require.NoError(f.t, f.store.Users().Create(f.ctx, u))
	st := &models.Student{
		UserID:          u.ID,
		AdmissionNumber: fmt.Sprintf("ADM%04d", f.nextAdm),
		CourseID:        f.course.ID,
		CurrentClassID:  classID,
		IsActive:        active,
	}
	require.NoError(f.t, f.store.Students().Create(f.ctx, st))
	return st
}

func (f *fixture) reload(st *models.Student) *models.Student {
	f.t.Helper()
	got, err := f.store.Students().GetByID(f.ctx, st.ID)
	require.NoError(f.t, err)
	return got
}
