package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

func registration(f *fixture, email, admission string) RegisterStudentInput {
	return RegisterStudentInput{
		AccountInput:    AccountInput{Email: email, Password: "secret123", FirstName: "Ama", LastName: "Mensah"},
		AdmissionNumber: admission,
		CourseID:        f.course.ID,
		Gender:          "female",
	}
}

func TestRegisterStudent(t *testing.T) {
	f := newFixture(t)
	class := f.plainClass(1, 1, testYear, "A")
	svc := NewStudentService(f.store, f.hasher)

	in := registration(f, "Ama.Mensah@School.test", "GSC001")
	in.ClassID = &class.ID
	st, err := svc.RegisterStudent(f.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "FEMALE", st.Gender)
	assert.True(t, st.IsActive)
	require.NotNil(t, st.User)
	assert.Equal(t, "ama.mensah@school.test", st.User.Email)
	assert.Equal(t, models.RoleStudent, st.User.Role)
	assert.NotEqual(t, "secret123", st.User.PasswordHash)

	_, err = svc.RegisterStudent(f.ctx, registration(f, "other@school.test", "GSC001"))
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	// The failed registration must not leave its user row behind.
	_, err = f.store.Users().GetByEmail(f.ctx, "other@school.test")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	weak := registration(f, "weak@school.test", "GSC002")
	weak.Password = "short"
	_, err = svc.RegisterStudent(f.ctx, weak)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestAssignClass_RequiresSameCourse(t *testing.T) {
	f := newFixture(t)
	svc := NewStudentService(f.store, f.hasher)
	st := f.student(nil, true)

	other := &models.Course{Name: "General Arts", Code: "GAR"}
	require.NoError(t, f.store.Courses().Create(f.ctx, other))
	foreign := &models.Class{Name: "General Arts 1A", CourseID: other.ID, Form: 1, Semester: 1, AcademicYear: testYear, Capacity: 40}
	require.NoError(t, f.store.Classes().Create(f.ctx, foreign))

	_, err := svc.AssignClass(f.ctx, st.ID, &foreign.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	own := f.plainClass(1, 1, testYear, "A")
	updated, err := svc.AssignClass(f.ctx, st.ID, &own.ID)
	require.NoError(t, err)
	assert.Equal(t, own.ID, *updated.CurrentClassID)

	cleared, err := svc.AssignClass(f.ctx, st.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.CurrentClassID)
}

func TestListStudents_Paginates(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.student(nil, i%2 == 0)
	}
	svc := NewStudentService(f.store, f.hasher)

	page, total, err := svc.ListStudents(f.ctx, models.StudentFilter{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, page, 2)
	assert.Less(t, page[0].ID, page[1].ID)

	active := true
	list, total, err := svc.ListStudents(f.ctx, models.StudentFilter{IsActive: &active})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, list, 3)
}

func TestBulkRegisterStudents_PartialFailure(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store, f.hasher)

	bad := registration(f, "not-an-email", "GSC010")
	res, err := svc.BulkRegisterStudents(f.ctx, []RegisterStudentInput{
		registration(f, "a@school.test", "GSC011"),
		bad,
		registration(f, "a@school.test", "GSC012"),
		registration(f, "b@school.test", "GSC013"),
	})
	require.NoError(t, err)
	assert.Len(t, res.Created, 2)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, 1, res.Failed[0].Index)
	assert.Equal(t, 2, res.Failed[1].Index)
	assert.Equal(t, "email already exists", res.Failed[1].Error)
}

func TestSetUsersActive_MirrorsStudents(t *testing.T) {
	f := newFixture(t)
	st := f.student(nil, true)
	svc := NewUserService(f.store, f.hasher)

	n, err := svc.SetUsersActive(f.ctx, []int64{st.UserID}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.False(t, f.reload(st).IsActive)

	_, err = svc.SetUsersActive(f.ctx, nil, true)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDeleteUsers(t *testing.T) {
	f := newFixture(t)
	st := f.student(nil, true)
	svc := NewUserService(f.store, f.hasher)

	n, err := svc.DeleteUsers(f.ctx, []int64{st.UserID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = f.store.Students().GetByID(f.ctx, st.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	students := NewStudentService(f.store, f.hasher)
	st, err := students.RegisterStudent(f.ctx, registration(f, "kofi@school.test", "GSC020"))
	require.NoError(t, err)
	svc := NewUserService(f.store, f.hasher)

	user, err := svc.Login(f.ctx, "KOFI@school.test", "secret123")
	require.NoError(t, err)
	assert.Equal(t, st.UserID, user.ID)

	_, err = svc.Login(f.ctx, "kofi@school.test", "wrong-pass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(f.ctx, "nobody@school.test", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.SetUsersActive(f.ctx, []int64{st.UserID}, false)
	require.NoError(t, err)
	_, err = svc.Login(f.ctx, "kofi@school.test", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}
