package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/academic"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

func seedCourse(t *testing.T, s *Store) *models.Course {
	t.Helper()
	c := &models.Course{Name: "General Science", Code: "GSC", Duration: 3}
	require.NoError(t, s.Courses().Create(context.Background(), c))
	return c
}

func seedSubjects(t *testing.T, s *Store, courseID int64, codes ...string) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(codes))
	for _, code := range codes {
		sub := &models.Subject{Name: code, Code: code, CourseID: &courseID}
		require.NoError(t, s.Subjects().Create(context.Background(), sub))
		ids = append(ids, sub.ID)
	}
	return ids
}

func TestWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	course := seedCourse(t, s)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		c := &models.Class{Name: "X", CourseID: course.ID, Form: 1, Semester: 1, AcademicYear: "2026/2027", Capacity: 45}
		require.NoError(t, tx.Classes().Create(ctx, c))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	classes, err := s.Classes().List(ctx, models.ClassFilter{})
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	course := seedCourse(t, s)

	err := s.WithTx(ctx, func(ctx context.Context, tx repositories.Store) error {
		c := &models.Class{Name: "X", CourseID: course.ID, Form: 1, Semester: 1, AcademicYear: "2026/2027", Capacity: 45}
		return tx.WithTx(ctx, func(ctx context.Context, inner repositories.Store) error {
			return inner.Classes().Create(ctx, c)
		})
	})
	require.NoError(t, err)

	classes, err := s.Classes().List(ctx, models.ClassFilter{CourseID: course.ID})
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func TestClassUniqueKeys(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	course := seedCourse(t, s)
	key := academic.ElectiveKey([]int64{2, 1})

	first := &models.Class{Name: "A", CourseID: course.ID, Form: 1, Semester: 1, AcademicYear: "2026/2027", ElectiveKey: &key}
	require.NoError(t, s.Classes().Create(ctx, first))

	sameKey := &models.Class{Name: "B", CourseID: course.ID, Form: 1, Semester: 1, AcademicYear: "2026/2027", ElectiveKey: strPtr("1,2")}
	assert.ErrorIs(t, s.Classes().Create(ctx, sameKey), apperrors.ErrClassKeyConflict)

	sameNameElective := &models.Class{Name: "A", CourseID: course.ID, Form: 1, Semester: 1, AcademicYear: "2026/2027", ElectiveKey: strPtr("3")}
	assert.NoError(t, s.Classes().Create(ctx, sameNameElective))

	plain := &models.Class{Name: "A", CourseID: course.ID, Form: 1, Semester: 1, AcademicYear: "2026/2027"}
	require.NoError(t, s.Classes().Create(ctx, plain))
	samePlainName := &models.Class{Name: "A", CourseID: course.ID, Form: 1, Semester: 1, AcademicYear: "2026/2027"}
	assert.ErrorIs(t, s.Classes().Create(ctx, samePlainName), apperrors.ErrClassNameConflict)

	found, err := s.Classes().FindPlainByName(ctx, "A", course.ID, 1, 1, "2026/2027")
	require.NoError(t, err)
	assert.Equal(t, plain.ID, found.ID)

	otherYear := &models.Class{Name: "A", CourseID: course.ID, Form: 1, Semester: 1, AcademicYear: "2027/2028", ElectiveKey: &key}
	assert.NoError(t, s.Classes().Create(ctx, otherYear))
}

func TestFindByElectivesExactSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	course := seedCourse(t, s)
	subs := seedSubjects(t, s, course.ID, "PHY", "CHE", "BIO", "ICT")
	year := "2026/2027"

	mk := func(name string, ids ...int64) *models.Class {
		c := &models.Class{Name: name, CourseID: course.ID, Form: 1, Semester: 1, AcademicYear: year}
		require.NoError(t, s.Classes().Create(ctx, c))
		links := make([]models.ClassSubject, 0, len(ids))
		for _, id := range ids {
			links = append(links, models.ClassSubject{ClassID: c.ID, SubjectID: id, IsElective: true})
		}
		require.NoError(t, s.Classes().AddSubjects(ctx, links))
		return c
	}

	superset := mk("superset", subs...)
	exact := mk("exact", subs[0], subs[1], subs[2])
	mk("exact-later", subs[0], subs[1], subs[2])

	got, err := s.Classes().FindByElectives(ctx, course.ID, 1, 1, year, []int64{subs[2], subs[0], subs[1]})
	require.NoError(t, err)
	assert.Equal(t, exact.ID, got.ID)

	got, err = s.Classes().FindByElectives(ctx, course.ID, 1, 1, year, subs)
	require.NoError(t, err)
	assert.Equal(t, superset.ID, got.ID)

	_, err = s.Classes().FindByElectives(ctx, course.ID, 1, 1, year, subs[:2])
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

	_, err = s.Classes().FindByElectives(ctx, course.ID, 2, 1, year, subs[:3])
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)
}

func TestUserDeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	course := seedCourse(t, s)
	subs := seedSubjects(t, s, course.ID, "MAT")

	u := &models.User{Email: "Kofi@School.test", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, s.Users().Create(ctx, u))
	assert.Equal(t, "kofi@school.test", u.Email)

	dup := &models.User{Email: "kofi@school.test", Role: models.RoleStudent}
	assert.ErrorIs(t, s.Users().Create(ctx, dup), apperrors.ErrEmailAlreadyExists)

	st := &models.Student{UserID: u.ID, AdmissionNumber: "ADM1", CourseID: course.ID, IsActive: true}
	require.NoError(t, s.Students().Create(ctx, st))
	res := &models.StudentResult{StudentID: st.ID, SubjectID: subs[0], AcademicYear: "2026/2027", Term: 1}
	require.NoError(t, s.Results().Upsert(ctx, res))

	n, err := s.Users().Delete(ctx, []int64{u.ID, 999})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.Students().GetByID(ctx, st.ID)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	_, err = s.Results().GetByID(ctx, res.ID)
	assert.ErrorIs(t, err, apperrors.ErrResultNotFound)
}

func TestReturnedRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	course := seedCourse(t, s)

	got, err := s.Courses().GetByID(ctx, course.ID)
	require.NoError(t, err)
	got.Name = "changed"

	again, err := s.Courses().GetByID(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "General Science", again.Name)
}
