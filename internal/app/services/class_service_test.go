package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

func TestResolveOrCreateClass_CreatesNamedClass(t *testing.T) {
	f := newFixture(t)
	svc := f.classService()

	class, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("ICT", "BIO", "PHY", "CHE"), 1, 1, "")
	require.NoError(t, err)

	assert.Equal(t, "General 1 Physics-Chemistry-Biology-ICT S1", class.Name)
	assert.Equal(t, "A", class.StreamOrEmpty())
	assert.Equal(t, testYear, class.AcademicYear)
	assert.Equal(t, 45, class.Capacity)
	require.Len(t, class.Subjects, 4)
	for _, s := range class.Subjects {
		assert.Contains(t, f.ids("PHY", "CHE", "BIO", "ICT"), s.ID)
	}
}

func TestResolveOrCreateClass_IsIdempotentAcrossOrderings(t *testing.T) {
	f := newFixture(t)
	svc := f.classService()

	first, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHY", "CHE", "BIO"), 1, 1, "")
	require.NoError(t, err)
	second, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("BIO", "PHY", "CHE", "PHY"), 1, 1, testYear)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	classes, err := svc.ListClasses(f.ctx, models.ClassFilter{CourseID: f.course.ID})
	require.NoError(t, err)
	assert.Len(t, classes, 1)
}

func TestResolveOrCreateClass_ExactSetOnly(t *testing.T) {
	f := newFixture(t)
	svc := f.classService()

	full, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHY", "CHE", "BIO", "ICT"), 1, 1, "")
	require.NoError(t, err)
	subset, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHY", "CHE", "BIO"), 1, 1, "")
	require.NoError(t, err)
	superset, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHY", "CHE", "BIO", "ICT", "EMATH"), 1, 1, "")
	require.NoError(t, err)

	assert.NotEqual(t, full.ID, subset.ID)
	assert.NotEqual(t, full.ID, superset.ID)
	assert.Equal(t, "A", full.StreamOrEmpty())
	assert.Equal(t, "B", subset.StreamOrEmpty())
	assert.Equal(t, "C", superset.StreamOrEmpty())
}

func TestResolveOrCreateClass_PeriodsAreIndependent(t *testing.T) {
	f := newFixture(t)
	svc := f.classService()
	ids := f.ids("PHY", "CHE")

	s1, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, ids, 1, 1, "")
	require.NoError(t, err)
	s2, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, ids, 1, 2, "")
	require.NoError(t, err)
	f2, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, ids, 2, 1, "")
	require.NoError(t, err)

	assert.NotEqual(t, s1.ID, s2.ID)
	assert.NotEqual(t, s1.ID, f2.ID)
	assert.Equal(t, "General 1 Physics-Chemistry S2", s2.Name)
	assert.Equal(t, "General 2 Physics-Chemistry S1", f2.Name)
	assert.Equal(t, "A", s2.StreamOrEmpty())
}

func TestResolveOrCreateClass_StreamFollowsExistingMax(t *testing.T) {
	f := newFixture(t)
	f.plainClass(1, 1, testYear, "Z")

	class, err := f.classService().ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("ICT"), 1, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "AA", class.StreamOrEmpty())
}

func TestResolveOrCreateClass_Validation(t *testing.T) {
	f := newFixture(t)
	svc := f.classService()

	tests := []struct {
		name     string
		courseID int64
		ids      []int64
		form     int
		semester int
		want     error
	}{
		{"zero course", 0, f.ids("PHY"), 1, 1, apperrors.ErrValidationFailed},
		{"no electives", f.course.ID, nil, 1, 1, apperrors.ErrValidationFailed},
		{"negative elective", f.course.ID, []int64{-1}, 1, 1, apperrors.ErrValidationFailed},
		{"form too high", f.course.ID, f.ids("PHY"), 4, 1, apperrors.ErrValidationFailed},
		{"bad semester", f.course.ID, f.ids("PHY"), 1, 3, apperrors.ErrValidationFailed},
		{"unknown course", 999, f.ids("PHY"), 1, 1, apperrors.ErrResourceNotFound},
		{"unknown subject", f.course.ID, []int64{f.subjects["PHY"].ID, 999}, 1, 1, apperrors.ErrResourceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ResolveOrCreateClass(f.ctx, tt.courseID, tt.ids, tt.form, tt.semester, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	classes, err := svc.ListClasses(f.ctx, models.ClassFilter{})
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestResolveOrCreateClass_ConcurrentCallsShareOneClass(t *testing.T) {
	f := newFixture(t)
	svc := f.classService()

	const workers = 8
	ids := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			class, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("BIO", "CHE"), 1, 1, "")
			if assert.NoError(t, err) {
				ids[i] = class.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id)
	}
}

func TestDeleteAllClasses_KeepsResults(t *testing.T) {
	f := newFixture(t)
	class := f.plainClass(1, 1, testYear, "A")
	st := f.student(&class.ID, true)

	results := NewResultService(f.store, f.settings)
	res, err := results.UpsertResult(f.ctx, ResultInput{StudentID: st.ID, SubjectID: f.subjects["ENG"].ID, Term: 1, ClassScore: 25, ExamScore: 50})
	require.NoError(t, err)
	require.NotNil(t, res.ClassID)

	timetable := NewTimetableService(f.store)
	require.NoError(t, timetable.CreateEntry(f.ctx, &models.TimetableEntry{ClassID: class.ID, SubjectID: f.subjects["ENG"].ID, DayOfWeek: 1, StartTime: "08:00", EndTime: "09:00"}))

	out, err := f.classService().DeleteAllClasses(f.ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, out.ClassesDeleted)
	assert.EqualValues(t, 1, out.StudentsUnassigned)
	assert.EqualValues(t, 1, out.TimetableDeleted)

	assert.Nil(t, f.reload(st).CurrentClassID)
	kept, err := f.store.Results().GetByID(f.ctx, res.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.ClassID)
	assert.Equal(t, 75.0, kept.TotalScore)
}

func TestResolveOrCreateClass_RejectsMalformedYear(t *testing.T) {
	f := newFixture(t)

	_, err := f.classService().ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHY"), 1, 1, "2026-27")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestResolveOrCreateClass_SameNameDifferentElectives(t *testing.T) {
	f := newFixture(t)
	f.subject("PHYG", "Physics", nil, false)
	svc := f.classService()

	course, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHY"), 1, 1, "")
	require.NoError(t, err)
	common, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHYG"), 1, 1, "")
	require.NoError(t, err)

	assert.NotEqual(t, course.ID, common.ID)
	assert.Equal(t, course.Name, common.Name)
	assert.Equal(t, "General 1 Physics S1", common.Name)
	assert.Equal(t, "B", common.StreamOrEmpty())
	require.Len(t, common.Subjects, 1)
	assert.Equal(t, f.subjects["PHYG"].ID, common.Subjects[0].ID)

	again, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHYG"), 1, 1, "")
	require.NoError(t, err)
	assert.Equal(t, common.ID, again.ID)
}

func TestResolveOrCreateClass_RejectsForeignAndCoreElectives(t *testing.T) {
	f := newFixture(t)
	arts := &models.Course{Name: "General Arts", Code: "GAR", Duration: 3}
	require.NoError(t, f.store.Courses().Create(f.ctx, arts))
	f.subject("LIT", "Literature", &arts.ID, false)
	svc := f.classService()

	_, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHY", "LIT"), 1, 1, "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHY", "ENG"), 1, 1, "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	classes, err := svc.ListClasses(f.ctx, models.ClassFilter{})
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestCreateClass_AssignsNextStream(t *testing.T) {
	f := newFixture(t)
	svc := f.classService()

	first, err := svc.CreateClass(f.ctx, CreateClassInput{CourseID: f.course.ID, Form: 1, Semester: 1, SubjectIDs: f.ids("ENG")})
	require.NoError(t, err)
	assert.Equal(t, "General Science 1A", first.Name)
	assert.Equal(t, "A", first.StreamOrEmpty())
	assert.Equal(t, testYear, first.AcademicYear)
	assert.Equal(t, 45, first.Capacity)
	assert.Nil(t, first.ElectiveKey)
	require.Len(t, first.Subjects, 1)
	assert.Equal(t, f.subjects["ENG"].ID, first.Subjects[0].ID)

	second, err := svc.CreateClass(f.ctx, CreateClassInput{CourseID: f.course.ID, Form: 1, Semester: 1})
	require.NoError(t, err)
	assert.Equal(t, "General Science 1B", second.Name)

	// Resolver and plain classes share the stream sequence of a period.
	elective, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("PHY"), 1, 1, "")
	require.NoError(t, err)
	assert.Equal(t, "C", elective.StreamOrEmpty())
}

func TestCreateClass_Validation(t *testing.T) {
	f := newFixture(t)
	arts := &models.Course{Name: "General Arts", Code: "GAR", Duration: 3}
	require.NoError(t, f.store.Courses().Create(f.ctx, arts))
	f.subject("LIT", "Literature", &arts.ID, false)
	svc := f.classService()

	tests := []struct {
		name string
		in   CreateClassInput
		want error
	}{
		{"zero course", CreateClassInput{Form: 1, Semester: 1}, apperrors.ErrValidationFailed},
		{"form too high", CreateClassInput{CourseID: f.course.ID, Form: 4, Semester: 1}, apperrors.ErrValidationFailed},
		{"bad semester", CreateClassInput{CourseID: f.course.ID, Form: 1, Semester: 0}, apperrors.ErrValidationFailed},
		{"negative capacity", CreateClassInput{CourseID: f.course.ID, Form: 1, Semester: 1, Capacity: -1}, apperrors.ErrValidationFailed},
		{"malformed year", CreateClassInput{CourseID: f.course.ID, Form: 1, Semester: 1, AcademicYear: "2026"}, apperrors.ErrValidationFailed},
		{"unknown course", CreateClassInput{CourseID: 999, Form: 1, Semester: 1}, apperrors.ErrResourceNotFound},
		{"unknown subject", CreateClassInput{CourseID: f.course.ID, Form: 1, Semester: 1, SubjectIDs: []int64{999}}, apperrors.ErrResourceNotFound},
		{"subject of another course", CreateClassInput{CourseID: f.course.ID, Form: 1, Semester: 1, SubjectIDs: f.ids("LIT")}, apperrors.ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateClass(f.ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	classes, err := svc.ListClasses(f.ctx, models.ClassFilter{})
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestAddClassSubjects(t *testing.T) {
	f := newFixture(t)
	svc := f.classService()

	plain, err := svc.CreateClass(f.ctx, CreateClassInput{CourseID: f.course.ID, Form: 1, Semester: 1})
	require.NoError(t, err)
	updated, err := svc.AddClassSubjects(f.ctx, plain.ID, f.ids("ENG"), f.ids("PHY"))
	require.NoError(t, err)
	assert.Len(t, updated.Subjects, 2)

	elective, err := svc.ResolveOrCreateClass(f.ctx, f.course.ID, f.ids("CHE", "BIO"), 1, 1, "")
	require.NoError(t, err)

	updated, err = svc.AddClassSubjects(f.ctx, elective.ID, f.ids("ENG"), f.ids("CHE"))
	require.NoError(t, err)
	assert.Len(t, updated.Subjects, 3)

	_, err = svc.AddClassSubjects(f.ctx, elective.ID, nil, f.ids("ICT"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.AddClassSubjects(f.ctx, elective.ID, f.ids("PHY"), f.ids("PHY"))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.AddClassSubjects(f.ctx, elective.ID, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.AddClassSubjects(f.ctx, 999, f.ids("ENG"), nil)
	assert.ErrorIs(t, err, apperrors.ErrClassNotFound)

	kept, err := svc.GetClassByID(f.ctx, elective.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Subjects, 3)
}
