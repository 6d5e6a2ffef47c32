package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
)

func TestTimetable_Conflicts(t *testing.T) {
	f := newFixture(t)
	a := f.plainClass(1, 1, testYear, "A")
	b := f.plainClass(1, 1, testYear, "B")
	teachers := NewTeacherService(f.store, f.hasher)
	teacher, err := teachers.RegisterTeacher(f.ctx, RegisterTeacherInput{
		AccountInput: AccountInput{Email: "kwame@school.test", Password: "teach1234", FirstName: "Kwame", LastName: "Boateng"},
		StaffNumber:  "T001",
	})
	require.NoError(t, err)

	svc := NewTimetableService(f.store)
	phy := f.subjects["PHY"].ID
	entry := &models.TimetableEntry{ClassID: a.ID, SubjectID: phy, TeacherID: &teacher.ID, DayOfWeek: 1, StartTime: "8:00", EndTime: "09:00", Room: " Lab 1 "}
	require.NoError(t, svc.CreateEntry(f.ctx, entry))
	assert.Equal(t, "08:00", entry.StartTime)
	assert.Equal(t, "Lab 1", entry.Room)

	tests := []struct {
		name  string
		entry *models.TimetableEntry
		want  error
	}{
		{"class overlap", &models.TimetableEntry{ClassID: a.ID, SubjectID: phy, DayOfWeek: 1, StartTime: "08:30", EndTime: "09:30"}, apperrors.ErrConflict},
		{"teacher double booked", &models.TimetableEntry{ClassID: b.ID, SubjectID: phy, TeacherID: &teacher.ID, DayOfWeek: 1, StartTime: "08:59", EndTime: "10:00"}, apperrors.ErrConflict},
		{"end before start", &models.TimetableEntry{ClassID: a.ID, SubjectID: phy, DayOfWeek: 2, StartTime: "10:00", EndTime: "09:00"}, apperrors.ErrValidationFailed},
		{"bad clock", &models.TimetableEntry{ClassID: a.ID, SubjectID: phy, DayOfWeek: 2, StartTime: "25:00", EndTime: "26:00"}, apperrors.ErrValidationFailed},
		{"bad day", &models.TimetableEntry{ClassID: a.ID, SubjectID: phy, DayOfWeek: 8, StartTime: "10:00", EndTime: "11:00"}, apperrors.ErrValidationFailed},
		{"unknown class", &models.TimetableEntry{ClassID: 999, SubjectID: phy, DayOfWeek: 2, StartTime: "10:00", EndTime: "11:00"}, apperrors.ErrResourceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, svc.CreateEntry(f.ctx, tt.entry), tt.want)
		})
	}

	// Back-to-back lessons do not overlap.
	require.NoError(t, svc.CreateEntry(f.ctx, &models.TimetableEntry{ClassID: b.ID, SubjectID: phy, TeacherID: &teacher.ID, DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}))

	mine, err := svc.ListByTeacher(f.ctx, teacher.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, svc.DeleteEntry(f.ctx, entry.ID))
	assert.ErrorIs(t, svc.DeleteEntry(f.ctx, entry.ID), apperrors.ErrResourceNotFound)
}

func TestTeacherAssignments(t *testing.T) {
	f := newFixture(t)
	class := f.plainClass(1, 1, testYear, "A")
	svc := NewTeacherService(f.store, f.hasher)
	teacher, err := svc.RegisterTeacher(f.ctx, RegisterTeacherInput{
		AccountInput: AccountInput{Email: "esi@school.test", Password: "teach1234", FirstName: "Esi", LastName: "Owusu"},
		StaffNumber:  "T002",
	})
	require.NoError(t, err)

	_, err = svc.AssignSubject(f.ctx, teacher.ID, f.subjects["BIO"].ID, class.ID)
	require.NoError(t, err)
	_, err = svc.AssignSubject(f.ctx, teacher.ID, f.subjects["BIO"].ID, class.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	list, err := svc.ListAssignments(f.ctx, teacher.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.RegisterTeacher(f.ctx, RegisterTeacherInput{
		AccountInput: AccountInput{Email: "esi2@school.test", Password: "teach1234", FirstName: "Esi", LastName: "Owusu"},
		StaffNumber:  "T002",
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
}
