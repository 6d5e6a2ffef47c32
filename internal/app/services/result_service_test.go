package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/grading"
)

func TestUpsertResult_ComputesGradeAndUpserts(t *testing.T) {
	f := newFixture(t)
	class := f.plainClass(1, 1, testYear, "A")
	st := f.student(&class.ID, true)
	svc := NewResultService(f.store, f.settings)

	in := ResultInput{StudentID: st.ID, SubjectID: f.subjects["PHY"].ID, Term: 1, ClassScore: 24.25, ExamScore: 55.7}
	first, err := svc.UpsertResult(f.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 80.0, first.TotalScore)
	assert.Equal(t, grading.A1, first.Grade)
	assert.Equal(t, "Excellent", first.Remarks)
	assert.Equal(t, testYear, first.AcademicYear)
	require.NotNil(t, first.ClassID)
	assert.Equal(t, class.ID, *first.ClassID)

	in.ExamScore = 20
	second, err := svc.UpsertResult(f.ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, grading.F9, second.Grade)
	assert.Equal(t, "Fail", second.Remarks)

	list, err := svc.ListResultsByStudent(f.ctx, st.ID, testYear, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 44.3, list[0].TotalScore)

	byClass, err := svc.ListResultsByClass(f.ctx, class.ID, "", 1)
	require.NoError(t, err)
	assert.Len(t, byClass, 1)
}

func TestUpsertResult_Validation(t *testing.T) {
	f := newFixture(t)
	st := f.student(nil, true)
	svc := NewResultService(f.store, f.settings)
	sub := f.subjects["BIO"].ID

	tests := []struct {
		name string
		in   ResultInput
		want error
	}{
		{"negative class score", ResultInput{StudentID: st.ID, SubjectID: sub, Term: 1, ClassScore: -1, ExamScore: 10}, apperrors.ErrValidationFailed},
		{"exam above max", ResultInput{StudentID: st.ID, SubjectID: sub, Term: 1, ExamScore: 100.5}, apperrors.ErrValidationFailed},
		{"total above max", ResultInput{StudentID: st.ID, SubjectID: sub, Term: 1, ClassScore: 40, ExamScore: 70}, apperrors.ErrValidationFailed},
		{"bad term", ResultInput{StudentID: st.ID, SubjectID: sub, Term: 4, ClassScore: 10}, apperrors.ErrValidationFailed},
		{"unknown student", ResultInput{StudentID: 999, SubjectID: sub, Term: 1, ClassScore: 10}, apperrors.ErrResourceNotFound},
		{"unknown subject", ResultInput{StudentID: st.ID, SubjectID: 999, Term: 1, ClassScore: 10}, apperrors.ErrResourceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertResult(f.ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateScores_PartialUpdate(t *testing.T) {
	f := newFixture(t)
	st := f.student(nil, true)
	svc := NewResultService(f.store, f.settings)

	res, err := svc.UpsertResult(f.ctx, ResultInput{StudentID: st.ID, SubjectID: f.subjects["ICT"].ID, Term: 2, ClassScore: 20, ExamScore: 40})
	require.NoError(t, err)
	assert.Equal(t, grading.C5, res.Grade)

	exam := 56.0
	updated, err := svc.UpdateScores(f.ctx, res.ID, nil, &exam)
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.ClassScore)
	assert.Equal(t, 76.0, updated.TotalScore)
	assert.Equal(t, grading.B2, updated.Grade)
	assert.Equal(t, "Very Good", updated.Remarks)

	tooHigh := 90.0
	_, err = svc.UpdateScores(f.ctx, res.ID, &tooHigh, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	stored, err := f.store.Results().GetByID(f.ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 76.0, stored.TotalScore)

	_, err = svc.UpdateScores(f.ctx, 999, &exam, nil)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
