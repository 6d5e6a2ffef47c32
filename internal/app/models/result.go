package models

import (
	"time"

	"github.com/yigit/schoolhub/internal/pkg/grading"
)

// StudentResult is one student's score in one subject for one academic period.
type StudentResult struct {
	ID           int64             `json:"id" db:"id"`
	StudentID    int64             `json:"studentId" db:"student_id"`
	SubjectID    int64             `json:"subjectId" db:"subject_id"`
	ClassID      *int64            `json:"classId,omitempty" db:"class_id"`
	AcademicYear string            `json:"academicYear" db:"academic_year"`
	Term         int               `json:"term" db:"term"`
	ClassScore   float64           `json:"classScore" db:"class_score"`
	ExamScore    float64           `json:"examScore" db:"exam_score"`
	TotalScore   float64           `json:"totalScore" db:"total_score"`
	Grade        grading.GradeCode `json:"grade" db:"grade"`
	Remarks      string            `json:"remarks" db:"remarks"`
	UpdatedAt    time.Time         `json:"updatedAt" db:"updated_at"`
}

// Recompute derives total, grade and remarks from the two score components.
func (r *StudentResult) Recompute() {
	r.TotalScore = grading.Total(r.ClassScore, r.ExamScore)
	r.Grade = grading.GradeOf(r.TotalScore)
	r.Remarks = grading.RemarkOf(r.Grade)
}

// ResultFilter constrains result listings. Zero values are ignored.
type ResultFilter struct {
	StudentID    int64
	ClassID      int64
	AcademicYear string
	Term         int
}
