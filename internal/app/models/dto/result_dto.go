package dto

// UpsertResultRequest records a student's scores for a subject and term
type UpsertResultRequest struct {
	StudentID    FlexibleID `json:"studentId" binding:"required"`
	SubjectID    FlexibleID `json:"subjectId" binding:"required"`
	AcademicYear string     `json:"academicYear"`
	Term         int        `json:"term" binding:"required"`
	ClassScore   float64    `json:"classScore"`
	ExamScore    float64    `json:"examScore"`
}

// UpdateScoresRequest changes either score component of a result
type UpdateScoresRequest struct {
	ClassScore *float64 `json:"classScore"`
	ExamScore  *float64 `json:"examScore"`
}
