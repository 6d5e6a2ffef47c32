package models

// Subject is taught within a course, or across all courses when CourseID is nil.
type Subject struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Code     string `json:"code" db:"code"`
	CourseID *int64 `json:"courseId,omitempty" db:"course_id"`
	IsCore   bool   `json:"isCore" db:"is_core"`
}

// ClassSubject associates a subject with a class
type ClassSubject struct {
	ClassID    int64 `json:"classId" db:"class_id"`
	SubjectID  int64 `json:"subjectId" db:"subject_id"`
	IsElective bool  `json:"isElective" db:"is_elective"`
}
