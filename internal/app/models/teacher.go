package models

import "time"

// Teacher defines the teacher model based on the 'teachers' table
type Teacher struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	StaffNumber string    `json:"staffNumber" db:"staff_number"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	User *User `json:"user,omitempty"`
}

// TeacherSubject assigns a teacher to teach a subject in a class
type TeacherSubject struct {
	ID        int64 `json:"id" db:"id"`
	TeacherID int64 `json:"teacherId" db:"teacher_id"`
	SubjectID int64 `json:"subjectId" db:"subject_id"`
	ClassID   int64 `json:"classId" db:"class_id"`
}
