package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID              int64      `json:"id" db:"id"`
	UserID          int64      `json:"userId" db:"user_id"`
	AdmissionNumber string     `json:"admissionNumber" db:"admission_number"`
	CourseID        int64      `json:"courseId" db:"course_id"`
	CurrentClassID  *int64     `json:"currentClassId,omitempty" db:"current_class_id"`
	IsActive        bool       `json:"isActive" db:"is_active"`
	DateOfBirth     *time.Time `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender          string     `json:"gender,omitempty" db:"gender"`
	GuardianName    string     `json:"guardianName,omitempty" db:"guardian_name"`
	GuardianPhone   string     `json:"guardianPhone,omitempty" db:"guardian_phone"`
	Address         string     `json:"address,omitempty" db:"address"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`
}

// StudentFilter constrains student listings. Zero values are ignored.
type StudentFilter struct {
	CourseID int64
	ClassID  int64
	IsActive *bool
	Page     int
	Size     int
}
