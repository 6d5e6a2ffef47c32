package models

import "time"

// Class is a teaching group for one course, form and semester in an academic year.
type Class struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	CourseID     int64     `json:"courseId" db:"course_id"`
	Form         int       `json:"form" db:"form"`
	Semester     int       `json:"semester" db:"semester"`
	Stream       *string   `json:"stream,omitempty" db:"stream"`
	AcademicYear string    `json:"academicYear" db:"academic_year"`
	Capacity     int       `json:"capacity" db:"capacity"`
	ElectiveKey  *string   `json:"-" db:"elective_key"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Subjects []*Subject `json:"subjects,omitempty"`
}

// StreamOrEmpty returns the stream letter or "" when unset
func (c *Class) StreamOrEmpty() string {
	if c.Stream == nil {
		return ""
	}
	return *c.Stream
}

// ClassFilter constrains class listings. Zero values are ignored.
type ClassFilter struct {
	CourseID     int64
	Form         int
	Semester     int
	AcademicYear string
}
