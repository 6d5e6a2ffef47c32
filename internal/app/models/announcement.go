package models

import "time"

// Audience selects who an announcement is meant for
type Audience string

const (
	AudienceAll      Audience = "ALL"
	AudienceStudents Audience = "STUDENTS"
	AudienceTeachers Audience = "TEACHERS"
	AudienceClass    Audience = "CLASS"
)

// Announcement defines the announcement model based on the 'announcements' table
type Announcement struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Audience  Audience  `json:"audience" db:"audience"`
	ClassID   *int64    `json:"classId,omitempty" db:"class_id"`
	AuthorID  *int64    `json:"authorId,omitempty" db:"author_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// AnnouncementFilter constrains announcement listings. Zero values are ignored.
type AnnouncementFilter struct {
	Audience Audience
	ClassID  int64
	Limit    int
}
