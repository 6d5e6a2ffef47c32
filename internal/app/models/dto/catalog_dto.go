package dto

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Code     string `json:"code" binding:"required,max=10"`
	Duration int    `json:"duration" binding:"omitempty,min=1,max=6"`
}

// CreateSubjectRequest represents subject creation data. A subject without
// a course is common to every course.
type CreateSubjectRequest struct {
	Name     string      `json:"name" binding:"required,max=100"`
	Code     string      `json:"code" binding:"required,max=20"`
	CourseID *FlexibleID `json:"courseId"`
	IsCore   bool        `json:"isCore"`
}
