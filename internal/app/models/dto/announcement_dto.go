package dto

// CreateAnnouncementRequest represents announcement creation data
type CreateAnnouncementRequest struct {
	Title    string      `json:"title" binding:"required,max=200"`
	Body     string      `json:"body" binding:"required"`
	Audience string      `json:"audience" binding:"omitempty,oneof=ALL STUDENTS TEACHERS CLASS"`
	ClassID  *FlexibleID `json:"classId"`
	AuthorID *FlexibleID `json:"authorId"`
}
