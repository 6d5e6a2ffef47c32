package dto

import "github.com/yigit/schoolhub/internal/app/models"

// AccountRequest holds the login fields of a registration
type AccountRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required,max=50"`
	LastName  string `json:"lastName" binding:"required,max=50"`
}

// RegisterStudentRequest represents student registration data
type RegisterStudentRequest struct {
	AccountRequest
	AdmissionNumber string      `json:"admissionNumber" binding:"required,max=30"`
	CourseID        FlexibleID  `json:"courseId" binding:"required"`
	ClassID         *FlexibleID `json:"classId"`
	DateOfBirth     string      `json:"dateOfBirth" example:"2009-03-14"`
	Gender          string      `json:"gender" example:"FEMALE"`
	GuardianName    string      `json:"guardianName"`
	GuardianPhone   string      `json:"guardianPhone"`
	Address         string      `json:"address"`
}

// UpdateStudentRequest represents editable student profile data
type UpdateStudentRequest struct {
	CourseID      FlexibleID `json:"courseId" binding:"required"`
	DateOfBirth   string     `json:"dateOfBirth" example:"2009-03-14"`
	Gender        string     `json:"gender"`
	GuardianName  string     `json:"guardianName"`
	GuardianPhone string     `json:"guardianPhone"`
	Address       string     `json:"address"`
}

// AssignClassRequest moves a student into a class; null clears the class
type AssignClassRequest struct {
	ClassID *FlexibleID `json:"classId"`
}

// StudentListResponse is one page of students
type StudentListResponse struct {
	Students   []*models.Student `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// RegisterTeacherRequest represents teacher registration data
type RegisterTeacherRequest struct {
	AccountRequest
	StaffNumber string `json:"staffNumber" binding:"required,max=30"`
	Phone       string `json:"phone"`
}

// AssignSubjectRequest assigns a teacher to a subject in a class
type AssignSubjectRequest struct {
	SubjectID FlexibleID `json:"subjectId" binding:"required"`
	ClassID   FlexibleID `json:"classId" binding:"required"`
}

// BulkRegisterStudentsRequest carries rows validated one by one
type BulkRegisterStudentsRequest struct {
	Students []RegisterStudentRequest `json:"students" binding:"required,min=1"`
}

// UserIDsRequest names the users a bulk operation applies to
type UserIDsRequest struct {
	UserIDs FlexibleIDs `json:"userIds" binding:"required,min=1"`
}

// SetUsersActiveRequest activates or deactivates users
type SetUsersActiveRequest struct {
	UserIDs  FlexibleIDs `json:"userIds" binding:"required,min=1"`
	IsActive *bool       `json:"isActive" binding:"required"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the authenticated user's profile
type LoginResponse struct {
	User *models.User `json:"user"`
}
