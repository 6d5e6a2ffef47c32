package dto

// ResolveClassRequest asks for the class matching an elective combination
type ResolveClassRequest struct {
	CourseID           FlexibleID  `json:"courseId" binding:"required"`
	ElectiveSubjectIDs FlexibleIDs `json:"electiveSubjectIds" binding:"required,min=1"`
	Form               int         `json:"form" binding:"required"`
	Semester           int         `json:"semester" binding:"required"`
	AcademicYear       string      `json:"academicYear"`
}

// CreateClassRequest creates a class without electives. SubjectIDs are
// linked as core subjects.
type CreateClassRequest struct {
	CourseID     FlexibleID  `json:"courseId" binding:"required"`
	Form         int         `json:"form" binding:"required"`
	Semester     int         `json:"semester" binding:"required"`
	AcademicYear string      `json:"academicYear"`
	Capacity     int         `json:"capacity" binding:"omitempty,min=1,max=500"`
	SubjectIDs   FlexibleIDs `json:"subjectIds"`
}

// AddClassSubjectsRequest links subjects to an existing class
type AddClassSubjectsRequest struct {
	CoreSubjectIDs     FlexibleIDs `json:"coreSubjectIds"`
	ElectiveSubjectIDs FlexibleIDs `json:"electiveSubjectIds"`
}

// PromoteStudentsRequest moves the active students of one period into another
type PromoteStudentsRequest struct {
	CurrentYear  string `json:"currentYear" binding:"required"`
	TargetYear   string `json:"targetYear" binding:"required"`
	FromForm     int    `json:"fromForm" binding:"required"`
	FromSemester int    `json:"fromSemester" binding:"required"`
	ToForm       int    `json:"toForm" binding:"required"`
	ToSemester   int    `json:"toSemester" binding:"required"`
}

// CreateTimetableEntryRequest represents one weekly lesson slot
type CreateTimetableEntryRequest struct {
	ClassID   FlexibleID  `json:"classId" binding:"required"`
	SubjectID FlexibleID  `json:"subjectId" binding:"required"`
	TeacherID *FlexibleID `json:"teacherId"`
	DayOfWeek int         `json:"dayOfWeek" binding:"required,min=1,max=7"`
	StartTime string      `json:"startTime" binding:"required" example:"08:00"`
	EndTime   string      `json:"endTime" binding:"required" example:"09:30"`
	Room      string      `json:"room" binding:"max=50"`
}
