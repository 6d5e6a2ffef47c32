package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
)

// TeacherController handles teacher records and their assignments
type TeacherController struct {
	teacherService   services.TeacherService
	timetableService services.TimetableService
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService services.TeacherService, timetableService services.TimetableService) *TeacherController {
	return &TeacherController{
		teacherService:   teacherService,
		timetableService: timetableService,
	}
}

// RegisterTeacher creates a teacher and its login account
func (c *TeacherController) RegisterTeacher(ctx *gin.Context) {
	var req dto.RegisterTeacherRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	teacher, err := c.teacherService.RegisterTeacher(ctx, services.RegisterTeacherInput{
		AccountInput: toAccountInput(req.AccountRequest),
		StaffNumber:  req.StaffNumber,
		Phone:        req.Phone,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(teacher, "Teacher registered"))
}

// GetTeachers lists all teachers
func (c *TeacherController) GetTeachers(ctx *gin.Context) {
	teachers, err := c.teacherService.ListTeachers(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(teachers, ""))
}

// GetTeacherByID retrieves a teacher by ID
func (c *TeacherController) GetTeacherByID(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	teacher, err := c.teacherService.GetTeacherByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(teacher, ""))
}

// AssignSubject assigns the teacher to a subject in a class
func (c *TeacherController) AssignSubject(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.AssignSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	assignment, err := c.teacherService.AssignSubject(ctx, id, int64(req.SubjectID), int64(req.ClassID))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(assignment, "Subject assigned"))
}

// GetAssignments lists the teacher's subject assignments
func (c *TeacherController) GetAssignments(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	assignments, err := c.teacherService.ListAssignments(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(assignments, ""))
}

// GetTimetable lists the teacher's lessons for the week
func (c *TeacherController) GetTimetable(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	entries, err := c.timetableService.ListByTeacher(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entries, ""))
}
