package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
	"github.com/yigit/schoolhub/internal/pkg/helpers"
)

// StudentController handles student records
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// RegisterStudent creates a student and its login account
func (c *StudentController) RegisterStudent(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	in, err := toRegisterStudentInput(req)
	if err != nil {
		middleware.BadRequest(ctx, "dateOfBirth must be a date in YYYY-MM-DD format")
		return
	}

	student, err := c.studentService.RegisterStudent(ctx, in)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(student, "Student registered"))
}

// GetStudents lists one page of students. Filters: courseId, classId, active.
func (c *StudentController) GetStudents(ctx *gin.Context) {
	courseID, ok := middleware.QueryInt(ctx, "courseId")
	if !ok {
		return
	}
	classID, ok := middleware.QueryInt(ctx, "classId")
	if !ok {
		return
	}

	var active *bool
	if raw := ctx.Query("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.BadRequest(ctx, "active must be true or false")
			return
		}
		active = &v
	}

	page, size := helpers.ParsePaginationParams(ctx)
	students, total, err := c.studentService.ListStudents(ctx, models.StudentFilter{
		CourseID: int64(courseID),
		ClassID:  int64(classID),
		IsActive: active,
		Page:     page - 1,
		Size:     size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.StudentListResponse{
		Students:   students,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// GetStudentByID retrieves a student by ID
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, ""))
}

// UpdateStudent replaces a student's editable profile fields
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	dob, ok := parseDate(ctx, "dateOfBirth", req.DateOfBirth)
	if !ok {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, services.StudentProfileInput{
		CourseID:      int64(req.CourseID),
		DateOfBirth:   dob,
		Gender:        req.Gender,
		GuardianName:  req.GuardianName,
		GuardianPhone: req.GuardianPhone,
		Address:       req.Address,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, "Student updated"))
}

// AssignClass moves a student into a class, or out of any class
func (c *StudentController) AssignClass(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.AssignClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.AssignClass(ctx, id, optionalID(req.ClassID))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(student, "Class assigned"))
}
