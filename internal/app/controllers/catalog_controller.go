package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
)

// CatalogController handles courses and subjects
type CatalogController struct {
	courseService  services.CourseService
	subjectService services.SubjectService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(courseService services.CourseService, subjectService services.SubjectService) *CatalogController {
	return &CatalogController{
		courseService:  courseService,
		subjectService: subjectService,
	}
}

// CreateCourse handles course creation
func (c *CatalogController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	course := &models.Course{Name: req.Name, Code: req.Code, Duration: req.Duration}
	if err := c.courseService.CreateCourse(ctx, course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(course, "Course created"))
}

// GetCourses lists all courses
func (c *CatalogController) GetCourses(ctx *gin.Context) {
	courses, err := c.courseService.GetAllCourses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(courses, ""))
}

// GetCourseByID retrieves a course by ID
func (c *CatalogController) GetCourseByID(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourseByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(course, ""))
}

// CreateSubject handles subject creation
func (c *CatalogController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	subject := &models.Subject{
		Name:     req.Name,
		Code:     req.Code,
		CourseID: optionalID(req.CourseID),
		IsCore:   req.IsCore,
	}
	if err := c.subjectService.CreateSubject(ctx, subject); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(subject, "Subject created"))
}

// GetSubjects lists subjects; courseId narrows to that course plus the
// common subjects
func (c *CatalogController) GetSubjects(ctx *gin.Context) {
	courseID, ok := middleware.QueryInt(ctx, "courseId")
	if !ok {
		return
	}

	subjects, err := c.subjectService.ListSubjects(ctx, int64(courseID))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(subjects, ""))
}

// GetSubjectByID retrieves a subject by ID
func (c *CatalogController) GetSubjectByID(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	subject, err := c.subjectService.GetSubjectByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(subject, ""))
}
