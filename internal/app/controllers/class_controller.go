package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
)

// ClassController handles class placement and maintenance
type ClassController struct {
	classService     services.ClassService
	promotionService services.PromotionService
}

// NewClassController creates a new ClassController
func NewClassController(classService services.ClassService, promotionService services.PromotionService) *ClassController {
	return &ClassController{
		classService:     classService,
		promotionService: promotionService,
	}
}

// ResolveClass returns the class for an elective combination, creating it
// when the combination has no class yet
func (c *ClassController) ResolveClass(ctx *gin.Context) {
	var req dto.ResolveClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	class, err := c.classService.ResolveOrCreateClass(ctx,
		int64(req.CourseID), req.ElectiveSubjectIDs.Int64s(), req.Form, req.Semester, req.AcademicYear)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(class, "Class resolved"))
}

// CreateClass creates a class without electives on the next free stream
func (c *ClassController) CreateClass(ctx *gin.Context) {
	var req dto.CreateClassRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	class, err := c.classService.CreateClass(ctx, services.CreateClassInput{
		CourseID:     int64(req.CourseID),
		Form:         req.Form,
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		Capacity:     req.Capacity,
		SubjectIDs:   req.SubjectIDs.Int64s(),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(class, "Class created"))
}

// AddClassSubjects links core and elective subjects to a class
func (c *ClassController) AddClassSubjects(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.AddClassSubjectsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	class, err := c.classService.AddClassSubjects(ctx, id, req.CoreSubjectIDs.Int64s(), req.ElectiveSubjectIDs.Int64s())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(class, "Class subjects updated"))
}

// GetClasses lists classes, optionally filtered by course, form, semester
// and academic year
func (c *ClassController) GetClasses(ctx *gin.Context) {
	courseID, ok := middleware.QueryInt(ctx, "courseId")
	if !ok {
		return
	}
	form, ok := middleware.QueryInt(ctx, "form")
	if !ok {
		return
	}
	semester, ok := middleware.QueryInt(ctx, "semester")
	if !ok {
		return
	}

	classes, err := c.classService.ListClasses(ctx, models.ClassFilter{
		CourseID:     int64(courseID),
		Form:         form,
		Semester:     semester,
		AcademicYear: ctx.Query("academicYear"),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(classes, ""))
}

// GetClassByID returns a class with its subjects
func (c *ClassController) GetClassByID(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	class, err := c.classService.GetClassByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(class, ""))
}

// DeleteAllClasses wipes every class. The caller must pass confirm=true.
func (c *ClassController) DeleteAllClasses(ctx *gin.Context) {
	if ctx.Query("confirm") != "true" {
		middleware.BadRequest(ctx, "deleting all classes requires confirm=true")
		return
	}

	result, err := c.classService.DeleteAllClasses(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result, "All classes deleted"))
}

// PromoteStudents moves the active students of one period into the next
func (c *ClassController) PromoteStudents(ctx *gin.Context) {
	var req dto.PromoteStudentsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.promotionService.PromoteStudents(ctx, services.PromotionRequest{
		CurrentYear:  req.CurrentYear,
		TargetYear:   req.TargetYear,
		FromForm:     req.FromForm,
		FromSemester: req.FromSemester,
		ToForm:       req.ToForm,
		ToSemester:   req.ToSemester,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result, "Students promoted"))
}
