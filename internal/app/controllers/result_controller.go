package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
)

// ResultController handles the gradebook
type ResultController struct {
	resultService services.ResultService
}

// NewResultController creates a new ResultController
func NewResultController(resultService services.ResultService) *ResultController {
	return &ResultController{resultService: resultService}
}

// UpsertResult records a student's scores; grade and remarks are computed
func (c *ResultController) UpsertResult(ctx *gin.Context) {
	var req dto.UpsertResultRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.resultService.UpsertResult(ctx, services.ResultInput{
		StudentID:    int64(req.StudentID),
		SubjectID:    int64(req.SubjectID),
		AcademicYear: req.AcademicYear,
		Term:         req.Term,
		ClassScore:   req.ClassScore,
		ExamScore:    req.ExamScore,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result, "Result saved"))
}

// UpdateScores changes either score component of a result
func (c *ResultController) UpdateScores(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateScoresRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.resultService.UpdateScores(ctx, id, req.ClassScore, req.ExamScore)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result, "Result updated"))
}

// GetStudentResults lists a student's results, filtered by academicYear and term
func (c *ResultController) GetStudentResults(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	term, ok := middleware.QueryInt(ctx, "term")
	if !ok {
		return
	}

	results, err := c.resultService.ListResultsByStudent(ctx, id, ctx.Query("academicYear"), term)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(results, ""))
}

// GetClassResults lists the results recorded against a class
func (c *ResultController) GetClassResults(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}
	term, ok := middleware.QueryInt(ctx, "term")
	if !ok {
		return
	}

	results, err := c.resultService.ListResultsByClass(ctx, id, ctx.Query("academicYear"), term)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(results, ""))
}
