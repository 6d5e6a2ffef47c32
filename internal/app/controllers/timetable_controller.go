package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
)

// TimetableController handles weekly lesson slots
type TimetableController struct {
	timetableService services.TimetableService
}

// NewTimetableController creates a new TimetableController
func NewTimetableController(timetableService services.TimetableService) *TimetableController {
	return &TimetableController{timetableService: timetableService}
}

// CreateEntry adds a lesson slot, rejecting overlaps
func (c *TimetableController) CreateEntry(ctx *gin.Context) {
	var req dto.CreateTimetableEntryRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	entry := &models.TimetableEntry{
		ClassID:   int64(req.ClassID),
		SubjectID: int64(req.SubjectID),
		TeacherID: optionalID(req.TeacherID),
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Room:      req.Room,
	}
	if err := c.timetableService.CreateEntry(ctx, entry); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(entry, "Timetable entry created"))
}

// GetClassTimetable lists a class's lessons for the week
func (c *TimetableController) GetClassTimetable(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	entries, err := c.timetableService.ListByClass(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entries, ""))
}

// DeleteEntry removes a lesson slot
func (c *TimetableController) DeleteEntry(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.timetableService.DeleteEntry(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Timetable entry deleted"))
}
