package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
)

// AnnouncementController handles announcements
type AnnouncementController struct {
	announcementService services.AnnouncementService
}

// NewAnnouncementController creates a new AnnouncementController
func NewAnnouncementController(announcementService services.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{announcementService: announcementService}
}

// CreateAnnouncement stores an announcement and pushes it to live subscribers
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	var req dto.CreateAnnouncementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	announcement := &models.Announcement{
		Title:    req.Title,
		Body:     req.Body,
		Audience: models.Audience(req.Audience),
		ClassID:  optionalID(req.ClassID),
		AuthorID: optionalID(req.AuthorID),
	}
	if err := c.announcementService.CreateAnnouncement(ctx, announcement); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(announcement, "Announcement created"))
}

// GetAnnouncements lists announcements newest first. Filters: audience,
// classId, limit.
func (c *AnnouncementController) GetAnnouncements(ctx *gin.Context) {
	classID, ok := middleware.QueryInt(ctx, "classId")
	if !ok {
		return
	}
	limit, ok := middleware.QueryInt(ctx, "limit")
	if !ok {
		return
	}

	list, err := c.announcementService.ListAnnouncements(ctx, models.AnnouncementFilter{
		Audience: models.Audience(ctx.Query("audience")),
		ClassID:  int64(classID),
		Limit:    limit,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(list, ""))
}

// DeleteAnnouncement removes an announcement
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	id, ok := middleware.PathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.announcementService.DeleteAnnouncement(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Announcement deleted"))
}
