package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolhub/internal/app/models"
	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
)

// UserController handles account administration and login
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// BulkRegisterStudents registers many students; bad rows are reported, not fatal
func (c *UserController) BulkRegisterStudents(ctx *gin.Context) {
	var req dto.BulkRegisterStudentsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rows := make([]services.RegisterStudentInput, 0, len(req.Students))
	var badDates []services.BulkFailure
	for i, row := range req.Students {
		in, err := toRegisterStudentInput(row)
		if err != nil {
			badDates = append(badDates, services.BulkFailure{
				Index: i,
				Email: row.Email,
				Error: "dateOfBirth must be a date in YYYY-MM-DD format",
			})
			continue
		}
		rows = append(rows, in)
	}

	result := &services.BulkRegisterResult{Created: []*models.Student{}, Failed: []services.BulkFailure{}}
	if len(rows) > 0 {
		var err error
		if result, err = c.userService.BulkRegisterStudents(ctx, rows); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}
	if len(badDates) > 0 {
		result.Failed = append(remapIndexes(result.Failed, badDates), badDates...)
		sort.Slice(result.Failed, func(i, j int) bool { return result.Failed[i].Index < result.Failed[j].Index })
	}

	status := http.StatusCreated
	if len(result.Created) == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, dto.NewAPIResponse(result, "Bulk registration finished"))
}

// remapIndexes converts indexes into the filtered rows back into indexes
// into the original request, skipping the rows rejected up front.
func remapIndexes(failed []services.BulkFailure, skipped []services.BulkFailure) []services.BulkFailure {
	for i := range failed {
		idx := failed[i].Index
		for _, s := range skipped {
			if s.Index <= idx {
				idx++
			}
		}
		failed[i].Index = idx
	}
	return failed
}

// SetUsersActive activates or deactivates accounts in bulk
func (c *UserController) SetUsersActive(ctx *gin.Context) {
	var req dto.SetUsersActiveRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	n, err := c.userService.SetUsersActive(ctx, req.UserIDs.Int64s(), *req.IsActive)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.CountResponse{Affected: n}, "Users updated"))
}

// DeleteUsers deletes accounts in bulk along with their student or teacher rows
func (c *UserController) DeleteUsers(ctx *gin.Context) {
	var req dto.UserIDsRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	n, err := c.userService.DeleteUsers(ctx, req.UserIDs.Int64s())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.CountResponse{Affected: n}, "Users deleted"))
}

// Login checks credentials and returns the user's profile
func (c *UserController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.LoginResponse{User: user}, "Login successful"))
}
