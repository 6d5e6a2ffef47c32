package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolhub/internal/app/models/dto"
	"github.com/yigit/schoolhub/internal/app/services"
	"github.com/yigit/schoolhub/internal/middleware"
)

const dateLayout = "2006-01-02"

func optionalID(id *dto.FlexibleID) *int64 {
	if id == nil {
		return nil
	}
	v := int64(*id)
	return &v
}

// parseDate parses an optional YYYY-MM-DD date. On failure it writes a 400
// response and returns false.
func parseDate(ctx *gin.Context, field, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		middleware.BadRequest(ctx, field+" must be a date in YYYY-MM-DD format")
		return nil, false
	}
	return &t, true
}

func toAccountInput(req dto.AccountRequest) services.AccountInput {
	return services.AccountInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
}

// toRegisterStudentInput converts one registration row without writing a
// response, so bulk requests can report bad rows individually.
func toRegisterStudentInput(req dto.RegisterStudentRequest) (services.RegisterStudentInput, error) {
	in := services.RegisterStudentInput{
		AccountInput:    toAccountInput(req.AccountRequest),
		AdmissionNumber: req.AdmissionNumber,
		CourseID:        int64(req.CourseID),
		ClassID:         optionalID(req.ClassID),
		Gender:          req.Gender,
		GuardianName:    req.GuardianName,
		GuardianPhone:   req.GuardianPhone,
		Address:         req.Address,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err != nil {
			return in, err
		}
		in.DateOfBirth = &dob
	}
	return in, nil
}
