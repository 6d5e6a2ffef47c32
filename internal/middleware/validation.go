package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/schoolhub/internal/app/models/dto"
)

// BindJSON decodes and validates the request body into obj. On failure it
// writes a 400 response and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		verrs := dto.NewValidationErrors()
		for _, fe := range fieldErrs {
			verrs.AddError(jsonFieldName(fe), formatValidationError(fe))
		}
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, verrs.Errors[0].Message).
			WithDetails(verrs.Errors)
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return false
	}

	message := "Invalid request body"
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		message = typeErr.Field + " has the wrong type"
	case err.Error() != "":
		message = err.Error()
	}
	BadRequest(c, message)
	return false
}

// PathID parses the named path parameter as a positive ID. On failure it
// writes a 400 response and returns false.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		BadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// QueryInt parses an optional integer query parameter; absent means 0
func QueryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		BadRequest(c, name+" must be an integer")
		return 0, false
	}
	return v, true
}

func jsonFieldName(e validator.FieldError) string {
	name := e.Field()
	if name == "" {
		return ""
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := jsonFieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	default:
		return field + " validation failed: " + e.Tag()
	}
}
