package apperrors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Domain errors. Each unwraps to one of the common errors above so the HTTP
// layer can map them without knowing every entity.
var (
	ErrCourseNotFound       = newKind(ErrResourceNotFound, "course not found")
	ErrSubjectNotFound      = newKind(ErrResourceNotFound, "subject not found")
	ErrClassNotFound        = newKind(ErrResourceNotFound, "class not found")
	ErrStudentNotFound      = newKind(ErrResourceNotFound, "student not found")
	ErrTeacherNotFound      = newKind(ErrResourceNotFound, "teacher not found")
	ErrUserNotFound         = newKind(ErrResourceNotFound, "user not found")
	ErrResultNotFound       = newKind(ErrResourceNotFound, "result not found")
	ErrTimetableNotFound    = newKind(ErrResourceNotFound, "timetable entry not found")
	ErrAnnouncementNotFound = newKind(ErrResourceNotFound, "announcement not found")

	ErrEmailAlreadyExists    = newKind(ErrResourceAlreadyExists, "email already exists")
	ErrCourseCodeExists      = newKind(ErrResourceAlreadyExists, "course code already exists")
	ErrSubjectCodeExists     = newKind(ErrResourceAlreadyExists, "subject code already exists")
	ErrAdmissionNumberExists = newKind(ErrResourceAlreadyExists, "admission number already exists")
	ErrStaffNumberExists     = newKind(ErrResourceAlreadyExists, "staff number already exists")
	ErrAssignmentExists      = newKind(ErrResourceAlreadyExists, "teacher is already assigned to this subject and class")
	ErrClassKeyConflict      = newKind(ErrConflict, "a class with this elective combination already exists")
	ErrClassNameConflict     = newKind(ErrConflict, "a class with this name already exists in the period")
	ErrTimetableConflict     = newKind(ErrConflict, "timetable entry overlaps an existing entry")
)

func newKind(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a field-level message
func NewValidationError(format string, args ...interface{}) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// Message returns the most specific user-facing message carried by err.
func Message(err error) string {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Error()
	}
	return err.Error()
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error carrying context details
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	clone := *e
	clone.Details = details
	return &clone
}
