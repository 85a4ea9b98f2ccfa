package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidReference = errors.New("referenced resource does not exist")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")

	// Internal errors
	ErrInternal = errors.New("internal error")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrPhoneAlreadyExists = errors.New("phone number already exists")
	ErrUserHasRelations   = errors.New("user is referenced by a bus, school or parent relation and cannot be deleted")
)

// School errors
var (
	ErrSchoolNotFound      = errors.New("school not found")
	ErrSchoolAlreadyExists = errors.New("school with this name already exists")
	ErrSchoolHasRelations  = errors.New("school has associated students or buses and cannot be deleted")
)

// Bus errors
var (
	ErrBusNotFound           = errors.New("bus not found")
	ErrPlateAlreadyExists    = errors.New("bus with this plate number already exists")
	ErrBusHasRelations       = errors.New("bus has assigned students and cannot be deleted")
	ErrDriverWithoutBus      = errors.New("driver has no bus assigned")
	ErrNotCurrentDriver      = errors.New("driver is not currently assigned to this bus")
	ErrDriverAlreadyAssigned = errors.New("driver is already assigned to another bus")
)

// Student errors
var (
	ErrStudentNotFound            = errors.New("student not found")
	ErrStudentNumberAlreadyExists = errors.New("student number already exists")
	ErrStudentHasRelations        = errors.New("student has parent or bus relations and cannot be deleted")
	ErrStudentNotOnBus            = errors.New("student is not assigned to this bus")
	ErrStudentNotAssigned         = errors.New("student has no bus assignment")
)

// Relation errors
var (
	ErrRelationAlreadyExists   = errors.New("parent is already linked to this student")
	ErrAssignmentAlreadyExists = errors.New("student already has a bus assignment")
	ErrNotAParent              = errors.New("user does not have the parent role")
	ErrNotADriver              = errors.New("user does not have the driver role")
)

// Location errors
var (
	ErrNoLocationRecorded = errors.New("no location recorded for this bus")
)

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

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
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

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
