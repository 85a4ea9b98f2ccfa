package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/fleettrack/internal/app/models/dto"
	"github.com/deniz/fleettrack/internal/pkg/apperrors"
)

// HandleAPIError translates application errors into the stable
// status/kind mapping: 400 validation/conflict/invalid-reference,
// 401 unauthenticated, 403 forbidden/ownership/assignment, 404 missing
// resource, 500 everything else.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	// 404 — missing resources
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrSchoolNotFound),
		errors.Is(err, apperrors.ErrBusNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrDriverWithoutBus),
		errors.Is(err, apperrors.ErrStudentNotAssigned),
		errors.Is(err, apperrors.ErrNoLocationRecorded):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))

	// 400 — unique-constraint conflicts
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrPhoneAlreadyExists),
		errors.Is(err, apperrors.ErrSchoolAlreadyExists),
		errors.Is(err, apperrors.ErrPlateAlreadyExists),
		errors.Is(err, apperrors.ErrStudentNumberAlreadyExists),
		errors.Is(err, apperrors.ErrRelationAlreadyExists),
		errors.Is(err, apperrors.ErrAssignmentAlreadyExists),
		errors.Is(err, apperrors.ErrDriverAlreadyAssigned),
		errors.Is(err, apperrors.ErrUserHasRelations),
		errors.Is(err, apperrors.ErrSchoolHasRelations),
		errors.Is(err, apperrors.ErrBusHasRelations),
		errors.Is(err, apperrors.ErrStudentHasRelations):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error())))

	// 400 — dangling foreign keys
	case errors.Is(err, apperrors.ErrInvalidReference):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidReference, err.Error())))

	// 400 — malformed input, including role mismatches on assignment
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrNotAParent),
		errors.Is(err, apperrors.ErrNotADriver):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))

	// 401 — authentication failures
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))
	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))

	// 403 — ownership and assignment failures
	case errors.Is(err, apperrors.ErrNotCurrentDriver):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeOwnershipError, err.Error())))
	case errors.Is(err, apperrors.ErrStudentNotOnBus):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeAssignmentError, err.Error())))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())))

	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
