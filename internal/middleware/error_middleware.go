package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/serhiib/registry/internal/app/models/dto"
	"github.com/serhiib/registry/internal/pkg/apperrors"
	"github.com/serhiib/registry/internal/pkg/auth"
)

// HandleAPIError maps application errors to HTTP responses. Validation
// failures, capacity rejections and uniqueness conflicts all answer 400;
// only authentication and authorization failures use the 401/403 pair.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, errorEnvelope(dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")))
		return
	case errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(401, errorEnvelope(dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))
		return
	case errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, apperrors.ErrTokenInvalid) || errors.Is(err, apperrors.ErrInvalidFormat):
		c.JSON(401, errorEnvelope(dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))
		return
	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(403, errorEnvelope(dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error())))
		return
	case apperrors.Is(err, apperrors.ErrResourceNotFound,
		apperrors.ErrIdentityNotFound,
		apperrors.ErrProjectNotFound,
		apperrors.ErrTaskNotFound,
		apperrors.ErrCourseNotFound,
		apperrors.ErrEnrollmentMissing):
		c.JSON(404, errorEnvelope(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))
		return
	case errors.Is(err, apperrors.ErrCourseFull):
		c.JSON(400, errorEnvelope(dto.NewErrorDetail(dto.ErrorCodeCapacityExceeded, err.Error())))
		return
	case apperrors.Is(err, apperrors.ErrConflict,
		apperrors.ErrNameTaken,
		apperrors.ErrTitleTaken,
		apperrors.ErrAlreadyEnrolled):
		c.JSON(400, errorEnvelope(dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))
		return
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		c.JSON(400, errorEnvelope(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return
	default:
		c.JSON(500, errorEnvelope(dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
		return
	}
}

func errorEnvelope(detail *dto.ErrorDetail) dto.APIResponse {
	return dto.APIResponse{
		Error:     detail,
		Timestamp: time.Now(),
	}
}
