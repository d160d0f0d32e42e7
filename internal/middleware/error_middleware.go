package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniz/looking4/internal/app/models/dto"
	"github.com/deniz/looking4/internal/pkg/apperrors"
	"github.com/deniz/looking4/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses. Controllers
// funnel every service error through here so the status mapping lives in
// one place.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &customErr) && customErr.Message != "" {
		message = customErr.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrPostNotFound),
		errors.Is(err, apperrors.ErrChatRoomNotFound),
		errors.Is(err, apperrors.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(message))

	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrNotParticipant),
		errors.Is(err, apperrors.ErrPostClosed),
		errors.Is(err, apperrors.ErrSelfResponse),
		errors.Is(err, apperrors.ErrRoomNotGroup):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(message))

	case errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(message))

	case errors.Is(err, apperrors.ErrUsernameAlreadyExists),
		errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(message))

	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(message))

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error"))
	}
}
