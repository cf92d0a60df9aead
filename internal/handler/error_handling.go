package handler

import (
	"errors"
	"net/http"

	"storyverse-server/internal/service"
	"storyverse-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// APIError - стандартный ответ об ошибке.
type APIError = models.ErrorResponse

// handleServiceError сопоставляет ошибку сервиса с HTTP статусом.
// Для *service.Error клиенту уходит его Message, для прочих - общее сообщение.
func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case errors.Is(err, models.ErrInsufficientFunds),
		errors.Is(err, models.ErrBadRequest),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidCurrency):
		statusCode = http.StatusBadRequest
		message = "Bad request"
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrTokenInvalid),
		errors.Is(err, models.ErrTokenMalformed),
		errors.Is(err, models.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		message = "Unauthorized"
	case errors.Is(err, models.ErrInvalidContent):
		zap.L().Error("Invalid story content", zap.String("path", c.Request.URL.Path), zap.Error(err))
		statusCode = http.StatusInternalServerError
		message = "Story content is invalid"
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.String("path", c.Request.URL.Path), zap.Error(err))
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	var serviceErr *service.Error
	if statusCode < http.StatusInternalServerError && errors.As(err, &serviceErr) {
		message = serviceErr.Message
	}

	c.AbortWithStatusJSON(statusCode, APIError{Message: message})
}

func abortBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, APIError{Message: message})
}
