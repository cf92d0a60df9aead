package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinUserIDKey - ключ gin.Context, под которым лежит uuid.UUID пользователя.
const GinUserIDKey = "user_id"

// AuthMiddleware проверяет Bearer JWT пользователя и кладет UserID
// в gin.Context и в context.Context запроса.
func AuthMiddleware(verifier interfaces.TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("AuthMiddleware")
	return func(c *gin.Context) {
		l := log.With(zap.String("path", c.Request.URL.Path))

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			l.Warn("Authorization header missing")
			abortUnauthorized(c, "Unauthorized: Missing token")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			l.Warn("Malformed Authorization header")
			abortUnauthorized(c, "Unauthorized: Malformed token header")
			return
		}

		claims, err := verifier.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			status, msg := tokenErrorResponse(err, "Unauthorized: Invalid token", "Unauthorized: Token expired")
			if status == http.StatusInternalServerError {
				l.Error("Unexpected token verification error", zap.Error(err))
			} else {
				l.Warn("Token verification failed", zap.Error(err))
			}
			c.AbortWithStatusJSON(status, models.ErrorResponse{Message: msg})
			return
		}

		ctx := context.WithValue(c.Request.Context(), models.UserContextKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(GinUserIDKey, claims.UserID)

		l.Debug("User authorized", zap.Stringer("userID", claims.UserID))
		c.Next()
	}
}

// tokenErrorResponse сопоставляет ошибку верификации со статусом и сообщением.
func tokenErrorResponse(err error, invalidMsg, expiredMsg string) (int, string) {
	switch {
	case errors.Is(err, models.ErrTokenExpired):
		return http.StatusUnauthorized, expiredMsg
	case errors.Is(err, models.ErrTokenMalformed), errors.Is(err, models.ErrTokenInvalid):
		return http.StatusUnauthorized, invalidMsg
	default:
		return http.StatusInternalServerError, "Internal server error during token verification"
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Message: msg})
}
