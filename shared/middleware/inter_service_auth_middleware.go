package middleware

import (
	"context"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InterServiceTokenHeader - заголовок с межсервисным JWT.
const InterServiceTokenHeader = "X-Internal-Service-Token"

// InterServiceAuthMiddleware проверяет межсервисный JWT для /internal маршрутов.
func InterServiceAuthMiddleware(verifier interfaces.TokenVerifier, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("InterServiceAuthMiddleware")
	return func(c *gin.Context) {
		l := log.With(zap.String("path", c.Request.URL.Path))

		tokenString := c.GetHeader(InterServiceTokenHeader)
		if tokenString == "" {
			l.Warn("X-Internal-Service-Token header missing")
			abortUnauthorized(c, "Unauthorized: Missing inter-service token")
			return
		}

		claims, err := verifier.VerifyInterServiceToken(c.Request.Context(), tokenString)
		if err != nil {
			status, msg := tokenErrorResponse(err,
				"Unauthorized: Invalid inter-service token",
				"Unauthorized: Inter-service token expired")
			l.Warn("Inter-service token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(status, models.ErrorResponse{Message: msg})
			return
		}

		// UserID в контекст не кладем: вызов от имени сервиса
		ctx := context.WithValue(c.Request.Context(), models.SourceServiceContextKey, claims.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(models.SourceServiceContextKey), claims.Subject)
		l.Debug("Inter-service request authorized", zap.String("sourceService", claims.Subject))
		c.Next()
	}
}
