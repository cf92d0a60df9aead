package authutils

import (
	"context"
	"errors"
	"fmt"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ interfaces.TokenVerifier = (*JWTVerifier)(nil)

// JWTVerifier проверяет HMAC JWT токены пользователей и межсервисные токены.
// Токены выпускаются внешним auth-сервисом, у каждого типа свой секрет.
type JWTVerifier struct {
	jwtSecret          string
	interServiceSecret string
	logger             *zap.Logger
}

// NewJWTVerifier создает верификатор. interServiceSecret может быть пустым,
// тогда VerifyInterServiceToken всегда возвращает ErrTokenInvalid.
func NewJWTVerifier(jwtSecret, interServiceSecret string, logger *zap.Logger) (*JWTVerifier, error) {
	if jwtSecret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JWTVerifier{
		jwtSecret:          jwtSecret,
		interServiceSecret: interServiceSecret,
		logger:             logger.Named("JWTVerifier"),
	}, nil
}

// VerifyToken проверяет подпись пользовательского JWT и наличие user_id.
func (v *JWTVerifier) VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	log := v.logger.With(zap.String("tokenSnippet", tokenSnippet(tokenString)))

	claims, err := v.parse(tokenString, v.jwtSecret)
	if err != nil {
		log.Warn("Failed to parse or verify user token", zap.Error(err))
		return nil, err
	}

	if claims.UserID == uuid.Nil {
		log.Warn("Token missing UserID")
		return nil, fmt.Errorf("%w: UserID missing", models.ErrTokenInvalid)
	}

	log.Debug("Token verified successfully", zap.Stringer("userID", claims.UserID), zap.Strings("roles", claims.Roles))
	return claims, nil
}

// VerifyInterServiceToken проверяет межсервисный токен. UserID не требуется,
// имя вызывающего сервиса ожидается в Subject.
func (v *JWTVerifier) VerifyInterServiceToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	log := v.logger.With(zap.String("tokenSnippet", tokenSnippet(tokenString)))

	if v.interServiceSecret == "" {
		log.Warn("Inter-service secret is not configured")
		return nil, fmt.Errorf("%w: inter-service secret not configured", models.ErrTokenInvalid)
	}

	claims, err := v.parse(tokenString, v.interServiceSecret)
	if err != nil {
		log.Warn("Failed to parse or verify inter-service token", zap.Error(err))
		return nil, err
	}
	if claims.Subject == "" {
		log.Warn("Inter-service token missing subject")
		return nil, fmt.Errorf("%w: subject missing", models.ErrTokenInvalid)
	}
	return claims, nil
}

func (v *JWTVerifier) parse(tokenString, secret string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, models.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, models.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, models.ErrTokenInvalid
		}
		return nil, fmt.Errorf("%w: %v", models.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, models.ErrTokenInvalid
	}
	return claims, nil
}

// tokenSnippet возвращает безопасную для логгирования часть токена.
func tokenSnippet(tokenString string) string {
	limit := 15
	if len(tokenString) > limit {
		return tokenString[:limit] + "..."
	}
	return tokenString
}
