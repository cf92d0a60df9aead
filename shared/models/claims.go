package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims представляет стандартные поля JWT и пользовательские данные.
// Токены выпускает внешний auth-сервис, здесь они только проверяются.
type Claims struct {
	UserID               uuid.UUID `json:"user_id"`
	Roles                []string  `json:"roles"`
	jwt.RegisteredClaims           // Issuer, Subject, Audience, ExpiresAt, NotBefore, IssuedAt, ID (JTI)
}
