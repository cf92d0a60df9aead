package models

import (
	"context"

	"github.com/google/uuid"
)

// contextKey - приватный тип для ключей контекста, чтобы избежать коллизий.
type contextKey string

const (
	// UserContextKey используется как ключ для хранения UserID (uuid.UUID) в контексте запроса.
	UserContextKey contextKey = "userID"
	// SourceServiceContextKey хранит имя сервиса, вызвавшего внутренний эндпоинт.
	SourceServiceContextKey contextKey = "sourceService"
)

// GetUserIDFromContext извлекает UserID из контекста.
// Возвращает uuid.Nil и false, если ключа нет или тип не совпадает.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
