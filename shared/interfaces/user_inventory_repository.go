package interfaces

import (
	"context"

	"storyverse-server/shared/models"

	"github.com/google/uuid"
)

// UserInventoryRepository хранит леджер валют пользователя.
//
//go:generate mockery --name UserInventoryRepository --output ./mocks --outpkg mocks --case=underscore
type UserInventoryRepository interface {
	// Get возвращает запись или models.ErrNotFound.
	Get(ctx context.Context, querier DBTX, userID uuid.UUID) (*models.UserInventory, error)
	// GetForUpdate - Get с блокировкой строки. Вызывать только внутри транзакции.
	GetForUpdate(ctx context.Context, querier DBTX, userID uuid.UUID) (*models.UserInventory, error)
	// CreateIfNotExists создает запись; возвращает false, если она уже была.
	CreateIfNotExists(ctx context.Context, querier DBTX, inventory *models.UserInventory) (bool, error)
	// Update сохраняет балансы и время последнего пополнения.
	Update(ctx context.Context, querier DBTX, inventory *models.UserInventory) error
}
