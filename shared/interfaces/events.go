package interfaces

import (
	"context"

	"storyverse-server/shared/models"
)

// GameplayEventPublisher публикует события игрового процесса в брокер.
//
//go:generate mockery --name GameplayEventPublisher --output ./mocks --outpkg mocks --case=underscore
type GameplayEventPublisher interface {
	PublishGameplayEvent(ctx context.Context, event models.GameplayEvent) error
}
