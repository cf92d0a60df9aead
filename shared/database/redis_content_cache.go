package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ interfaces.ContentCache = (*redisContentCache)(nil)

const contentCacheKeyPrefix = "story_content:"

type redisContentCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisContentCache создает кэш контента глав в Redis.
// Контент главы неизменяем, поэтому инвалидация - только по TTL и явному Delete.
func NewRedisContentCache(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) interfaces.ContentCache {
	return &redisContentCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisContentCache"),
	}
}

func contentCacheKey(chapterID uuid.UUID) string {
	return contentCacheKeyPrefix + chapterID.String()
}

// Get читает контент из кэша. Промах - models.ErrNotFound.
func (c *redisContentCache) Get(ctx context.Context, chapterID uuid.UUID) (*models.ChapterContent, error) {
	data, err := c.client.Get(ctx, contentCacheKey(chapterID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read content cache: %w", err)
	}

	var content models.ChapterContent
	if err := json.Unmarshal(data, &content); err != nil {
		c.logger.Warn("Corrupted content cache entry, dropping", zap.Stringer("chapterID", chapterID), zap.Error(err))
		_ = c.client.Del(ctx, contentCacheKey(chapterID)).Err()
		return nil, models.ErrNotFound
	}
	return &content, nil
}

// Set пишет контент в кэш. JSON SceneMap сохраняет порядок сцен.
func (c *redisContentCache) Set(ctx context.Context, content *models.ChapterContent) error {
	data, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal content for cache: %w", err)
	}
	if err := c.client.Set(ctx, contentCacheKey(content.ChapterID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write content cache: %w", err)
	}
	return nil
}

// Delete удаляет запись кэша.
func (c *redisContentCache) Delete(ctx context.Context, chapterID uuid.UUID) error {
	if err := c.client.Del(ctx, contentCacheKey(chapterID)).Err(); err != nil {
		return fmt.Errorf("failed to delete content cache: %w", err)
	}
	return nil
}
