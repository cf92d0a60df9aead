package database

import (
	"context"
	"errors"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ interfaces.StoryContentRepository = (*cachedStoryContentRepository)(nil)

// cachedStoryContentRepository - read-through кэш поверх репозитория контента.
// Ошибки кэша только логируются: источником истины остается Postgres.
type cachedStoryContentRepository struct {
	next   interfaces.StoryContentRepository
	cache  interfaces.ContentCache
	logger *zap.Logger
}

// NewCachedStoryContentRepository оборачивает репозиторий кэшем. cache == nil отключает кэширование.
func NewCachedStoryContentRepository(next interfaces.StoryContentRepository, cache interfaces.ContentCache, logger *zap.Logger) interfaces.StoryContentRepository {
	if cache == nil {
		return next
	}
	return &cachedStoryContentRepository{
		next:   next,
		cache:  cache,
		logger: logger.Named("CachedStoryContentRepo"),
	}
}

func (r *cachedStoryContentRepository) GetByChapterID(ctx context.Context, querier interfaces.DBTX, chapterID uuid.UUID) (*models.ChapterContent, error) {
	content, err := r.cache.Get(ctx, chapterID)
	if err == nil {
		return content, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		r.logger.Warn("Content cache read failed, falling back to database", zap.Stringer("chapterID", chapterID), zap.Error(err))
	}

	content, err = r.next.GetByChapterID(ctx, querier, chapterID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, content); err != nil {
		r.logger.Warn("Content cache write failed", zap.Stringer("chapterID", chapterID), zap.Error(err))
	}
	return content, nil
}

func (r *cachedStoryContentRepository) Upsert(ctx context.Context, querier interfaces.DBTX, content *models.ChapterContent) error {
	if err := r.next.Upsert(ctx, querier, content); err != nil {
		return err
	}
	if err := r.cache.Delete(ctx, content.ChapterID); err != nil {
		r.logger.Warn("Content cache invalidation failed", zap.Stringer("chapterID", content.ChapterID), zap.Error(err))
	}
	return nil
}
