package interfaces

import (
	"context"

	"storyverse-server/shared/models"

	"github.com/google/uuid"
)

// StoryContentRepository - read-only доступ к контенту глав.
//
//go:generate mockery --name StoryContentRepository --output ./mocks --outpkg mocks --case=underscore
type StoryContentRepository interface {
	// GetByChapterID возвращает контент главы или models.ErrNotFound.
	GetByChapterID(ctx context.Context, querier DBTX, chapterID uuid.UUID) (*models.ChapterContent, error)
	// Upsert сохраняет контент главы (загрузка контента и тесты).
	Upsert(ctx context.Context, querier DBTX, content *models.ChapterContent) error
}

// ContentCache - кэш контента глав. Промах возвращает models.ErrNotFound.
//
//go:generate mockery --name ContentCache --output ./mocks --outpkg mocks --case=underscore
type ContentCache interface {
	Get(ctx context.Context, chapterID uuid.UUID) (*models.ChapterContent, error)
	Set(ctx context.Context, content *models.ChapterContent) error
	Delete(ctx context.Context, chapterID uuid.UUID) error
}
