package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var _ interfaces.StoryContentRepository = (*pgStoryContentRepository)(nil)

const (
	getStoryContentByChapterQuery = `
        SELECT chapter_id, story_id, chapter_number, scenes, scene_order, created_at, updated_at
        FROM story_content
        WHERE chapter_id = $1`
	upsertStoryContentQuery = `
        INSERT INTO story_content (chapter_id, story_id, chapter_number, scenes, scene_order, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6)
        ON CONFLICT (chapter_id) DO UPDATE SET
            story_id = EXCLUDED.story_id,
            chapter_number = EXCLUDED.chapter_number,
            scenes = EXCLUDED.scenes,
            scene_order = EXCLUDED.scene_order,
            updated_at = EXCLUDED.updated_at`
)

// storyContentRow - строка story_content. jsonb не хранит порядок ключей,
// поэтому порядок сцен лежит отдельно в scene_order.
type storyContentRow struct {
	ChapterID     uuid.UUID `db:"chapter_id"`
	StoryID       uuid.UUID `db:"story_id"`
	ChapterNumber int       `db:"chapter_number"`
	Scenes        []byte    `db:"scenes"`
	SceneOrder    []string  `db:"scene_order"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type pgStoryContentRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgStoryContentRepository создает репозиторий контента глав.
func NewPgStoryContentRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.StoryContentRepository {
	return &pgStoryContentRepository{
		db:     db,
		logger: logger.Named("PgStoryContentRepo"),
	}
}

func (r *pgStoryContentRepository) querier(q interfaces.DBTX) interfaces.DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// GetByChapterID возвращает контент главы со сценами в авторском порядке.
func (r *pgStoryContentRepository) GetByChapterID(ctx context.Context, querier interfaces.DBTX, chapterID uuid.UUID) (*models.ChapterContent, error) {
	log := r.logger.With(zap.Stringer("chapterID", chapterID))

	var row storyContentRow
	if err := pgxscan.Get(ctx, r.querier(querier), &row, getStoryContentByChapterQuery, chapterID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug("Story content not found")
			return nil, models.ErrNotFound
		}
		log.Error("Error getting story content", zap.Error(err))
		return nil, fmt.Errorf("failed to get story content for chapter %s: %w", chapterID, err)
	}

	content := &models.ChapterContent{
		ChapterID:     row.ChapterID,
		StoryID:       row.StoryID,
		ChapterNumber: row.ChapterNumber,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Scenes, &content.Scenes); err != nil {
		log.Error("Failed to unmarshal scenes", zap.Error(err))
		return nil, fmt.Errorf("%w: chapter %s: %v", models.ErrInvalidContent, chapterID, err)
	}
	if err := content.Scenes.Reorder(row.SceneOrder); err != nil {
		log.Error("Scene order does not match scenes", zap.Error(err))
		return nil, fmt.Errorf("%w: chapter %s: %v", models.ErrInvalidContent, chapterID, err)
	}

	log.Debug("Story content loaded", zap.Int("scenes", content.Scenes.Len()))
	return content, nil
}

// Upsert сохраняет контент главы.
func (r *pgStoryContentRepository) Upsert(ctx context.Context, querier interfaces.DBTX, content *models.ChapterContent) error {
	log := r.logger.With(zap.Stringer("chapterID", content.ChapterID), zap.Stringer("storyID", content.StoryID))

	scenesJSON, err := json.Marshal(content.Scenes)
	if err != nil {
		log.Error("Failed to marshal scenes", zap.Error(err))
		return fmt.Errorf("failed to marshal scenes: %w", err)
	}

	now := time.Now().UTC()
	if _, err := r.querier(querier).Exec(ctx, upsertStoryContentQuery,
		content.ChapterID,
		content.StoryID,
		content.ChapterNumber,
		scenesJSON,
		pq.Array(content.Scenes.Keys()),
		now,
	); err != nil {
		log.Error("Error upserting story content", zap.Error(err))
		return fmt.Errorf("failed to upsert story content for chapter %s: %w", content.ChapterID, err)
	}

	log.Info("Story content saved", zap.Int("scenes", content.Scenes.Len()))
	return nil
}
