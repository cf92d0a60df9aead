package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"
	"storyverse-server/shared/utils"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.PlayerProgressRepository = (*pgPlayerProgressRepository)(nil)

const playerProgressFields = `id, user_id, story_id, current_chapter_id, current_scene_id, unlocked_outfits,
    relationship_scores, flags, choices_made, last_played_at, created_at, updated_at`

const getPlayerProgressQuery = `
SELECT ` + playerProgressFields + `
FROM player_progress
WHERE user_id = $1 AND story_id = $2`

const getPlayerProgressForUpdateQuery = getPlayerProgressQuery + `
FOR UPDATE`

const upsertPlayerProgressQuery = `
INSERT INTO player_progress (id, user_id, story_id, current_chapter_id, current_scene_id, unlocked_outfits,
    relationship_scores, flags, choices_made, last_played_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (user_id, story_id) DO UPDATE SET
    current_chapter_id = EXCLUDED.current_chapter_id,
    current_scene_id = EXCLUDED.current_scene_id,
    unlocked_outfits = EXCLUDED.unlocked_outfits,
    relationship_scores = EXCLUDED.relationship_scores,
    flags = EXCLUDED.flags,
    choices_made = EXCLUDED.choices_made,
    last_played_at = EXCLUDED.last_played_at,
    updated_at = EXCLUDED.updated_at
RETURNING id, created_at`

const deletePlayerProgressQuery = `
DELETE FROM player_progress
WHERE user_id = $1 AND story_id = $2`

type pgPlayerProgressRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgPlayerProgressRepository creates a new repository instance.
func NewPgPlayerProgressRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.PlayerProgressRepository {
	return &pgPlayerProgressRepository{
		db:     db,
		logger: logger.Named("PgPlayerProgressRepo"),
	}
}

func (r *pgPlayerProgressRepository) querier(q interfaces.DBTX) interfaces.DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// Get retrieves the player's progress for a specific story.
func (r *pgPlayerProgressRepository) Get(ctx context.Context, querier interfaces.DBTX, userID, storyID uuid.UUID) (*models.PlayerProgress, error) {
	return r.get(ctx, r.querier(querier), getPlayerProgressQuery, userID, storyID)
}

// GetForUpdate retrieves the progress and locks the row until the transaction ends.
func (r *pgPlayerProgressRepository) GetForUpdate(ctx context.Context, querier interfaces.DBTX, userID, storyID uuid.UUID) (*models.PlayerProgress, error) {
	return r.get(ctx, r.querier(querier), getPlayerProgressForUpdateQuery, userID, storyID)
}

func (r *pgPlayerProgressRepository) get(ctx context.Context, querier interfaces.DBTX, query string, userID, storyID uuid.UUID) (*models.PlayerProgress, error) {
	logFields := []zap.Field{zap.Stringer("userID", userID), zap.Stringer("storyID", storyID)}

	progress := &models.PlayerProgress{}
	if err := pgxscan.Get(ctx, querier, progress, query, userID, storyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get player progress", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to get player progress: %w", err)
	}

	r.logger.Debug("Retrieved player progress", append(logFields, zap.String("sceneID", progress.CurrentSceneID))...)
	return progress, nil
}

// Upsert creates a new player progress record or updates the existing one for (user, story).
// progress.ID and progress.CreatedAt are refreshed from the stored row.
func (r *pgPlayerProgressRepository) Upsert(ctx context.Context, querier interfaces.DBTX, progress *models.PlayerProgress) error {
	now := time.Now().UTC()
	if progress.ID == uuid.Nil {
		progress.ID = uuid.New()
	}
	if progress.CreatedAt.IsZero() {
		progress.CreatedAt = now
	}
	if progress.LastPlayedAt.IsZero() {
		progress.LastPlayedAt = now
	}
	progress.UpdatedAt = now
	logFields := []zap.Field{
		zap.Stringer("userID", progress.UserID),
		zap.Stringer("storyID", progress.StoryID),
		zap.String("sceneID", progress.CurrentSceneID),
	}

	scoresJSON, err := utils.MarshalMap(progress.RelationshipScores)
	if err != nil {
		r.logger.Error("Failed to marshal relationship scores for upsert", append(logFields, zap.Error(err))...)
		return err
	}
	flagsJSON, err := utils.MarshalMap(progress.Flags)
	if err != nil {
		r.logger.Error("Failed to marshal flags for upsert", append(logFields, zap.Error(err))...)
		return err
	}

	err = r.querier(querier).QueryRow(ctx, upsertPlayerProgressQuery,
		progress.ID,
		progress.UserID,
		progress.StoryID,
		progress.CurrentChapterID,
		progress.CurrentSceneID,
		pq.Array(nonNilStrings(progress.UnlockedOutfits)),
		scoresJSON,
		flagsJSON,
		pq.Array(nonNilStrings(progress.ChoicesMade)),
		progress.LastPlayedAt,
		progress.CreatedAt,
		progress.UpdatedAt,
	).Scan(&progress.ID, &progress.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert player progress", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to upsert player progress: %w", err)
	}

	r.logger.Debug("Upserted player progress", logFields...)
	return nil
}

// Delete removes the progress for (user, story). A missing record is not an error.
func (r *pgPlayerProgressRepository) Delete(ctx context.Context, querier interfaces.DBTX, userID, storyID uuid.UUID) error {
	logFields := []zap.Field{zap.Stringer("userID", userID), zap.Stringer("storyID", storyID)}
	cmdTag, err := r.querier(querier).Exec(ctx, deletePlayerProgressQuery, userID, storyID)
	if err != nil {
		r.logger.Error("Failed to delete player progress", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to delete player progress: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Цель (отсутствие прогресса) достигнута
		r.logger.Warn("Attempted to delete non-existent player progress", logFields...)
	} else {
		r.logger.Info("Deleted player progress", logFields...)
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
