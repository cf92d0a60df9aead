package interfaces

import (
	"context"

	"storyverse-server/shared/models"

	"github.com/google/uuid"
)

// PlayerProgressRepository defines the interface for interacting with player progress data.
//
//go:generate mockery --name PlayerProgressRepository --output ./mocks --outpkg mocks --case=underscore
type PlayerProgressRepository interface {
	// Get retrieves the player's progress for a specific story.
	// Returns models.ErrNotFound if no progress exists for the given user and story.
	Get(ctx context.Context, querier DBTX, userID, storyID uuid.UUID) (*models.PlayerProgress, error)

	// GetForUpdate is Get with a row lock (SELECT ... FOR UPDATE). Must be called inside a transaction.
	GetForUpdate(ctx context.Context, querier DBTX, userID, storyID uuid.UUID) (*models.PlayerProgress, error)

	// Upsert creates the record for (userID, storyID) or overwrites the existing one.
	Upsert(ctx context.Context, querier DBTX, progress *models.PlayerProgress) error

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, querier DBTX, userID, storyID uuid.UUID) error
}
