package database

import (
	"context"
	"errors"
	"fmt"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ interfaces.UserInventoryRepository = (*pgUserInventoryRepository)(nil)

const (
	getUserInventoryQuery = `
        SELECT user_id, diamonds_balance, keys_balance, last_key_refill_at, updated_at
        FROM user_inventory
        WHERE user_id = $1`
	getUserInventoryForUpdateQuery = getUserInventoryQuery + `
        FOR UPDATE`
	createUserInventoryQuery = `
        INSERT INTO user_inventory (user_id, diamonds_balance, keys_balance, last_key_refill_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id) DO NOTHING`
	updateUserInventoryQuery = `
        UPDATE user_inventory
        SET diamonds_balance = $2, keys_balance = $3, last_key_refill_at = $4, updated_at = $5
        WHERE user_id = $1`
)

type pgUserInventoryRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgUserInventoryRepository создает репозиторий леджера валют.
func NewPgUserInventoryRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.UserInventoryRepository {
	return &pgUserInventoryRepository{
		db:     db,
		logger: logger.Named("PgUserInventoryRepo"),
	}
}

func (r *pgUserInventoryRepository) querier(q interfaces.DBTX) interfaces.DBTX {
	if q == nil {
		return r.db
	}
	return q
}

// Get возвращает запись леджера пользователя.
func (r *pgUserInventoryRepository) Get(ctx context.Context, querier interfaces.DBTX, userID uuid.UUID) (*models.UserInventory, error) {
	return r.get(ctx, r.querier(querier), getUserInventoryQuery, userID)
}

// GetForUpdate возвращает запись и блокирует строку до конца транзакции.
func (r *pgUserInventoryRepository) GetForUpdate(ctx context.Context, querier interfaces.DBTX, userID uuid.UUID) (*models.UserInventory, error) {
	return r.get(ctx, r.querier(querier), getUserInventoryForUpdateQuery, userID)
}

func (r *pgUserInventoryRepository) get(ctx context.Context, querier interfaces.DBTX, query string, userID uuid.UUID) (*models.UserInventory, error) {
	log := r.logger.With(zap.Stringer("userID", userID))

	var inv models.UserInventory
	if err := pgxscan.Get(ctx, querier, &inv, query, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug("User inventory not found")
			return nil, models.ErrNotFound
		}
		log.Error("Error getting user inventory", zap.Error(err))
		return nil, fmt.Errorf("failed to get user inventory %s: %w", userID, err)
	}
	return &inv, nil
}

// CreateIfNotExists создает запись; существующая запись не меняется.
func (r *pgUserInventoryRepository) CreateIfNotExists(ctx context.Context, querier interfaces.DBTX, inv *models.UserInventory) (bool, error) {
	log := r.logger.With(zap.Stringer("userID", inv.UserID))

	tag, err := r.querier(querier).Exec(ctx, createUserInventoryQuery,
		inv.UserID, inv.DiamondsBalance, inv.KeysBalance, inv.LastKeyRefillAt, inv.UpdatedAt)
	if err != nil {
		log.Error("Error creating user inventory", zap.Error(err))
		return false, fmt.Errorf("failed to create user inventory %s: %w", inv.UserID, err)
	}
	created := tag.RowsAffected() > 0
	log.Debug("User inventory provisioned", zap.Bool("created", created))
	return created, nil
}

// Update сохраняет балансы. Отсутствующая запись - models.ErrNotFound.
func (r *pgUserInventoryRepository) Update(ctx context.Context, querier interfaces.DBTX, inv *models.UserInventory) error {
	log := r.logger.With(zap.Stringer("userID", inv.UserID))

	tag, err := r.querier(querier).Exec(ctx, updateUserInventoryQuery,
		inv.UserID, inv.DiamondsBalance, inv.KeysBalance, inv.LastKeyRefillAt, inv.UpdatedAt)
	if err != nil {
		log.Error("Error updating user inventory", zap.Error(err))
		return fmt.Errorf("failed to update user inventory %s: %w", inv.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		log.Warn("User inventory not found for update")
		return models.ErrNotFound
	}
	log.Debug("User inventory updated",
		zap.Int("diamonds", inv.DiamondsBalance),
		zap.Int("keys", inv.KeysBalance))
	return nil
}
