package service

import (
	"context"
	"fmt"
	"time"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService - леджер валют пользователя (алмазы и ключи с ленивым восстановлением).
type InventoryService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (*models.InventoryBalance, error)
	CanAfford(ctx context.Context, userID uuid.UUID, amount int, currency models.Currency) (bool, error)
	Deduct(ctx context.Context, userID uuid.UUID, amount int, currency models.Currency) (*models.UserInventory, error)
	Credit(ctx context.Context, userID uuid.UUID, amount int, currency models.Currency) (*models.UserInventory, error)
	TimeUntilNextKey(ctx context.Context, userID uuid.UUID) (time.Duration, error)
	// Provision создает запись леджера со значениями по умолчанию, если ее нет.
	// created == false, если запись уже существовала.
	Provision(ctx context.Context, userID uuid.UUID) (inv *models.UserInventory, created bool, err error)

	// DeductWithin и CreditWithin работают внутри уже открытой транзакции вызывающего.
	DeductWithin(ctx context.Context, tx interfaces.DBTX, userID uuid.UUID, amount int, currency models.Currency) (*models.UserInventory, error)
	CreditWithin(ctx context.Context, tx interfaces.DBTX, userID uuid.UUID, amount int, currency models.Currency) (*models.UserInventory, error)
}

type inventoryServiceImpl struct {
	repo      interfaces.UserInventoryRepository
	txManager interfaces.TxManager
	logger    *zap.Logger
}

// NewInventoryService создает сервис леджера.
func NewInventoryService(
	repo interfaces.UserInventoryRepository,
	txManager interfaces.TxManager,
	logger *zap.Logger,
) InventoryService {
	return &inventoryServiceImpl{
		repo:      repo,
		txManager: txManager,
		logger:    logger.Named("InventoryService"),
	}
}

// lockAndRefill блокирует запись леджера и сохраняет восстановленные ключи, если они появились.
func (s *inventoryServiceImpl) lockAndRefill(ctx context.Context, tx interfaces.DBTX, userID uuid.UUID, now time.Time) (*models.UserInventory, error) {
	inv, err := s.repo.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrInventoryNotFound)
	}
	if inv.ApplyRefill(now) {
		if err := s.repo.Update(ctx, tx, inv); err != nil {
			return nil, fmt.Errorf("failed to persist key refill: %w", err)
		}
		s.logger.Debug("Keys refilled",
			zap.Stringer("userID", userID),
			zap.Int("keys", inv.KeysBalance),
			zap.Time("lastKeyRefillAt", inv.LastKeyRefillAt))
	}
	return inv, nil
}

func (s *inventoryServiceImpl) load(ctx context.Context, userID uuid.UUID) (*models.UserInventory, time.Time, error) {
	var inv *models.UserInventory
	var now time.Time
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		now = time.Now().UTC()
		var err error
		inv, err = s.lockAndRefill(ctx, tx, userID, now)
		return err
	})
	if err != nil {
		return nil, now, err
	}
	return inv, now, nil
}

func (s *inventoryServiceImpl) GetBalance(ctx context.Context, userID uuid.UUID) (*models.InventoryBalance, error) {
	inv, now, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.NewInventoryBalance(inv, now), nil
}

func (s *inventoryServiceImpl) CanAfford(ctx context.Context, userID uuid.UUID, amount int, currency models.Currency) (bool, error) {
	if err := checkAmount(amount, currency); err != nil {
		return false, err
	}
	inv, _, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return inv.CanAfford(amount, currency)
}

func (s *inventoryServiceImpl) TimeUntilNextKey(ctx context.Context, userID uuid.UUID) (time.Duration, error) {
	inv, now, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}
	return inv.TimeUntilNextKey(now), nil
}

func (s *inventoryServiceImpl) Deduct(ctx context.Context, userID uuid.UUID, amount int, currency models.Currency) (*models.UserInventory, error) {
	var inv *models.UserInventory
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		var err error
		inv, err = s.DeductWithin(ctx, tx, userID, amount, currency)
		return err
	})
	if err != nil {
		return nil, err
	}
	currencyDeductedTotal.WithLabelValues(string(currency)).Add(float64(amount))
	return inv, nil
}

func (s *inventoryServiceImpl) Credit(ctx context.Context, userID uuid.UUID, amount int, currency models.Currency) (*models.UserInventory, error) {
	var inv *models.UserInventory
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		var err error
		inv, err = s.CreditWithin(ctx, tx, userID, amount, currency)
		return err
	})
	if err != nil {
		return nil, err
	}
	currencyCreditedTotal.WithLabelValues(string(currency)).Add(float64(amount))
	return inv, nil
}

func (s *inventoryServiceImpl) DeductWithin(ctx context.Context, tx interfaces.DBTX, userID uuid.UUID, amount int, currency models.Currency) (*models.UserInventory, error) {
	if err := checkAmount(amount, currency); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	inv, err := s.lockAndRefill(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}
	if err := inv.Deduct(amount, currency, now); err != nil {
		s.logger.Info("Insufficient funds",
			zap.Stringer("userID", userID),
			zap.String("currency", string(currency)),
			zap.Int("amount", amount))
		return nil, notEnough(currency)
	}
	if err := s.repo.Update(ctx, tx, inv); err != nil {
		return nil, fmt.Errorf("failed to deduct %d %s: %w", amount, currency, err)
	}
	return inv, nil
}

func (s *inventoryServiceImpl) CreditWithin(ctx context.Context, tx interfaces.DBTX, userID uuid.UUID, amount int, currency models.Currency) (*models.UserInventory, error) {
	if err := checkAmount(amount, currency); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	inv, err := s.lockAndRefill(ctx, tx, userID, now)
	if err != nil {
		return nil, err
	}
	if err := inv.Credit(amount, currency, now); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, tx, inv); err != nil {
		return nil, fmt.Errorf("failed to credit %d %s: %w", amount, currency, err)
	}
	return inv, nil
}

func (s *inventoryServiceImpl) Provision(ctx context.Context, userID uuid.UUID) (*models.UserInventory, bool, error) {
	log := s.logger.With(zap.Stringer("userID", userID))

	created, err := s.repo.CreateIfNotExists(ctx, nil, models.NewUserInventory(userID, time.Now().UTC()))
	if err != nil {
		log.Error("Failed to provision inventory", zap.Error(err))
		return nil, false, fmt.Errorf("failed to provision inventory: %w", err)
	}
	inv, err := s.repo.Get(ctx, nil, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read provisioned inventory: %w", err)
	}
	if created {
		log.Info("Inventory provisioned")
	}
	return inv, created, nil
}

func checkAmount(amount int, currency models.Currency) error {
	if !currency.IsValid() {
		return ErrInvalidCurrency
	}
	if amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}
