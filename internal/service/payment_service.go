package service

import (
	"context"
	"fmt"
	"strings"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPurchaseQuantity = 1
	maxPurchaseQuantity     = 100
)

// PurchaseInput - запрос на покупку пакета алмазов.
// Quantity == 0 означает значение по умолчанию (1).
type PurchaseInput struct {
	ProductID   string
	Quantity    int
	Platform    models.Platform
	ReceiptData string
}

// PaymentService - каталог пакетов алмазов и зачисление покупок.
// Чек проверяется только на наличие: валидация у магазинов платформ не выполняется.
type PaymentService interface {
	Products() []models.DiamondProduct
	Purchase(ctx context.Context, userID uuid.UUID, input PurchaseInput) (*models.PurchaseResult, error)
}

type paymentServiceImpl struct {
	inventory InventoryService
	publisher interfaces.GameplayEventPublisher
	logger    *zap.Logger
}

// NewPaymentService создает сервис покупок.
func NewPaymentService(inventory InventoryService, publisher interfaces.GameplayEventPublisher, logger *zap.Logger) PaymentService {
	return &paymentServiceImpl{
		inventory: inventory,
		publisher: publisher,
		logger:    logger.Named("PaymentService"),
	}
}

func (s *paymentServiceImpl) Products() []models.DiamondProduct {
	return models.DiamondProducts()
}

func (s *paymentServiceImpl) Purchase(ctx context.Context, userID uuid.UUID, input PurchaseInput) (*models.PurchaseResult, error) {
	log := s.logger.With(zap.Stringer("userID", userID), zap.String("productID", input.ProductID))

	if strings.TrimSpace(input.ReceiptData) == "" {
		return nil, ErrInvalidReceipt
	}
	product, ok := models.FindDiamondProduct(input.ProductID)
	if !ok {
		return nil, ErrInvalidProduct
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = defaultPurchaseQuantity
	}
	if quantity < 1 || quantity > maxPurchaseQuantity {
		return nil, ErrInvalidQuantity
	}
	switch input.Platform {
	case models.PlatformIOS, models.PlatformAndroid, models.PlatformWeb:
	default:
		return nil, ErrInvalidPlatform
	}

	amount := product.Amount * quantity
	inv, err := s.inventory.Credit(ctx, userID, amount, models.CurrencyDiamonds)
	if err != nil {
		log.Error("Failed to credit purchased diamonds", zap.Int("amount", amount), zap.Error(err))
		return nil, err
	}

	log.Info("Purchase completed",
		zap.Int("quantity", quantity),
		zap.Int("amount", amount),
		zap.String("platform", string(input.Platform)))

	if s.publisher != nil {
		event := models.NewGameplayEvent(models.EventCurrencyPurchased, userID, inv.UpdatedAt)
		event.Currency = models.CurrencyDiamonds
		event.Amount = amount
		if err := s.publisher.PublishGameplayEvent(ctx, event); err != nil {
			log.Warn("Failed to publish purchase event", zap.Error(err))
		}
	}

	return &models.PurchaseResult{
		Success:         true,
		Message:         fmt.Sprintf("Successfully purchased %d diamonds", amount),
		DiamondsBalance: inv.DiamondsBalance,
	}, nil
}
