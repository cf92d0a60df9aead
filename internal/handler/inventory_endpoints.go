package handler

import (
	"net/http"

	"storyverse-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Баланс валют пользователя
// @Description Возвращает алмазы и ключи с учетом восстановления; timeUntilNextKey в миллисекундах
// @Tags inventory
// @Produce json
// @Success 200 {object} models.InventoryBalance
// @Failure 404 {object} APIError "Инвентарь не найден"
// @Router /inventory [get]
func (h *GameplayHandler) getInventory(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	balance, err := h.inventory.GetBalance(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// @Summary Каталог пакетов алмазов
// @Tags payment
// @Produce json
// @Success 200 {object} productsResponse
// @Router /payment/products [get]
func (h *GameplayHandler) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, productsResponse{Products: h.payment.Products()})
}

// @Summary Купить пакет алмазов
// @Tags payment
// @Accept json
// @Produce json
// @Param request body purchaseRequest true "Покупка"
// @Success 201 {object} models.PurchaseResult
// @Failure 400 {object} APIError "Неизвестный товар или неверный чек"
// @Router /payment/purchase [post]
func (h *GameplayHandler) purchase(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	result, err := h.payment.Purchase(c.Request.Context(), userID, service.PurchaseInput{
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Platform:    req.Platform,
		ReceiptData: req.ReceiptData,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	purchasesTotal.WithLabelValues(req.ProductID, string(req.Platform)).Inc()
	h.logger.Info("Purchase processed",
		zap.Stringer("userID", userID),
		zap.String("productID", req.ProductID),
		zap.Int("diamondsBalance", result.DiamondsBalance))
	c.JSON(http.StatusCreated, result)
}
