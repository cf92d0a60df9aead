package handler

import (
	"net/http"

	"storyverse-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// provisionInventory создает инвентарь пользователя со значениями по умолчанию.
// Вызывается сервисом аккаунтов после регистрации; повторный вызов возвращает существующую запись.
func (h *GameplayHandler) provisionInventory(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return
	}

	inv, created, err := h.inventory.Provision(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if created {
		inventoriesProvisionedTotal.Inc()
	}

	source, _ := c.Get(string(models.SourceServiceContextKey))
	h.logger.Info("Inventory provisioned via internal API",
		zap.Stringer("userID", userID),
		zap.Bool("created", created),
		zap.Any("sourceService", source))
	c.JSON(http.StatusCreated, inv)
}

// resetProgress удаляет прогресс пользователя по истории (административный сброс).
func (h *GameplayHandler) resetProgress(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "user_id")
	if !ok {
		return
	}
	storyID, ok := parseUUIDParam(c, "story_id")
	if !ok {
		return
	}

	if err := h.gameplay.ResetProgress(c.Request.Context(), userID, storyID); err != nil {
		handleServiceError(c, err)
		return
	}
	progressResetsTotal.Inc()
	c.Status(http.StatusNoContent)
}
