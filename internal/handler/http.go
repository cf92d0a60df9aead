package handler

import (
	"strings"

	"storyverse-server/internal/service"
	"storyverse-server/shared/interfaces"
	sharedMiddleware "storyverse-server/shared/middleware"
	"storyverse-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameplayHandler обрабатывает HTTP запросы игрового сервера.
type GameplayHandler struct {
	gameplay  service.GameplayService
	inventory service.InventoryService
	payment   service.PaymentService
	verifier  interfaces.TokenVerifier
	logger    *zap.Logger
}

// NewGameplayHandler создает новый GameplayHandler.
func NewGameplayHandler(
	gameplay service.GameplayService,
	inventory service.InventoryService,
	payment service.PaymentService,
	verifier interfaces.TokenVerifier,
	logger *zap.Logger,
) *GameplayHandler {
	return &GameplayHandler{
		gameplay:  gameplay,
		inventory: inventory,
		payment:   payment,
		verifier:  verifier,
		logger:    logger.Named("GameplayHandler"),
	}
}

// RegisterRoutes регистрирует маршруты под префиксом apiPrefix.
// rateLimit применяется к пользовательским маршрутам, nil - без ограничения.
func (h *GameplayHandler) RegisterRoutes(router *gin.Engine, apiPrefix string, rateLimit gin.HandlerFunc) {
	api := router.Group(strings.TrimSuffix(apiPrefix, "/"))

	authMiddleware := sharedMiddleware.AuthMiddleware(h.verifier, h.logger)
	userMiddlewares := []gin.HandlerFunc{authMiddleware}
	if rateLimit != nil {
		userMiddlewares = append([]gin.HandlerFunc{rateLimit}, userMiddlewares...)
	}

	gameplayGroup := api.Group("/gameplay", userMiddlewares...)
	{
		gameplayGroup.POST("/start-chapter", h.startChapter)
		gameplayGroup.POST("/make-choice", h.makeChoice)
		gameplayGroup.POST("/advance-scene", h.advanceScene)
		gameplayGroup.GET("/progress/:storyId", h.getProgress)
		gameplayGroup.GET("/current-scene/:storyId", h.getCurrentScene)
		gameplayGroup.POST("/save-progress", h.saveProgress)
	}

	withUser := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(userMiddlewares)+1)
		chain = append(chain, userMiddlewares...)
		return append(chain, handler)
	}

	api.GET("/inventory", withUser(h.getInventory)...)

	paymentGroup := api.Group("/payment")
	{
		paymentGroup.GET("/products", h.listProducts)
		paymentGroup.POST("/purchase", withUser(h.purchase)...)
	}

	internalGroup := api.Group("/internal", sharedMiddleware.InterServiceAuthMiddleware(h.verifier, h.logger))
	{
		internalGroup.POST("/users/:user_id/inventory", h.provisionInventory)
		internalGroup.DELETE("/users/:user_id/progress/:story_id", h.resetProgress)
	}
}

// --- Вспомогательные функции --- //

// getUserIDFromContext извлекает UUID пользователя, положенный AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(sharedMiddleware.GinUserIDKey); ok {
		if userID, ok := v.(uuid.UUID); ok && userID != uuid.Nil {
			return userID, true
		}
	}
	return models.GetUserIDFromContext(c.Request.Context())
}

// requireUserID возвращает userID или отвечает 401.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		handleServiceError(c, models.ErrUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

// parseUUIDParam разбирает UUID из параметра пути или отвечает 400.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		abortBadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
