package handler

import (
	"net/http"

	"storyverse-server/internal/service"
	"storyverse-server/shared/models"

	"github.com/gin-gonic/gin"
)

// @Summary Начать главу
// @Description Списывает один ключ и ставит игрока на первую сцену главы
// @Tags gameplay
// @Accept json
// @Produce json
// @Param request body startChapterRequest true "ID главы"
// @Success 201 {object} models.GameplayState
// @Failure 400 {object} APIError "Недостаточно ключей или неверный запрос"
// @Failure 404 {object} APIError "Глава или инвентарь не найдены"
// @Router /gameplay/start-chapter [post]
func (h *GameplayHandler) startChapter(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req startChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	state, err := h.gameplay.StartChapter(c.Request.Context(), userID, req.ChapterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// @Summary Сделать выбор
// @Tags gameplay
// @Accept json
// @Produce json
// @Param request body makeChoiceRequest true "История, сцена и вариант"
// @Success 201 {object} models.GameplayState
// @Failure 400 {object} APIError "Неверный выбор или недостаточно валюты"
// @Failure 404 {object} APIError "Прогресс или контент не найдены"
// @Router /gameplay/make-choice [post]
func (h *GameplayHandler) makeChoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req makeChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	state, err := h.gameplay.MakeChoice(c.Request.Context(), userID, req.StoryID, req.SceneID, req.ChoiceID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// @Summary Перейти к следующей сцене
// @Tags gameplay
// @Accept json
// @Produce json
// @Param request body advanceSceneRequest true "История и текущая сцена"
// @Success 201 {object} models.GameplayState
// @Router /gameplay/advance-scene [post]
func (h *GameplayHandler) advanceScene(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req advanceSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	state, err := h.gameplay.AdvanceScene(c.Request.Context(), userID, req.StoryID, req.CurrentSceneID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// @Summary Прогресс игрока по истории
// @Tags gameplay
// @Produce json
// @Param storyId path string true "ID истории"
// @Success 200 {object} models.PlayerProgress
// @Failure 404 {object} APIError
// @Router /gameplay/progress/{storyId} [get]
func (h *GameplayHandler) getProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	storyID, ok := parseUUIDParam(c, "storyId")
	if !ok {
		return
	}

	progress, err := h.gameplay.GetPlayerProgress(c.Request.Context(), userID, storyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// @Summary Текущая сцена игрока
// @Tags gameplay
// @Produce json
// @Param storyId path string true "ID истории"
// @Success 200 {object} models.GameplayState
// @Router /gameplay/current-scene/{storyId} [get]
func (h *GameplayHandler) getCurrentScene(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	storyID, ok := parseUUIDParam(c, "storyId")
	if !ok {
		return
	}

	state, err := h.gameplay.GetCurrentScene(c.Request.Context(), userID, storyID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// @Summary Сохранить прогресс
// @Tags gameplay
// @Accept json
// @Produce json
// @Param request body saveProgressRequest true "Прогресс"
// @Success 201 {object} models.MessageResponse
// @Router /gameplay/save-progress [post]
func (h *GameplayHandler) saveProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req saveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	_, err := h.gameplay.SaveProgress(c.Request.Context(), userID, service.SaveProgressInput{
		StoryID:            req.StoryID,
		CurrentChapterID:   req.CurrentChapterID,
		CurrentSceneID:     req.CurrentSceneID,
		UnlockedOutfits:    req.UnlockedOutfits,
		RelationshipScores: req.RelationshipScores,
		Flags:              req.Flags,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.MessageResponse{Message: "Progress saved successfully"})
}
