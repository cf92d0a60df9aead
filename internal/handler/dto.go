package handler

import (
	"storyverse-server/shared/models"

	"github.com/google/uuid"
)

type startChapterRequest struct {
	ChapterID uuid.UUID `json:"chapterId" binding:"required"`
}

type makeChoiceRequest struct {
	StoryID  uuid.UUID `json:"storyId" binding:"required"`
	SceneID  string    `json:"sceneId" binding:"required"`
	ChoiceID string    `json:"choiceId" binding:"required"`
}

type advanceSceneRequest struct {
	StoryID        uuid.UUID `json:"storyId" binding:"required"`
	CurrentSceneID string    `json:"currentSceneId" binding:"required"`
}

// saveProgressRequest: отсутствующие коллекции (nil) не перезаписываются.
type saveProgressRequest struct {
	StoryID            uuid.UUID      `json:"storyId" binding:"required"`
	CurrentChapterID   uuid.UUID      `json:"currentChapterId" binding:"required"`
	CurrentSceneID     string         `json:"currentSceneId" binding:"required"`
	UnlockedOutfits    []string       `json:"unlockedOutfits"`
	RelationshipScores map[string]int `json:"relationshipScores"`
	Flags              map[string]any `json:"flags"`
}

type purchaseRequest struct {
	ProductID   string          `json:"productId" binding:"required"`
	Quantity    int             `json:"quantity" binding:"omitempty,min=1,max=100"`
	Platform    models.Platform `json:"platform" binding:"required,oneof=ios android web"`
	ReceiptData string          `json:"receiptData" binding:"required"`
}

type productsResponse struct {
	Products []models.DiamondProduct `json:"products"`
}
