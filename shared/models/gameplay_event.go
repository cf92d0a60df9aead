package models

import (
	"time"

	"github.com/google/uuid"
)

// GameplayEventType - тип события, публикуемого после успешной операции.
type GameplayEventType string

const (
	EventChapterStarted    GameplayEventType = "chapter_started"
	EventChoiceMade        GameplayEventType = "choice_made"
	EventSceneAdvanced     GameplayEventType = "scene_advanced"
	EventProgressSaved     GameplayEventType = "progress_saved"
	EventProgressReset     GameplayEventType = "progress_reset"
	EventCurrencyPurchased GameplayEventType = "currency_purchased"
)

// GameplayEvent - сообщение для очереди gameplay_events (история, аналитика).
type GameplayEvent struct {
	EventID    uuid.UUID         `json:"eventId"`
	Type       GameplayEventType `json:"type"`
	UserID     uuid.UUID         `json:"userId"`
	StoryID    *uuid.UUID        `json:"storyId,omitempty"`
	ChapterID  *uuid.UUID        `json:"chapterId,omitempty"`
	SceneID    string            `json:"sceneId,omitempty"`
	ChoiceID   string            `json:"choiceId,omitempty"`
	Currency   Currency          `json:"currency,omitempty"`
	Amount     int               `json:"amount,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// NewGameplayEvent создает событие с новым EventID.
func NewGameplayEvent(eventType GameplayEventType, userID uuid.UUID, now time.Time) GameplayEvent {
	return GameplayEvent{
		EventID:    uuid.New(),
		Type:       eventType,
		UserID:     userID,
		OccurredAt: now.UTC(),
	}
}

// WithProgress заполняет историю, главу и сцену из прогресса.
func (e GameplayEvent) WithProgress(p *PlayerProgress) GameplayEvent {
	if p == nil {
		return e
	}
	storyID := p.StoryID
	chapterID := p.CurrentChapterID
	e.StoryID = &storyID
	e.ChapterID = &chapterID
	e.SceneID = p.CurrentSceneID
	return e
}
