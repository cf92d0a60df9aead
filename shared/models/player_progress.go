package models

import (
	"time"

	"github.com/google/uuid"
)

// PlayerProgress хранит текущее состояние игрока в рамках одной истории.
// На пару (UserID, StoryID) существует не более одной записи.
type PlayerProgress struct {
	ID                 uuid.UUID      `db:"id" json:"id"`
	UserID             uuid.UUID      `db:"user_id" json:"userId"`
	StoryID            uuid.UUID      `db:"story_id" json:"storyId"`
	CurrentChapterID   uuid.UUID      `db:"current_chapter_id" json:"currentChapterId"`
	CurrentSceneID     string         `db:"current_scene_id" json:"currentSceneId"`
	UnlockedOutfits    []string       `db:"unlocked_outfits" json:"unlockedOutfits"`
	RelationshipScores map[string]int `db:"relationship_scores" json:"relationshipScores"`
	Flags              map[string]any `db:"flags" json:"flags"`
	ChoicesMade        []string       `db:"choices_made" json:"choicesMade"`
	LastPlayedAt       time.Time      `db:"last_played_at" json:"lastPlayedAt"`
	CreatedAt          time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updatedAt"`
}

// NewPlayerProgress создает запись с пустыми коллекциями.
func NewPlayerProgress(userID, storyID uuid.UUID, now time.Time) *PlayerProgress {
	return &PlayerProgress{
		ID:                 uuid.New(),
		UserID:             userID,
		StoryID:            storyID,
		UnlockedOutfits:    []string{},
		RelationshipScores: make(map[string]int),
		Flags:              make(map[string]any),
		ChoicesMade:        []string{},
		LastPlayedAt:       now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// ensureCollections гарантирует, что коллекции не nil (после чтения из БД или ручной сборки).
func (p *PlayerProgress) ensureCollections() {
	if p.UnlockedOutfits == nil {
		p.UnlockedOutfits = []string{}
	}
	if p.RelationshipScores == nil {
		p.RelationshipScores = make(map[string]int)
	}
	if p.Flags == nil {
		p.Flags = make(map[string]any)
	}
	if p.ChoicesMade == nil {
		p.ChoicesMade = []string{}
	}
}

// ApplyChoice применяет эффекты выбранного варианта: переход на следующую сцену,
// запись в историю выборов, изменение отношений (без ограничений) и установку флага.
// Списание валюты выполняется отдельно, через леджер.
func (p *PlayerProgress) ApplyChoice(option *ChoiceOption, now time.Time) {
	p.ensureCollections()
	p.CurrentSceneID = option.NextSceneID
	p.ChoicesMade = append(p.ChoicesMade, option.ID)
	if eff := option.RelationshipEffect; eff != nil {
		p.RelationshipScores[eff.Character] += eff.Change
	}
	if option.Flag != "" {
		p.Flags[option.Flag] = true
	}
	p.LastPlayedAt = now
}

// MoveTo переводит игрока на сцену (автопереход или старт главы).
func (p *PlayerProgress) MoveTo(chapterID uuid.UUID, sceneID string, now time.Time) {
	p.ensureCollections()
	p.CurrentChapterID = chapterID
	p.CurrentSceneID = sceneID
	p.LastPlayedAt = now
}

// Snapshot возвращает краткое состояние для ответа клиенту.
func (p *PlayerProgress) Snapshot() ProgressSnapshot {
	p.ensureCollections()
	return ProgressSnapshot{
		CurrentSceneID:     p.CurrentSceneID,
		RelationshipScores: p.RelationshipScores,
		Flags:              p.Flags,
	}
}

// ProgressSnapshot - часть прогресса, возвращаемая вместе со сценой.
type ProgressSnapshot struct {
	CurrentSceneID     string         `json:"currentSceneId"`
	RelationshipScores map[string]int `json:"relationshipScores"`
	Flags              map[string]any `json:"flags"`
}

// GameplayState - ответ на игровые операции: данные сцены и снимок прогресса.
type GameplayState struct {
	SceneData      *Scene           `json:"sceneData"`
	NextSceneID    *string          `json:"nextSceneId,omitempty"`
	PlayerProgress ProgressSnapshot `json:"playerProgress"`
}

// NewGameplayState собирает ответ по сцене и прогрессу.
func NewGameplayState(scene *Scene, progress *PlayerProgress) *GameplayState {
	state := &GameplayState{
		SceneData:      scene,
		PlayerProgress: progress.Snapshot(),
	}
	if scene != nil {
		state.NextSceneID = scene.NextSceneID
	}
	return state
}
