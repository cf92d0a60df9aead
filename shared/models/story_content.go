package models

import (
	"time"

	"github.com/google/uuid"
)

// Currency - виртуальная валюта платформы.
type Currency string

const (
	CurrencyDiamonds Currency = "diamonds"
	CurrencyKeys     Currency = "keys"
)

// IsValid сообщает, известна ли валюта.
func (c Currency) IsValid() bool {
	return c == CurrencyDiamonds || c == CurrencyKeys
}

// TimelineEntryType - дискриминатор элемента таймлайна сцены.
type TimelineEntryType string

const (
	TimelineNarrative TimelineEntryType = "narrative"
	TimelineDialogue  TimelineEntryType = "dialogue"
)

// TimelineEntry - элемент таймлайна: повествование или реплика персонажа.
// Character и CharacterImage заполняются только для type=dialogue.
type TimelineEntry struct {
	Type           TimelineEntryType `json:"type" validate:"required,oneof=narrative dialogue"`
	Text           string            `json:"text" validate:"required"`
	Character      string            `json:"character,omitempty" validate:"required_if=Type dialogue,excluded_if=Type narrative"`
	CharacterImage string            `json:"characterImage,omitempty" validate:"excluded_if=Type narrative"`
}

// RelationshipEffect изменяет счетчик отношений с персонажем. Change может быть отрицательным.
type RelationshipEffect struct {
	Character string `json:"character" validate:"required"`
	Change    int    `json:"change"`
}

// ChoiceOption - один из вариантов выбора в сцене.
type ChoiceOption struct {
	ID                 string              `json:"id" validate:"required"`
	Text               string              `json:"text" validate:"required"`
	NextSceneID        string              `json:"nextSceneId" validate:"required"`
	Cost               int                 `json:"cost,omitempty" validate:"gte=0"`
	Currency           Currency            `json:"currency,omitempty" validate:"omitempty,oneof=diamonds keys"`
	Flag               string              `json:"flag,omitempty"`
	RelationshipEffect *RelationshipEffect `json:"relationshipEffect,omitempty"`
}

// IsPaid сообщает, списывает ли вариант валюту.
func (o *ChoiceOption) IsPaid() bool {
	return o.Cost > 0
}

// Choice - блок выбора, показываемый в конце сцены.
type Choice struct {
	Prompt  string          `json:"prompt" validate:"required"`
	Options []*ChoiceOption `json:"options" validate:"min=1,dive,required"`
}

// FindOption ищет вариант по id.
func (c *Choice) FindOption(optionID string) (*ChoiceOption, bool) {
	if c == nil {
		return nil, false
	}
	for _, opt := range c.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return nil, false
}

// Scene - неизменяемый элемент контента главы.
type Scene struct {
	Background  string           `json:"background" validate:"required"`
	Music       *string          `json:"music,omitempty"`
	Timeline    []*TimelineEntry `json:"timeline" validate:"dive,required"`
	NextSceneID *string          `json:"nextSceneId,omitempty" validate:"omitempty,min=1"`
	Choice      *Choice          `json:"choice,omitempty"`
}

// CanAutoAdvance - сцену можно пройти без выбора: есть nextSceneId и нет блока выбора.
func (s *Scene) CanAutoAdvance() bool {
	return s.NextSceneID != nil && *s.NextSceneID != "" && s.Choice == nil
}

// IsTerminal - у сцены нет ни выбора, ни перехода.
func (s *Scene) IsTerminal() bool {
	return s.Choice == nil && (s.NextSceneID == nil || *s.NextSceneID == "")
}

// ChapterContent - контент одной главы: упорядоченный набор сцен.
type ChapterContent struct {
	ChapterID     uuid.UUID `db:"chapter_id" json:"chapterId" validate:"required"`
	StoryID       uuid.UUID `db:"story_id" json:"storyId" validate:"required"`
	ChapterNumber int       `db:"chapter_number" json:"chapterNumber" validate:"gte=1"`
	Scenes        SceneMap  `db:"-" json:"scenes"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// FirstSceneID возвращает первую сцену в авторском порядке.
func (c *ChapterContent) FirstSceneID() (string, bool) {
	return c.Scenes.First()
}

// Scene возвращает сцену главы по ключу.
func (c *ChapterContent) Scene(sceneID string) (*Scene, bool) {
	return c.Scenes.Get(sceneID)
}
