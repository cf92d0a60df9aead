package models

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	contentValidatorOnce sync.Once
	contentValidator     *validator.Validate
)

func getContentValidator() *validator.Validate {
	contentValidatorOnce.Do(func() {
		contentValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return contentValidator
}

// Validate проверяет контент главы целиком: теги полей каждой сцены и ссылочную целостность.
// Все nextSceneId (сцен и вариантов) должны указывать на сцены этой же главы,
// id вариантов уникальны в пределах выбора, у платного варианта указана валюта.
// Ошибка всегда оборачивает ErrInvalidContent.
func (c *ChapterContent) Validate() error {
	v := getContentValidator()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("%w: chapter %s: %v", ErrInvalidContent, c.ChapterID, err)
	}
	if c.Scenes.Len() == 0 {
		return fmt.Errorf("%w: chapter %s has no scenes", ErrInvalidContent, c.ChapterID)
	}

	for _, sceneID := range c.Scenes.Keys() {
		scene, _ := c.Scenes.Get(sceneID)
		if scene == nil {
			return fmt.Errorf("%w: chapter %s: scene %q is null", ErrInvalidContent, c.ChapterID, sceneID)
		}
		if err := v.Struct(scene); err != nil {
			return fmt.Errorf("%w: chapter %s: scene %q: %v", ErrInvalidContent, c.ChapterID, sceneID, err)
		}
		if scene.NextSceneID != nil && !c.Scenes.Has(*scene.NextSceneID) {
			return fmt.Errorf("%w: chapter %s: scene %q points to missing scene %q",
				ErrInvalidContent, c.ChapterID, sceneID, *scene.NextSceneID)
		}
		if scene.Choice == nil {
			continue
		}

		optionIDs := make(map[string]struct{}, len(scene.Choice.Options))
		for _, opt := range scene.Choice.Options {
			if _, dup := optionIDs[opt.ID]; dup {
				return fmt.Errorf("%w: chapter %s: scene %q has duplicate option %q",
					ErrInvalidContent, c.ChapterID, sceneID, opt.ID)
			}
			optionIDs[opt.ID] = struct{}{}

			if !c.Scenes.Has(opt.NextSceneID) {
				return fmt.Errorf("%w: chapter %s: option %q of scene %q points to missing scene %q",
					ErrInvalidContent, c.ChapterID, opt.ID, sceneID, opt.NextSceneID)
			}
			if opt.IsPaid() && !opt.Currency.IsValid() {
				return fmt.Errorf("%w: chapter %s: option %q of scene %q has cost without currency",
					ErrInvalidContent, c.ChapterID, opt.ID, sceneID)
			}
		}
	}
	return nil
}
