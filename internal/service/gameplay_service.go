package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameplayService продвигает игрока по графу сцен главы.
type GameplayService interface {
	StartChapter(ctx context.Context, userID, chapterID uuid.UUID) (*models.GameplayState, error)
	MakeChoice(ctx context.Context, userID, storyID uuid.UUID, sceneID, choiceID string) (*models.GameplayState, error)
	AdvanceScene(ctx context.Context, userID, storyID uuid.UUID, currentSceneID string) (*models.GameplayState, error)
	GetCurrentScene(ctx context.Context, userID, storyID uuid.UUID) (*models.GameplayState, error)
	GetPlayerProgress(ctx context.Context, userID, storyID uuid.UUID) (*models.PlayerProgress, error)
	SaveProgress(ctx context.Context, userID uuid.UUID, input SaveProgressInput) (*models.PlayerProgress, error)
	ResetProgress(ctx context.Context, userID, storyID uuid.UUID) error
}

// SaveProgressInput - явное сохранение прогресса клиентом.
// nil в UnlockedOutfits, RelationshipScores и Flags означает "не передано": поле не меняется.
type SaveProgressInput struct {
	StoryID            uuid.UUID
	CurrentChapterID   uuid.UUID
	CurrentSceneID     string
	UnlockedOutfits    []string
	RelationshipScores map[string]int
	Flags              map[string]any
}

type gameplayServiceImpl struct {
	progressRepo interfaces.PlayerProgressRepository
	contentRepo  interfaces.StoryContentRepository
	inventory    InventoryService
	txManager    interfaces.TxManager
	publisher    interfaces.GameplayEventPublisher
	logger       *zap.Logger
}

// NewGameplayService создает игровой сервис. publisher может быть nil: события тогда не публикуются.
func NewGameplayService(
	progressRepo interfaces.PlayerProgressRepository,
	contentRepo interfaces.StoryContentRepository,
	inventory InventoryService,
	txManager interfaces.TxManager,
	publisher interfaces.GameplayEventPublisher,
	logger *zap.Logger,
) GameplayService {
	return &gameplayServiceImpl{
		progressRepo: progressRepo,
		contentRepo:  contentRepo,
		inventory:    inventory,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger.Named("GameplayService"),
	}
}

// StartChapter списывает ключ и ставит игрока на первую сцену главы.
// Контент загружается до списания, списание и запись прогресса идут в одной транзакции.
func (s *gameplayServiceImpl) StartChapter(ctx context.Context, userID, chapterID uuid.UUID) (*models.GameplayState, error) {
	log := s.logger.With(zap.Stringer("userID", userID), zap.Stringer("chapterID", chapterID))

	content, err := s.loadContent(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	firstSceneID, ok := content.FirstSceneID()
	if !ok {
		log.Error("Chapter has no scenes")
		return nil, fmt.Errorf("%w: chapter %s has no scenes", models.ErrInvalidContent, chapterID)
	}
	firstScene, _ := content.Scene(firstSceneID)

	// Порядок блокировок везде один: прогресс, затем леджер (как в MakeChoice).
	var progress *models.PlayerProgress
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		now := time.Now().UTC()
		var err error
		progress, err = s.lockOrCreateProgress(ctx, tx, userID, content.StoryID, now)
		if err != nil {
			return err
		}

		if _, err := s.inventory.DeductWithin(ctx, tx, userID, 1, models.CurrencyKeys); err != nil {
			if errors.Is(err, models.ErrInsufficientFunds) {
				return ErrNotEnoughKeys
			}
			return err
		}

		progress.MoveTo(chapterID, firstSceneID, now)
		return s.progressRepo.Upsert(ctx, tx, progress)
	})
	if err != nil {
		s.logFailure(log, "Failed to start chapter", err)
		return nil, err
	}

	chaptersStartedTotal.Inc()
	currencyDeductedTotal.WithLabelValues(string(models.CurrencyKeys)).Inc()
	log.Info("Chapter started", zap.String("sceneID", firstSceneID))

	event := models.NewGameplayEvent(models.EventChapterStarted, userID, progress.LastPlayedAt).WithProgress(progress)
	event.Currency = models.CurrencyKeys
	event.Amount = 1
	s.publish(ctx, event)

	return models.NewGameplayState(firstScene, progress), nil
}

// MakeChoice применяет выбор игрока в его текущей сцене.
// При любой ошибке ни прогресс, ни баланс не меняются.
func (s *gameplayServiceImpl) MakeChoice(ctx context.Context, userID, storyID uuid.UUID, sceneID, choiceID string) (*models.GameplayState, error) {
	log := s.logger.With(
		zap.Stringer("userID", userID),
		zap.Stringer("storyID", storyID),
		zap.String("sceneID", sceneID),
		zap.String("choiceID", choiceID),
	)

	var (
		progress  *models.PlayerProgress
		option    *models.ChoiceOption
		nextScene *models.Scene
	)
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		var err error
		progress, err = s.progressRepo.GetForUpdate(ctx, tx, userID, storyID)
		if err != nil {
			return mapNotFound(err, ErrProgressNotFound)
		}
		content, err := s.loadContent(ctx, progress.CurrentChapterID)
		if err != nil {
			return err
		}

		scene, ok := content.Scene(sceneID)
		if !ok || scene.Choice == nil {
			return ErrInvalidScene
		}
		if sceneID != progress.CurrentSceneID {
			return ErrSceneMismatch
		}
		option, ok = scene.Choice.FindOption(choiceID)
		if !ok {
			return ErrInvalidChoice
		}
		nextScene, ok = content.Scene(option.NextSceneID)
		if !ok {
			return ErrNextSceneNotFound
		}

		if option.IsPaid() {
			if _, err := s.inventory.DeductWithin(ctx, tx, userID, option.Cost, option.Currency); err != nil {
				return err
			}
		}

		progress.ApplyChoice(option, time.Now().UTC())
		return s.progressRepo.Upsert(ctx, tx, progress)
	})
	if err != nil {
		s.logFailure(log, "Failed to make choice", err)
		return nil, err
	}

	event := models.NewGameplayEvent(models.EventChoiceMade, userID, progress.LastPlayedAt).WithProgress(progress)
	event.ChoiceID = option.ID
	if option.IsPaid() {
		choicesMadeTotal.WithLabelValues(string(option.Currency)).Inc()
		currencyDeductedTotal.WithLabelValues(string(option.Currency)).Add(float64(option.Cost))
		event.Currency = option.Currency
		event.Amount = option.Cost
	} else {
		choicesMadeTotal.WithLabelValues("free").Inc()
	}
	log.Info("Choice applied", zap.String("nextSceneID", option.NextSceneID))
	s.publish(ctx, event)

	return models.NewGameplayState(nextScene, progress), nil
}

// AdvanceScene переводит игрока со сцены без выбора на ее nextSceneId.
func (s *gameplayServiceImpl) AdvanceScene(ctx context.Context, userID, storyID uuid.UUID, currentSceneID string) (*models.GameplayState, error) {
	log := s.logger.With(
		zap.Stringer("userID", userID),
		zap.Stringer("storyID", storyID),
		zap.String("sceneID", currentSceneID),
	)

	var (
		progress  *models.PlayerProgress
		nextScene *models.Scene
	)
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		var err error
		progress, err = s.progressRepo.GetForUpdate(ctx, tx, userID, storyID)
		if err != nil {
			return mapNotFound(err, ErrProgressNotFound)
		}
		content, err := s.loadContent(ctx, progress.CurrentChapterID)
		if err != nil {
			return err
		}

		scene, ok := content.Scene(currentSceneID)
		if !ok {
			return ErrInvalidScene
		}
		if currentSceneID != progress.CurrentSceneID {
			return ErrSceneMismatch
		}
		if !scene.CanAutoAdvance() {
			return ErrSceneNotAdvanceable
		}
		nextSceneID := *scene.NextSceneID
		nextScene, ok = content.Scene(nextSceneID)
		if !ok {
			return ErrNextSceneNotFound
		}

		progress.MoveTo(progress.CurrentChapterID, nextSceneID, time.Now().UTC())
		return s.progressRepo.Upsert(ctx, tx, progress)
	})
	if err != nil {
		s.logFailure(log, "Failed to advance scene", err)
		return nil, err
	}

	scenesAdvancedTotal.Inc()
	log.Info("Scene advanced", zap.String("nextSceneID", progress.CurrentSceneID))
	s.publish(ctx, models.NewGameplayEvent(models.EventSceneAdvanced, userID, progress.LastPlayedAt).WithProgress(progress))

	return models.NewGameplayState(nextScene, progress), nil
}

func (s *gameplayServiceImpl) GetCurrentScene(ctx context.Context, userID, storyID uuid.UUID) (*models.GameplayState, error) {
	progress, err := s.GetPlayerProgress(ctx, userID, storyID)
	if err != nil {
		return nil, err
	}
	content, err := s.loadContent(ctx, progress.CurrentChapterID)
	if err != nil {
		return nil, err
	}
	scene, ok := content.Scene(progress.CurrentSceneID)
	if !ok {
		s.logger.Warn("Current scene is missing from chapter content",
			zap.Stringer("userID", userID),
			zap.Stringer("chapterID", progress.CurrentChapterID),
			zap.String("sceneID", progress.CurrentSceneID))
		return nil, ErrSceneNotFound
	}
	return models.NewGameplayState(scene, progress), nil
}

func (s *gameplayServiceImpl) GetPlayerProgress(ctx context.Context, userID, storyID uuid.UUID) (*models.PlayerProgress, error) {
	progress, err := s.progressRepo.Get(ctx, nil, userID, storyID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		s.logger.Error("Failed to get player progress",
			zap.Stringer("userID", userID), zap.Stringer("storyID", storyID), zap.Error(err))
		return nil, fmt.Errorf("failed to get player progress: %w", err)
	}
	return progress, nil
}

// SaveProgress создает или перезаписывает прогресс. Главу и сцену перезаписывает всегда,
// коллекции - только если они переданы.
func (s *gameplayServiceImpl) SaveProgress(ctx context.Context, userID uuid.UUID, input SaveProgressInput) (*models.PlayerProgress, error) {
	log := s.logger.With(zap.Stringer("userID", userID), zap.Stringer("storyID", input.StoryID))

	var progress *models.PlayerProgress
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		now := time.Now().UTC()
		var err error
		progress, err = s.lockOrCreateProgress(ctx, tx, userID, input.StoryID, now)
		if err != nil {
			return err
		}

		progress.MoveTo(input.CurrentChapterID, input.CurrentSceneID, now)
		if input.UnlockedOutfits != nil {
			progress.UnlockedOutfits = input.UnlockedOutfits
		}
		if input.RelationshipScores != nil {
			progress.RelationshipScores = input.RelationshipScores
		}
		if input.Flags != nil {
			progress.Flags = input.Flags
		}
		return s.progressRepo.Upsert(ctx, tx, progress)
	})
	if err != nil {
		s.logFailure(log, "Failed to save progress", err)
		return nil, err
	}

	log.Info("Progress saved", zap.String("sceneID", progress.CurrentSceneID))
	s.publish(ctx, models.NewGameplayEvent(models.EventProgressSaved, userID, progress.LastPlayedAt).WithProgress(progress))
	return progress, nil
}

// ResetProgress удаляет прогресс игрока по истории. Повторный вызов не ошибка.
func (s *gameplayServiceImpl) ResetProgress(ctx context.Context, userID, storyID uuid.UUID) error {
	if err := s.progressRepo.Delete(ctx, nil, userID, storyID); err != nil {
		s.logger.Error("Failed to reset progress",
			zap.Stringer("userID", userID), zap.Stringer("storyID", storyID), zap.Error(err))
		return fmt.Errorf("failed to reset progress: %w", err)
	}

	s.logger.Info("Progress reset", zap.Stringer("userID", userID), zap.Stringer("storyID", storyID))
	event := models.NewGameplayEvent(models.EventProgressReset, userID, time.Now())
	event.StoryID = &storyID
	s.publish(ctx, event)
	return nil
}

// loadContent загружает и проверяет контент главы.
func (s *gameplayServiceImpl) loadContent(ctx context.Context, chapterID uuid.UUID) (*models.ChapterContent, error) {
	content, err := s.contentRepo.GetByChapterID(ctx, nil, chapterID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to load chapter content: %w", err)
	}
	if err := content.Validate(); err != nil {
		s.logger.Error("Invalid chapter content", zap.Stringer("chapterID", chapterID), zap.Error(err))
		return nil, err
	}
	return content, nil
}

func (s *gameplayServiceImpl) lockOrCreateProgress(ctx context.Context, tx interfaces.DBTX, userID, storyID uuid.UUID, now time.Time) (*models.PlayerProgress, error) {
	progress, err := s.progressRepo.GetForUpdate(ctx, tx, userID, storyID)
	if err == nil {
		return progress, nil
	}
	if errors.Is(err, models.ErrNotFound) {
		return models.NewPlayerProgress(userID, storyID, now), nil
	}
	return nil, fmt.Errorf("failed to lock player progress: %w", err)
}

func (s *gameplayServiceImpl) publish(ctx context.Context, event models.GameplayEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishGameplayEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish gameplay event",
			zap.String("type", string(event.Type)),
			zap.Stringer("eventID", event.EventID),
			zap.Error(err))
	}
}

// logFailure: ожидаемые ошибки клиента - Info, остальные - Error.
func (s *gameplayServiceImpl) logFailure(log *zap.Logger, msg string, err error) {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		log.Info(msg, zap.Error(err))
		return
	}
	log.Error(msg, zap.Error(err))
}
