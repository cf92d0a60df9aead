package database_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"storyverse-server/internal/service"
	"storyverse-server/pkg/migration"
	"storyverse-server/shared/database"
	"storyverse-server/shared/interfaces"
	"storyverse-server/shared/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

const integrationChapterJSON = `{
	"chapterId": "00000000-0000-0000-0000-000000000000",
	"storyId": "00000000-0000-0000-0000-000000000000",
	"chapterNumber": 1,
	"scenes": {
		"zz_intro": {"background": "a.jpg", "timeline": [{"type": "narrative", "text": "hi"}], "nextSceneId": "b_choice"},
		"b_choice": {"background": "b.jpg", "timeline": [], "choice": {"prompt": "?", "options": [
			{"id": "go", "text": "Go", "nextSceneId": "a_end", "cost": 1, "currency": "keys"}
		]}},
		"a_end": {"background": "c.jpg", "timeline": []}
	}
}`

// RepositoriesIntegrationSuite проверяет репозитории на реальном Postgres и Redis.
type RepositoriesIntegrationSuite struct {
	suite.Suite
	pgContainer    *postgres.PostgresContainer
	redisContainer *tcredis.RedisContainer
	pool           *pgxpool.Pool
	redisClient    *redis.Client

	txHelper      *database.TransactionHelper
	progressRepo  interfaces.PlayerProgressRepository
	inventoryRepo interfaces.UserInventoryRepository
	contentRepo   interfaces.StoryContentRepository
	contentCache  interfaces.ContentCache
}

func TestRepositoriesIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(RepositoriesIntegrationSuite))
}

func (s *RepositoriesIntegrationSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("gameplay-test"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(5*time.Minute),
		),
	)
	s.Require().NoError(err)
	s.pgContainer = pgContainer

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.pool, err = pgxpool.New(ctx, connStr)
	s.Require().NoError(err)

	migrator := migration.NewMigrator(migration.Config{
		MigrationsFS:   database.MigrationsFS,
		MigrationsPath: database.MigrationsDir,
	}, s.pool, zerolog.Nop())
	s.Require().NoError(migrator.Up(ctx))

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.redisContainer = redisContainer
	redisURL, err := redisContainer.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(redisURL)
	s.Require().NoError(err)
	s.redisClient = redis.NewClient(opts)

	logger := zap.NewNop()
	s.txHelper = database.NewTransactionHelper(s.pool, logger)
	s.progressRepo = database.NewPgPlayerProgressRepository(s.pool, logger)
	s.inventoryRepo = database.NewPgUserInventoryRepository(s.pool, logger)
	s.contentCache = database.NewRedisContentCache(s.redisClient, time.Minute, logger)
	s.contentRepo = database.NewCachedStoryContentRepository(
		database.NewPgStoryContentRepository(s.pool, logger), s.contentCache, logger)
}

func (s *RepositoriesIntegrationSuite) TearDownSuite() {
	ctx := context.Background()
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
	if s.redisContainer != nil {
		_ = s.redisContainer.Terminate(ctx)
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(ctx)
	}
}

func (s *RepositoriesIntegrationSuite) newChapter() *models.ChapterContent {
	var content models.ChapterContent
	s.Require().NoError(json.Unmarshal([]byte(integrationChapterJSON), &content))
	content.ChapterID = uuid.New()
	content.StoryID = uuid.New()
	return &content
}

func (s *RepositoriesIntegrationSuite) TestStoryContent_RoundTripKeepsSceneOrder() {
	ctx := context.Background()
	content := s.newChapter()
	s.Require().NoError(s.contentRepo.Upsert(ctx, nil, content))

	loaded, err := s.contentRepo.GetByChapterID(ctx, nil, content.ChapterID)
	s.Require().NoError(err)
	assert.Equal(s.T(), []string{"zz_intro", "b_choice", "a_end"}, loaded.Scenes.Keys())
	first, _ := loaded.FirstSceneID()
	assert.Equal(s.T(), "zz_intro", first)

	// Второе чтение идет из кэша и тоже сохраняет порядок
	cached, err := s.contentCache.Get(ctx, content.ChapterID)
	s.Require().NoError(err)
	assert.Equal(s.T(), loaded.Scenes.Keys(), cached.Scenes.Keys())

	_, err = s.contentRepo.GetByChapterID(ctx, nil, uuid.New())
	assert.True(s.T(), errors.Is(err, models.ErrNotFound))
}

func (s *RepositoriesIntegrationSuite) TestPlayerProgress_UpsertGetDelete() {
	ctx := context.Background()
	userID, storyID := uuid.New(), uuid.New()

	_, err := s.progressRepo.Get(ctx, nil, userID, storyID)
	s.Require().True(errors.Is(err, models.ErrNotFound))

	progress := models.NewPlayerProgress(userID, storyID, time.Now())
	progress.CurrentChapterID = uuid.New()
	progress.CurrentSceneID = "zz_intro"
	progress.RelationshipScores["Ann"] = -2
	progress.Flags["brave"] = true
	progress.Flags["route"] = "north"
	progress.ChoicesMade = append(progress.ChoicesMade, "go")
	s.Require().NoError(s.progressRepo.Upsert(ctx, nil, progress))
	originalID := progress.ID

	// Повторный upsert с новым ID не создает вторую запись
	second := models.NewPlayerProgress(userID, storyID, time.Now())
	second.CurrentChapterID = progress.CurrentChapterID
	second.CurrentSceneID = "a_end"
	s.Require().NoError(s.progressRepo.Upsert(ctx, nil, second))
	assert.Equal(s.T(), originalID, second.ID)

	loaded, err := s.progressRepo.Get(ctx, nil, userID, storyID)
	s.Require().NoError(err)
	assert.Equal(s.T(), "a_end", loaded.CurrentSceneID)
	assert.Empty(s.T(), loaded.ChoicesMade)
	assert.NotNil(s.T(), loaded.RelationshipScores)

	s.Require().NoError(s.progressRepo.Delete(ctx, nil, userID, storyID))
	s.Require().NoError(s.progressRepo.Delete(ctx, nil, userID, storyID))
	_, err = s.progressRepo.Get(ctx, nil, userID, storyID)
	assert.True(s.T(), errors.Is(err, models.ErrNotFound))
}

func (s *RepositoriesIntegrationSuite) TestPlayerProgress_JSONFields() {
	ctx := context.Background()
	progress := models.NewPlayerProgress(uuid.New(), uuid.New(), time.Now())
	progress.CurrentChapterID = uuid.New()
	progress.CurrentSceneID = "s"
	progress.RelationshipScores["Ann"] = 5
	progress.Flags["brave"] = true
	progress.UnlockedOutfits = []string{"royal_dress"}
	s.Require().NoError(s.progressRepo.Upsert(ctx, nil, progress))

	loaded, err := s.progressRepo.Get(ctx, nil, progress.UserID, progress.StoryID)
	s.Require().NoError(err)
	assert.Equal(s.T(), 5, loaded.RelationshipScores["Ann"])
	assert.Equal(s.T(), true, loaded.Flags["brave"])
	assert.Equal(s.T(), []string{"royal_dress"}, loaded.UnlockedOutfits)
}

func (s *RepositoriesIntegrationSuite) TestUserInventory_ProvisionIsIdempotent() {
	ctx := context.Background()
	userID := uuid.New()

	created, err := s.inventoryRepo.CreateIfNotExists(ctx, nil, models.NewUserInventory(userID, time.Now()))
	s.Require().NoError(err)
	assert.True(s.T(), created)

	created, err = s.inventoryRepo.CreateIfNotExists(ctx, nil, models.NewUserInventory(userID, time.Now()))
	s.Require().NoError(err)
	assert.False(s.T(), created)

	inv, err := s.inventoryRepo.Get(ctx, nil, userID)
	s.Require().NoError(err)
	assert.Equal(s.T(), models.DefaultKeysBalance, inv.KeysBalance)
	assert.Equal(s.T(), 0, inv.DiamondsBalance)

	err = s.inventoryRepo.Update(ctx, nil, &models.UserInventory{UserID: uuid.New(), LastKeyRefillAt: time.Now(), UpdatedAt: time.Now()})
	assert.True(s.T(), errors.Is(err, models.ErrNotFound))
}

// Два конкурентных списания при балансе ровно на одно: успешно ровно одно.
func (s *RepositoriesIntegrationSuite) TestUserInventory_ConcurrentDeductIsAtomic() {
	ctx := context.Background()
	userID := uuid.New()
	inv := models.NewUserInventory(userID, time.Now())
	inv.DiamondsBalance = 10
	_, err := s.inventoryRepo.CreateIfNotExists(ctx, nil, inv)
	s.Require().NoError(err)

	const workers = 8
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.txHelper.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
				locked, err := s.inventoryRepo.GetForUpdate(ctx, tx, userID)
				if err != nil {
					return err
				}
				if err := locked.Deduct(10, models.CurrencyDiamonds, time.Now()); err != nil {
					return err
				}
				return s.inventoryRepo.Update(ctx, tx, locked)
			})
		}()
	}
	wg.Wait()
	close(results)

	succeeded, insufficient := 0, 0
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, models.ErrInsufficientFunds):
			insufficient++
		default:
			s.T().Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(s.T(), 1, succeeded)
	assert.Equal(s.T(), workers-1, insufficient)

	final, err := s.inventoryRepo.Get(ctx, nil, userID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0, final.DiamondsBalance)
}

func (s *RepositoriesIntegrationSuite) TestTransactionHelper_RollsBackOnError() {
	ctx := context.Background()
	userID := uuid.New()
	_, err := s.inventoryRepo.CreateIfNotExists(ctx, nil, models.NewUserInventory(userID, time.Now()))
	s.Require().NoError(err)

	boom := errors.New("boom")
	err = s.txHelper.WithTransaction(ctx, func(ctx context.Context, tx interfaces.DBTX) error {
		inv, err := s.inventoryRepo.GetForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		inv.KeysBalance = 0
		if err := s.inventoryRepo.Update(ctx, tx, inv); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	inv, err := s.inventoryRepo.Get(ctx, nil, userID)
	s.Require().NoError(err)
	assert.Equal(s.T(), models.DefaultKeysBalance, inv.KeysBalance)
}

// StartChapter и платный MakeChoice одного игрока параллельно не должны
// заканчиваться deadlock'ом: допустимы только успех или доменная ошибка.
func (s *RepositoriesIntegrationSuite) TestGameplay_ConcurrentStartAndPaidChoiceDoNotDeadlock() {
	ctx := context.Background()
	logger := zap.NewNop()
	inventory := service.NewInventoryService(s.inventoryRepo, s.txHelper, logger)
	gameplay := service.NewGameplayService(s.progressRepo, s.contentRepo, inventory, s.txHelper, nil, logger)

	content := s.newChapter()
	s.Require().NoError(s.contentRepo.Upsert(ctx, nil, content))
	userID := uuid.New()
	_, err := s.inventoryRepo.CreateIfNotExists(ctx, nil, models.NewUserInventory(userID, time.Now()))
	s.Require().NoError(err)

	const rounds = 20
	for i := 0; i < rounds; i++ {
		inv, err := s.inventoryRepo.Get(ctx, nil, userID)
		s.Require().NoError(err)
		inv.KeysBalance = models.MaxKeys
		inv.LastKeyRefillAt = time.Now().UTC()
		s.Require().NoError(s.inventoryRepo.Update(ctx, nil, inv))

		progress := models.NewPlayerProgress(userID, content.StoryID, time.Now())
		progress.CurrentChapterID = content.ChapterID
		progress.CurrentSceneID = "b_choice"
		s.Require().NoError(s.progressRepo.Upsert(ctx, nil, progress))

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = gameplay.StartChapter(ctx, userID, content.ChapterID)
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = gameplay.MakeChoice(ctx, userID, content.StoryID, "b_choice", "go")
		}()
		wg.Wait()

		for _, err := range errs {
			var serviceErr *service.Error
			if err != nil && !errors.As(err, &serviceErr) {
				s.T().Fatalf("round %d: unexpected error: %v", i, err)
			}
		}
	}
}
