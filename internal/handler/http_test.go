package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storyverse-server/internal/handler"
	"storyverse-server/internal/service"
	"storyverse-server/internal/service/mocks"
	sharedMiddleware "storyverse-server/shared/middleware"
	"storyverse-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	userToken    = "user-token"
	serviceToken = "service-token"
)

type stubVerifier struct {
	userID uuid.UUID
}

func (s *stubVerifier) VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	if tokenString != userToken {
		return nil, models.ErrTokenInvalid
	}
	return &models.Claims{UserID: s.userID}, nil
}

func (s *stubVerifier) VerifyInterServiceToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	if tokenString != serviceToken {
		return nil, models.ErrTokenInvalid
	}
	return &models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "auth-service"}}, nil
}

type testEnv struct {
	router    *gin.Engine
	gameplay  *mocks.GameplayService
	inventory *mocks.InventoryService
	payment   *mocks.PaymentService
	userID    uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		router:    gin.New(),
		gameplay:  new(mocks.GameplayService),
		inventory: new(mocks.InventoryService),
		payment:   new(mocks.PaymentService),
		userID:    uuid.New(),
	}
	h := handler.NewGameplayHandler(env.gameplay, env.inventory, env.payment, &stubVerifier{userID: env.userID}, zap.NewNop())
	h.RegisterRoutes(env.router, "/api/v1", nil)

	t.Cleanup(func() {
		env.gameplay.AssertExpectations(t)
		env.inventory.AssertExpectations(t)
		env.payment.AssertExpectations(t)
	})
	return env
}

func (e *testEnv) do(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func authed() map[string]string {
	return map[string]string{"Authorization": "Bearer " + userToken}
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Message
}

func sampleState() *models.GameplayState {
	return &models.GameplayState{
		SceneData: &models.Scene{Background: "forest_day"},
		PlayerProgress: models.ProgressSnapshot{
			CurrentSceneID: "scene_1",
		},
	}
}

func TestStartChapter_Success(t *testing.T) {
	env := newTestEnv(t)
	chapterID := uuid.New()
	env.gameplay.On("StartChapter", mock.Anything, env.userID, chapterID).Return(sampleState(), nil).Once()

	w := env.do(http.MethodPost, "/api/v1/gameplay/start-chapter", map[string]string{"chapterId": chapterID.String()}, authed())

	assert.Equal(t, http.StatusCreated, w.Code)
	var state models.GameplayState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.NotNil(t, state.SceneData)
	assert.Equal(t, "forest_day", state.SceneData.Background)
	assert.Equal(t, "scene_1", state.PlayerProgress.CurrentSceneID)
}

func TestStartChapter_NotEnoughKeys(t *testing.T) {
	env := newTestEnv(t)
	chapterID := uuid.New()
	env.gameplay.On("StartChapter", mock.Anything, env.userID, chapterID).Return(nil, service.ErrNotEnoughKeys).Once()

	w := env.do(http.MethodPost, "/api/v1/gameplay/start-chapter", map[string]string{"chapterId": chapterID.String()}, authed())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Not enough keys to start chapter", decodeMessage(t, w))
}

func TestStartChapter_Unauthorized(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/gameplay/start-chapter", map[string]string{"chapterId": uuid.NewString()}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodPost, "/api/v1/gameplay/start-chapter", map[string]string{"chapterId": uuid.NewString()},
		map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStartChapter_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/v1/gameplay/start-chapter", "{not json", authed())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeMessage(t, w), "Invalid request data")

	w = env.do(http.MethodPost, "/api/v1/gameplay/start-chapter", map[string]string{}, authed())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMakeChoice_InsufficientDiamonds(t *testing.T) {
	env := newTestEnv(t)
	storyID := uuid.New()
	env.gameplay.On("MakeChoice", mock.Anything, env.userID, storyID, "scene_2", "bribe").
		Return(nil, &service.Error{Kind: models.ErrInsufficientFunds, Message: "Not enough diamonds"}).Once()

	w := env.do(http.MethodPost, "/api/v1/gameplay/make-choice", map[string]string{
		"storyId":  storyID.String(),
		"sceneId":  "scene_2",
		"choiceId": "bribe",
	}, authed())

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Not enough diamonds", decodeMessage(t, w))
}

func TestAdvanceScene_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"Not advanceable", service.ErrSceneNotAdvanceable, http.StatusBadRequest, "Scene cannot be auto-advanced"},
		{"Next scene missing", service.ErrNextSceneNotFound, http.StatusNotFound, "Next scene not found"},
		{"Invalid content", models.ErrInvalidContent, http.StatusInternalServerError, "Story content is invalid"},
		{"Unexpected", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			storyID := uuid.New()
			env.gameplay.On("AdvanceScene", mock.Anything, env.userID, storyID, "scene_1").Return(nil, tt.err).Once()

			w := env.do(http.MethodPost, "/api/v1/gameplay/advance-scene", map[string]string{
				"storyId":        storyID.String(),
				"currentSceneId": "scene_1",
			}, authed())

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, decodeMessage(t, w))
		})
	}
}

func TestGetProgress(t *testing.T) {
	t.Run("Not found", func(t *testing.T) {
		env := newTestEnv(t)
		storyID := uuid.New()
		env.gameplay.On("GetPlayerProgress", mock.Anything, env.userID, storyID).Return(nil, service.ErrProgressNotFound).Once()

		w := env.do(http.MethodGet, "/api/v1/gameplay/progress/"+storyID.String(), nil, authed())

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Player progress not found", decodeMessage(t, w))
	})

	t.Run("Invalid story id", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodGet, "/api/v1/gameplay/progress/not-a-uuid", nil, authed())

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Found", func(t *testing.T) {
		env := newTestEnv(t)
		storyID := uuid.New()
		progress := &models.PlayerProgress{UserID: env.userID, StoryID: storyID, CurrentSceneID: "scene_3"}
		env.gameplay.On("GetPlayerProgress", mock.Anything, env.userID, storyID).Return(progress, nil).Once()

		w := env.do(http.MethodGet, "/api/v1/gameplay/progress/"+storyID.String(), nil, authed())

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "scene_3")
	})
}

func TestSaveProgress_PassesAbsentCollectionsAsNil(t *testing.T) {
	env := newTestEnv(t)
	storyID, chapterID := uuid.New(), uuid.New()
	env.gameplay.On("SaveProgress", mock.Anything, env.userID, mock.MatchedBy(func(in service.SaveProgressInput) bool {
		return in.StoryID == storyID &&
			in.CurrentChapterID == chapterID &&
			in.CurrentSceneID == "scene_4" &&
			in.UnlockedOutfits == nil &&
			in.Flags == nil &&
			in.RelationshipScores["alex"] == 3
	})).Return(&models.PlayerProgress{}, nil).Once()

	w := env.do(http.MethodPost, "/api/v1/gameplay/save-progress", map[string]any{
		"storyId":            storyID.String(),
		"currentChapterId":   chapterID.String(),
		"currentSceneId":     "scene_4",
		"relationshipScores": map[string]int{"alex": 3},
	}, authed())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Progress saved successfully", decodeMessage(t, w))
}

func TestGetInventory(t *testing.T) {
	env := newTestEnv(t)
	env.inventory.On("GetBalance", mock.Anything, env.userID).Return(&models.InventoryBalance{
		UserID:           env.userID,
		DiamondsBalance:  100,
		KeysBalance:      5,
		TimeUntilNextKey: 0,
	}, nil).Once()

	w := env.do(http.MethodGet, "/api/v1/inventory", nil, authed())

	assert.Equal(t, http.StatusOK, w.Code)
	var balance models.InventoryBalance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &balance))
	assert.Equal(t, 100, balance.DiamondsBalance)
	assert.Equal(t, 5, balance.KeysBalance)
}

func TestListProducts_IsPublic(t *testing.T) {
	env := newTestEnv(t)
	env.payment.On("Products").Return(models.DiamondProducts()).Once()

	w := env.do(http.MethodGet, "/api/v1/payment/products", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Products []models.DiamondProduct `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Products, 5)
}

func TestPurchase(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		env := newTestEnv(t)
		input := service.PurchaseInput{ProductID: "diamonds_500", Quantity: 2, Platform: models.PlatformIOS, ReceiptData: "receipt"}
		env.payment.On("Purchase", mock.Anything, env.userID, input).Return(&models.PurchaseResult{
			Success:         true,
			Message:         "Successfully purchased 1000 diamonds",
			DiamondsBalance: 1100,
		}, nil).Once()

		w := env.do(http.MethodPost, "/api/v1/payment/purchase", map[string]any{
			"productId":   "diamonds_500",
			"quantity":    2,
			"platform":    "ios",
			"receiptData": "receipt",
		}, authed())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"diamondsBalance":1100`)
	})

	t.Run("Unknown platform is rejected before service", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPost, "/api/v1/payment/purchase", map[string]any{
			"productId":   "diamonds_500",
			"platform":    "symbian",
			"receiptData": "receipt",
		}, authed())

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unknown product", func(t *testing.T) {
		env := newTestEnv(t)
		env.payment.On("Purchase", mock.Anything, env.userID, mock.Anything).Return(nil, service.ErrInvalidProduct).Once()

		w := env.do(http.MethodPost, "/api/v1/payment/purchase", map[string]any{
			"productId":   "diamonds_7",
			"platform":    "web",
			"receiptData": "receipt",
		}, authed())

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid product", decodeMessage(t, w))
	})
}

func TestInternalRoutes(t *testing.T) {
	internalHeaders := map[string]string{sharedMiddleware.InterServiceTokenHeader: serviceToken}

	t.Run("Provision requires inter-service token", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodPost, "/api/v1/internal/users/"+uuid.NewString()+"/inventory", nil, authed())

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Provision", func(t *testing.T) {
		env := newTestEnv(t)
		target := uuid.New()
		env.inventory.On("Provision", mock.Anything, target).
			Return(&models.UserInventory{UserID: target, DiamondsBalance: 100, KeysBalance: 5}, true, nil).Once()

		w := env.do(http.MethodPost, "/api/v1/internal/users/"+target.String()+"/inventory", nil, internalHeaders)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), target.String())
	})

	t.Run("Reset progress", func(t *testing.T) {
		env := newTestEnv(t)
		target, storyID := uuid.New(), uuid.New()
		env.gameplay.On("ResetProgress", mock.Anything, target, storyID).Return(nil).Once()

		w := env.do(http.MethodDelete, "/api/v1/internal/users/"+target.String()+"/progress/"+storyID.String(), nil, internalHeaders)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Reset with bad user id", func(t *testing.T) {
		env := newTestEnv(t)

		w := env.do(http.MethodDelete, "/api/v1/internal/users/abc/progress/"+uuid.NewString(), nil, internalHeaders)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
