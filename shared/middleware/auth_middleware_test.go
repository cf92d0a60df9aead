package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storyverse-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubVerifier struct {
	claims *models.Claims
	err    error
}

func (s *stubVerifier) VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	return s.claims, s.err
}

func (s *stubVerifier) VerifyInterServiceToken(ctx context.Context, tokenString string) (*models.Claims, error) {
	return s.claims, s.err
}

func newTestRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", mw, func(c *gin.Context) {
		userID, _ := models.GetUserIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"userId": userID.String()})
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		verifier   *stubVerifier
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Missing header",
			verifier:   &stubVerifier{},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Missing token",
		},
		{
			name:       "Malformed header",
			header:     "Token abc",
			verifier:   &stubVerifier{},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Malformed token header",
		},
		{
			name:       "Expired token",
			header:     "Bearer abc",
			verifier:   &stubVerifier{err: models.ErrTokenExpired},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Token expired",
		},
		{
			name:       "Unexpected verifier failure",
			header:     "Bearer abc",
			verifier:   &stubVerifier{err: errors.New("boom")},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "Valid token",
			header:     "Bearer abc",
			verifier:   &stubVerifier{claims: &models.Claims{UserID: userID}},
			wantStatus: http.StatusOK,
			wantBody:   userID.String(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(AuthMiddleware(tt.verifier, zap.NewNop()))
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestInterServiceAuthMiddleware(t *testing.T) {
	t.Run("Missing header", func(t *testing.T) {
		router := newTestRouter(InterServiceAuthMiddleware(&stubVerifier{}, zap.NewNop()))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Invalid token", func(t *testing.T) {
		router := newTestRouter(InterServiceAuthMiddleware(&stubVerifier{err: models.ErrTokenInvalid}, zap.NewNop()))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(InterServiceTokenHeader, "abc")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Valid token", func(t *testing.T) {
		claims := &models.Claims{}
		claims.Subject = "auth-service"
		router := newTestRouter(InterServiceAuthMiddleware(&stubVerifier{claims: claims}, zap.NewNop()))
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set(InterServiceTokenHeader, "abc")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGinZapLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinZapLogger(zap.NewNop()))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "fixed-id", rec.Header().Get(RequestIDHeader))
}
