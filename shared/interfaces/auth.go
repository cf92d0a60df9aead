package interfaces

import (
	"context"

	"storyverse-server/shared/models"
)

// TokenVerifier defines the interface for verifying JWT tokens.
type TokenVerifier interface {
	// VerifyToken verifies a standard user JWT token and returns its claims.
	VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error)
	// VerifyInterServiceToken verifies an inter-service JWT token.
	// It checks signature, expiry and subject, but NOT UserID.
	VerifyInterServiceToken(ctx context.Context, tokenString string) (*models.Claims, error)
}
