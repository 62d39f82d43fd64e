package redis

import (
	"context"

	"carpool/internal/domain"
)

// SessionStoreInterface defines the interface for session state operations.
type SessionStoreInterface interface {
	SaveTokens(ctx context.Context, sessionID, access, refresh string) error
	AccessToken(ctx context.Context, sessionID string) (string, error)
	RefreshToken(ctx context.Context, sessionID string) (string, error)
	SaveProfile(ctx context.Context, sessionID string, profile *domain.UserProfile) error
	Profile(ctx context.Context, sessionID string) (*domain.UserProfile, error)
	Clear(ctx context.Context, sessionID string) error
}

// Ensure concrete types implement interfaces.
var _ SessionStoreInterface = (*SessionStore)(nil)
