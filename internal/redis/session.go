package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"carpool/internal/domain"
)

// SessionStore persists session credentials and the cached user-profile
// snapshot. Keys mirror the fixed storage names the web client used, scoped
// per session ID.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SessionTTL caps how long a session may live without a fresh login.
const SessionTTL = 30 * 24 * time.Hour

const (
	sessionPrefix = "session:"
	accessField   = "access"
	refreshField  = "refresh"
	profileField  = "user_profile"
)

func sessionKey(sessionID, field string) string {
	return sessionPrefix + sessionID + ":" + field
}

// SaveTokens stores the access and refresh tokens issued on login.
func (s *SessionStore) SaveTokens(ctx context.Context, sessionID, access, refresh string) error {
	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(sessionID, accessField), access, SessionTTL)
	pipe.Set(ctx, sessionKey(sessionID, refreshField), refresh, SessionTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// AccessToken returns the stored access token, or "" when none exists.
func (s *SessionStore) AccessToken(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, sessionKey(sessionID, accessField)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

// RefreshToken returns the stored refresh token, or "" when none exists.
func (s *SessionStore) RefreshToken(ctx context.Context, sessionID string) (string, error) {
	token, err := s.client.Get(ctx, sessionKey(sessionID, refreshField)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return token, err
}

// SaveProfile caches the user-profile snapshot next to the tokens.
func (s *SessionStore) SaveProfile(ctx context.Context, sessionID string, profile *domain.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(sessionID, profileField), data, SessionTTL).Err()
}

// Profile returns the cached profile snapshot, or nil on cache miss.
func (s *SessionStore) Profile(ctx context.Context, sessionID string) (*domain.UserProfile, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID, profileField)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Clear removes the tokens and the cached profile. Logout calls this
// unconditionally, whatever the remote logout endpoint answered.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx,
		sessionKey(sessionID, accessField),
		sessionKey(sessionID, refreshField),
		sessionKey(sessionID, profileField),
	).Err()
}
