package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"carpool/internal/domain"
	"carpool/internal/redis"
	"carpool/internal/remote"
)

// AuthAPI is the subset of the remote collaborator the auth service uses.
type AuthAPI interface {
	GoogleLogin(ctx context.Context, idToken string) (*remote.LoginResult, error)
	CompleteProfile(ctx context.Context, tempToken, phoneNumber string, gender domain.Gender) (*remote.LoginResult, error)
	FetchCurrentUser(ctx context.Context, token string) (*domain.UserProfile, error)
	Logout(ctx context.Context, token, refreshToken string) error
}

// AuthService owns the login and logout transitions around the session store.
// The store is the single source of truth for authentication state.
type AuthService struct {
	api   AuthAPI
	store redis.SessionStoreInterface
	// allowedEmailDomain restricts sign-in to one institutional domain when
	// non-empty. The remote enforces this too; checking here keeps foreign
	// accounts from ever reaching the session store.
	allowedEmailDomain string
}

// NewAuthService creates a new AuthService.
func NewAuthService(api AuthAPI, store redis.SessionStoreInterface, allowedEmailDomain string) *AuthService {
	return &AuthService{api: api, store: store, allowedEmailDomain: allowedEmailDomain}
}

// Login exchanges a Google ID token for a session. When the remote account
// still misses profile fields, no session is created and the returned result
// carries the temp token for the register-info step.
func (s *AuthService) Login(ctx context.Context, idToken string) (string, *remote.LoginResult, error) {
	result, err := s.api.GoogleLogin(ctx, idToken)
	if err != nil {
		return "", nil, err
	}
	if s.allowedEmailDomain != "" &&
		!strings.HasSuffix(strings.ToLower(result.Email), "@"+strings.ToLower(s.allowedEmailDomain)) {
		return "", nil, ErrEmailDomainNotAllowed
	}
	if !result.ProfileComplete() {
		return "", result, nil
	}
	sessionID, err := s.openSession(ctx, result)
	if err != nil {
		return "", nil, err
	}
	return sessionID, result, nil
}

// CompleteProfile finishes a signup whose login returned a temp token, then
// opens the session with the full tokens the remote issues.
func (s *AuthService) CompleteProfile(ctx context.Context, tempToken, phoneNumber string, gender domain.Gender) (string, *remote.LoginResult, error) {
	if !domain.ValidGender(gender) {
		return "", nil, ErrInvalidGender
	}
	result, err := s.api.CompleteProfile(ctx, tempToken, phoneNumber, gender)
	if err != nil {
		return "", nil, err
	}
	sessionID, err := s.openSession(ctx, result)
	if err != nil {
		return "", nil, err
	}
	return sessionID, result, nil
}

// Logout presents the refresh token to the remote blacklist endpoint and
// clears local session state. A remote failure is logged, not propagated:
// the local session is gone either way, so the user never looks stuck
// logged in after a network blip.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	access, _ := s.store.AccessToken(ctx, sessionID)
	refresh, _ := s.store.RefreshToken(ctx, sessionID)

	if access != "" {
		if err := s.api.Logout(ctx, access, refresh); err != nil {
			log.Printf("remote logout failed, clearing local session anyway: %v", err)
		}
	}
	return s.store.Clear(ctx, sessionID)
}

// CurrentUser returns the caller's profile, from the cached snapshot when
// present, otherwise from the remote API.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*domain.UserProfile, error) {
	if profile, err := s.store.Profile(ctx, sessionID); err == nil && profile != nil {
		return profile, nil
	}

	token, err := s.store.AccessToken(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNoSession
	}

	profile, err := s.api.FetchCurrentUser(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveProfile(ctx, sessionID, profile); err != nil {
		log.Printf("failed to cache user profile: %v", err)
	}
	return profile, nil
}

// AccessToken returns the stored access token for a session.
func (s *AuthService) AccessToken(ctx context.Context, sessionID string) (string, error) {
	return s.store.AccessToken(ctx, sessionID)
}

// openSession stores the issued tokens under a fresh session ID and caches
// the profile snapshot when the remote can serve it.
func (s *AuthService) openSession(ctx context.Context, result *remote.LoginResult) (string, error) {
	sessionID := uuid.NewString()
	if err := s.store.SaveTokens(ctx, sessionID, result.Access, result.Refresh); err != nil {
		return "", err
	}

	profile, err := s.api.FetchCurrentUser(ctx, result.Access)
	if err != nil {
		// The snapshot is an optimization; login still succeeds without it.
		log.Printf("failed to fetch user profile after login: %v", err)
		return sessionID, nil
	}
	if err := s.store.SaveProfile(ctx, sessionID, profile); err != nil {
		log.Printf("failed to cache user profile: %v", err)
	}
	return sessionID, nil
}
