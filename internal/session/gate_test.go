package session

import (
	"context"
	"errors"
	"testing"
)

// stubStore returns a fixed token or error for any session ID.
type stubStore struct {
	token string
	err   error
}

func (s *stubStore) AccessToken(ctx context.Context, sessionID string) (string, error) {
	return s.token, s.err
}

func newTestGate(store TokenReader) *Gate {
	return NewGate(store, "/login", "/pools")
}

func TestCheck_NoTokenOnProtectedView(t *testing.T) {
	gate := newTestGate(&stubStore{})

	d := gate.Check(context.Background(), "sid-1", ViewProtected)

	if d.State != StateUnauthenticated {
		t.Errorf("expected unauthenticated, got %v", d.State)
	}
	if d.Redirect != "/login" {
		t.Errorf("expected redirect to /login, got %q", d.Redirect)
	}
}

func TestCheck_TokenOnEntryView(t *testing.T) {
	gate := newTestGate(&stubStore{token: "tok-abc"})

	d := gate.Check(context.Background(), "sid-1", ViewEntry)

	if d.State != StateAuthenticated {
		t.Errorf("expected authenticated, got %v", d.State)
	}
	if d.Redirect != "/pools" {
		t.Errorf("expected redirect to /pools, got %q", d.Redirect)
	}
}

func TestCheck_TokenOnProtectedView(t *testing.T) {
	gate := newTestGate(&stubStore{token: "tok-abc"})

	d := gate.Check(context.Background(), "sid-1", ViewProtected)

	if d.State != StateAuthenticated || d.Redirect != "" {
		t.Errorf("expected pass-through, got %+v", d)
	}
	if d.Token != "tok-abc" {
		t.Errorf("expected token exposed to the handler, got %q", d.Token)
	}
}

func TestCheck_NoTokenOnEntryView(t *testing.T) {
	gate := newTestGate(&stubStore{})

	d := gate.Check(context.Background(), "sid-1", ViewEntry)

	if d.State != StateUnauthenticated || d.Redirect != "" {
		t.Errorf("entry view must render for unauthenticated callers, got %+v", d)
	}
}

func TestCheck_EmptySessionID(t *testing.T) {
	// The store must not even be consulted without a session ID.
	gate := newTestGate(&stubStore{token: "tok-abc"})

	d := gate.Check(context.Background(), "", ViewProtected)

	if d.State != StateUnauthenticated || d.Redirect != "/login" {
		t.Errorf("expected unauthenticated redirect, got %+v", d)
	}
}

func TestCheck_StoreFailureFailsClosed(t *testing.T) {
	gate := newTestGate(&stubStore{err: errors.New("redis down")})

	d := gate.Check(context.Background(), "sid-1", ViewProtected)

	if d.State != StateUnauthenticated || d.Redirect != "/login" {
		t.Errorf("store failure must not grant access, got %+v", d)
	}
}

func TestStateString(t *testing.T) {
	if StateUnknown.String() != "unknown" ||
		StateAuthenticated.String() != "authenticated" ||
		StateUnauthenticated.String() != "unauthenticated" {
		t.Error("unexpected state names")
	}
}
