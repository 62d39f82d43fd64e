// Package session decides, per page load, whether a caller may see a view.
// Authentication state is always re-derived from the token store, never from
// cached booleans that can go stale across navigations.
package session

import "context"

// State is the gate's authentication state for one page load.
type State int

const (
	// StateUnknown is the initial state before the store has been checked.
	StateUnknown State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// View classifies a route for gating purposes.
type View int

const (
	// ViewProtected requires an authenticated session.
	ViewProtected View = iota
	// ViewEntry is a sign-in/sign-up view; authenticated callers are sent away.
	ViewEntry
)

// TokenReader is the slice of the session store the gate needs.
type TokenReader interface {
	AccessToken(ctx context.Context, sessionID string) (string, error)
}

// Decision is the outcome of a gate check. Redirect is empty when the view
// may render; otherwise it names the path the caller must be sent to.
type Decision struct {
	State    State
	Redirect string
	// Token is the access token when the caller is authenticated, so the
	// handler can present it to the remote API without a second store read.
	Token string
}

// Gate evaluates the session state machine.
type Gate struct {
	store     TokenReader
	entryPath string
	homePath  string
}

// NewGate returns a gate redirecting unauthenticated callers to entryPath and
// authenticated callers on entry views to homePath.
func NewGate(store TokenReader, entryPath, homePath string) *Gate {
	return &Gate{store: store, entryPath: entryPath, homePath: homePath}
}

// Check reads the stored token exactly once and transitions out of
// StateUnknown. A missing, empty, or unreadable token means unauthenticated;
// store failures fail closed rather than granting access.
func (g *Gate) Check(ctx context.Context, sessionID string, view View) Decision {
	token := ""
	if sessionID != "" {
		if t, err := g.store.AccessToken(ctx, sessionID); err == nil {
			token = t
		}
	}

	if token == "" {
		d := Decision{State: StateUnauthenticated}
		if view == ViewProtected {
			d.Redirect = g.entryPath
		}
		return d
	}

	d := Decision{State: StateAuthenticated, Token: token}
	if view == ViewEntry {
		d.Redirect = g.homePath
	}
	return d
}
