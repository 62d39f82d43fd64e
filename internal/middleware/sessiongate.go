package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/session"
)

// SessionCookie names the cookie carrying the caller's session ID.
const SessionCookie = "carpool_session"

// Context keys set by the gate for downstream handlers.
const (
	CtxSessionID   = "sessionID"
	CtxAccessToken = "accessToken"
)

// SessionGate enforces the session state machine once per request: protected
// views redirect unauthenticated callers to the sign-in entry point, entry
// views redirect authenticated callers to the landing view. On pass-through
// it exposes the session ID and access token to the handler.
func SessionGate(gate *session.Gate, view session.View) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(SessionCookie)
		decision := gate.Check(c.Request.Context(), sessionID, view)
		if decision.Redirect != "" {
			c.Redirect(http.StatusSeeOther, decision.Redirect)
			c.Abort()
			return
		}

		c.Set(CtxSessionID, sessionID)
		c.Set(CtxAccessToken, decision.Token)
		c.Next()
	}
}
