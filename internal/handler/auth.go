package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carpool/internal/domain"
	"carpool/internal/middleware"
	internalRedis "carpool/internal/redis"
	"carpool/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// GoogleLoginRequest is the HTTP request body for the Google login exchange.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// RegisterInfoRequest completes a signup that returned a temp token.
type RegisterInfoRequest struct {
	TempToken   string        `json:"temp_token" binding:"required"`
	PhoneNumber string        `json:"phone_number" binding:"required"`
	Gender      domain.Gender `json:"gender" binding:"required"`
}

// LoginResponse is the HTTP response for a successful login step.
type LoginResponse struct {
	Message   string `json:"message"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	TempToken string `json:"temp_token,omitempty"`
}

// EntryPage handles GET /login, the unauthenticated entry view.
func (h *AuthHandler) EntryPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "sign in with your institutional Google account",
	})
}

// GoogleLogin handles POST /v1/auth/google. A complete profile yields a
// session cookie; an incomplete one yields a temp token for register-info.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	sessionID, result, err := h.auth.Login(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := LoginResponse{
		Message: result.Message,
		Email:   result.Email,
		Name:    result.Name,
	}
	if sessionID == "" {
		resp.TempToken = result.TempToken
		c.JSON(http.StatusOK, resp)
		return
	}

	h.setSessionCookie(c, sessionID)
	c.JSON(http.StatusOK, resp)
}

// RegisterInfo handles PUT /v1/auth/register-info.
func (h *AuthHandler) RegisterInfo(c *gin.Context) {
	var req RegisterInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	sessionID, result, err := h.auth.CompleteProfile(c.Request.Context(), req.TempToken, req.PhoneNumber, req.Gender)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, sessionID)
	c.JSON(http.StatusOK, LoginResponse{
		Message: result.Message,
		Email:   result.Email,
		Name:    result.Name,
	})
}

// Logout handles POST /v1/auth/logout. Local session state is cleared even
// when the remote blacklist call fails, then the caller is sent back to the
// entry view.
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString(middleware.CtxSessionID)

	if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	sessionID := c.GetString(middleware.CtxSessionID)

	profile, err := h.auth.CurrentUser(c.Request.Context(), sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetCookie(middleware.SessionCookie, sessionID, int(internalRedis.SessionTTL.Seconds()), "/", "", false, true)
}
