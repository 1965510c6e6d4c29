package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Sessions is the session-lifecycle surface the auth endpoints need.
type Sessions interface {
	Login(ctx context.Context, username, password string) error
	Register(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	LoggedIn() bool
	UserID() string
}

// AuthHandler manages the login/register/logout endpoints.
type AuthHandler struct {
	sessions Sessions
	onLogin  func()
	onLogout func()
}

// NewAuthHandler builds an AuthHandler. onLogin and onLogout swap the
// chat context in and out around the session lifecycle.
func NewAuthHandler(sessions Sessions, onLogin, onLogout func()) *AuthHandler {
	return &AuthHandler{sessions: sessions, onLogin: onLogin, onLogout: onLogout}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account without logging in.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// Login authenticates and activates the chat context.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.Login(c.Request.Context(), req.Username, req.Password); err != nil {
		respondError(c, err)
		return
	}
	if h.onLogin != nil {
		h.onLogin()
	}
	c.JSON(http.StatusOK, gin.H{"user_id": h.sessions.UserID()})
}

// Logout tears the session down. Local state is cleared on every path;
// a remote failure is still reported.
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.onLogout != nil {
		h.onLogout()
	}
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// WhoAmI reports the session state.
func (h *AuthHandler) WhoAmI(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"logged_in": h.sessions.LoggedIn(),
		"user_id":   h.sessions.UserID(),
	})
}
