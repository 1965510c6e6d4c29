package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AccountHandler manages profile and password endpoints.
type AccountHandler struct {
	chat func() ChatAPI
}

// NewAccountHandler builds an AccountHandler.
func NewAccountHandler(chat func() ChatAPI) *AccountHandler {
	return &AccountHandler{chat: chat}
}

func (h *AccountHandler) api(c *gin.Context) (ChatAPI, bool) {
	api := h.chat()
	if api == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return nil, false
	}
	return api, true
}

// ChangePassword updates the account password.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	var req struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := api.ChangePassword(c.Request.Context(), req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeDisplayName updates the profile display name.
func (h *AccountHandler) ChangeDisplayName(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	var req struct {
		DisplayName string `json:"display_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := api.ChangeDisplayName(c.Request.Context(), req.DisplayName); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeAvatar updates the profile avatar link.
func (h *AccountHandler) ChangeAvatar(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	var req struct {
		AvatarURL string `json:"avatar_url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := api.ChangeAvatarURL(c.Request.Context(), req.AvatarURL); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
