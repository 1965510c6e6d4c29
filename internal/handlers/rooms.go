package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoomHandler manages room-level endpoints. The chat context is swapped
// around login/logout, so it is resolved per request.
type RoomHandler struct {
	chat func() ChatAPI
}

// NewRoomHandler builds a RoomHandler.
func NewRoomHandler(chat func() ChatAPI) *RoomHandler {
	return &RoomHandler{chat: chat}
}

func (h *RoomHandler) api(c *gin.Context) (ChatAPI, bool) {
	api := h.chat()
	if api == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return nil, false
	}
	return api, true
}

// ListRooms returns the published room list plus pending invitations.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	type roomResponse struct {
		RoomID       string `json:"room_id"`
		Name         string `json:"name"`
		LastActiveTS int64  `json:"last_active_ts"`
		Membership   string `json:"membership"`
	}

	rooms := api.Rooms()
	responses := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, roomResponse{
			RoomID:       room.ID,
			Name:         room.Name,
			LastActiveTS: room.LastActiveTS,
			Membership:   string(room.MyMembership),
		})
	}

	invites := api.Invitations()
	inviteIDs := make([]string, 0, len(invites))
	for _, room := range invites {
		inviteIDs = append(inviteIDs, room.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"ready":       api.Ready(),
		"rooms":       responses,
		"invitations": inviteIDs,
	})
}

// RefreshRooms forces a reconciliation pass.
func (h *RoomHandler) RefreshRooms(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}
	if err := api.RefreshRooms(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateRoom creates a private group room.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomID, err := api.CreateRoom(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"room_id": roomID})
}

// StartDirect starts (or resumes) a direct message with a user.
func (h *RoomHandler) StartDirect(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomID, err := api.StartDirectMessage(c.Request.Context(), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID})
}

// JoinRoom joins a room by id or alias.
func (h *RoomHandler) JoinRoom(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}
	roomID, err := api.JoinRoom(c.Request.Context(), c.Param("room_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID})
}

// LeaveRoom leaves a room.
func (h *RoomHandler) LeaveRoom(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}
	if err := api.LeaveRoom(c.Request.Context(), c.Param("room_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AcceptInvitation accepts a pending room invitation.
func (h *RoomHandler) AcceptInvitation(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}
	if err := api.AcceptInvitation(c.Request.Context(), c.Param("room_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeclineInvitation declines a pending room invitation.
func (h *RoomHandler) DeclineInvitation(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}
	if err := api.DeclineInvitation(c.Request.Context(), c.Param("room_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteRoom deletes a room for everyone (creator only).
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}
	if err := api.DeleteRoom(c.Request.Context(), c.Param("room_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// InviteUser invites a user into a room.
func (h *RoomHandler) InviteUser(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := api.InviteUser(c.Request.Context(), c.Param("room_id"), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// KickUser removes a user from a room.
func (h *RoomHandler) KickUser(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := api.KickUser(c.Request.Context(), c.Param("room_id"), req.UserID, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchUsers queries the user directory.
func (h *RoomHandler) SearchUsers(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	term := c.Query("term")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing search term"})
		return
	}

	users, err := api.SearchUsers(c.Request.Context(), term)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
