package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-client/internal/roomservice"
)

// MessageHandler manages the per-room message endpoints.
type MessageHandler struct {
	chat func() ChatAPI
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(chat func() ChatAPI) *MessageHandler {
	return &MessageHandler{chat: chat}
}

func (h *MessageHandler) api(c *gin.Context) (ChatAPI, bool) {
	api := h.chat()
	if api == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return nil, false
	}
	return api, true
}

// ListMessages selects the room and returns its rendered timeline.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	if err := api.SelectRoom(c.Request.Context(), c.Param("room_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": api.Messages()})
}

// SendMessage posts a text message to the room. Whitespace-only bodies
// are accepted and silently dropped, matching the core's trim guard.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := api.SelectRoom(c.Request.Context(), c.Param("room_id")); err != nil {
		respondError(c, err)
		return
	}
	if err := api.SendMessage(c.Request.Context(), req.Body); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// DeleteMessage redacts a message in the room.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	if err := api.SelectRoom(c.Request.Context(), c.Param("room_id")); err != nil {
		respondError(c, err)
		return
	}
	if err := api.DeleteMessage(c.Request.Context(), c.Param("event_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// FetchMedia resolves a message's media link and streams the blob back.
func (h *MessageHandler) FetchMedia(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	link := c.Query("link")
	if link == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing media link"})
		return
	}

	data, err := api.FetchMedia(c.Request.Context(), link)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// UploadFile attaches a multipart file to the room as a message event.
func (h *MessageHandler) UploadFile(c *gin.Context) {
	api, ok := h.api(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
		return
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	if err := api.SelectRoom(c.Request.Context(), c.Param("room_id")); err != nil {
		respondError(c, err)
		return
	}
	upload := roomservice.FileUpload{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Data:        f,
	}
	if err := api.UploadFile(c.Request.Context(), upload); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}
