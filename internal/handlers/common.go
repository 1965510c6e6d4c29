package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-client/internal/chat"
	"chat-client/internal/models"
	"chat-client/internal/roomservice"
)

// ChatAPI is the orchestration surface the room and message endpoints
// call. It is satisfied by *chat.Context.
type ChatAPI interface {
	Ready() bool
	Rooms() []models.Room
	Invitations() []models.Room
	RefreshRooms(ctx context.Context) error
	SelectRoom(ctx context.Context, roomID string) error
	Messages() []models.MessageProjection
	SendMessage(ctx context.Context, text string) error
	DeleteMessage(ctx context.Context, eventID string) error
	CreateRoom(ctx context.Context, name string) (string, error)
	JoinRoom(ctx context.Context, roomIDOrAlias string) (string, error)
	LeaveRoom(ctx context.Context, roomID string) error
	AcceptInvitation(ctx context.Context, roomID string) error
	DeclineInvitation(ctx context.Context, roomID string) error
	StartDirectMessage(ctx context.Context, userID string) (string, error)
	DeleteRoom(ctx context.Context, roomID string) error
	InviteUser(ctx context.Context, roomID, userID string) error
	KickUser(ctx context.Context, roomID, userID, reason string) error
	SearchUsers(ctx context.Context, term string) ([]roomservice.UserProfile, error)
	UploadFile(ctx context.Context, file roomservice.FileUpload) error
	FetchMedia(ctx context.Context, link string) ([]byte, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	ChangeDisplayName(ctx context.Context, name string) error
	ChangeAvatarURL(ctx context.Context, url string) error
}

// respondError maps a core error onto an HTTP response. Structured
// service errors keep their upstream status; everything else is a bad
// gateway.
func respondError(c *gin.Context, err error) {
	if errors.Is(err, chat.ErrNotPermitted) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not permitted"})
		return
	}
	var svcErr *roomservice.ServiceError
	if errors.As(err, &svcErr) && svcErr.StatusCode > 0 {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
