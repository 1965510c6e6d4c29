package roomservice

import (
	"context"
	"encoding/json"
	"io"

	"chat-client/internal/feed"
	"chat-client/internal/models"
)

// Credentials identify an authenticated session.
type Credentials struct {
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// UserProfile is a directory search result.
type UserProfile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// CreateRoomOptions controls room creation.
type CreateRoomOptions struct {
	Direct bool     `json:"direct"`
	Invite []string `json:"invite,omitempty"`
}

// FileUpload carries a file to attach to a room as a message event.
type FileUpload struct {
	Name        string
	Size        int64
	ContentType string
	Data        io.Reader
}

// Service is the room-service boundary. The protocol behind it is
// external; the core only depends on this surface and the push feed.
type Service interface {
	Login(ctx context.Context, username, password string) (Credentials, error)
	Register(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error

	ListRooms(ctx context.Context) ([]models.Room, error)
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	CreateRoom(ctx context.Context, name string, opts CreateRoomOptions) (string, error)
	JoinRoom(ctx context.Context, roomIDOrAlias string) (string, error)
	LeaveRoom(ctx context.Context, roomID string) error
	ForgetRoom(ctx context.Context, roomID string) error
	InviteUser(ctx context.Context, roomID, userID string) error
	KickUser(ctx context.Context, roomID, userID, reason string) error

	SendMessage(ctx context.Context, roomID, body, txnID string) error
	RedactEvent(ctx context.Context, roomID, eventID string) error
	UploadFile(ctx context.Context, roomID string, file FileUpload) error
	FetchMedia(ctx context.Context, link string) ([]byte, error)

	SearchUsers(ctx context.Context, term string) ([]UserProfile, error)

	GetAccountData(ctx context.Context, key string) (json.RawMessage, error)
	SetAccountData(ctx context.Context, key string, value any) error

	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	ChangeDisplayName(ctx context.Context, name string) error
	ChangeAvatarURL(ctx context.Context, url string) error

	// Subscribe registers a feed listener and returns its cancel func.
	Subscribe(l *feed.Listener) func()
	// WaitReady blocks until the initial sync completes or ctx is done.
	WaitReady(ctx context.Context) error
	// StartSync opens the push-feed connection and begins dispatching.
	StartSync(ctx context.Context) error
	// Close tears down the push-feed connection.
	Close() error
}
