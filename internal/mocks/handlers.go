package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chat-client/internal/models"
	"chat-client/internal/roomservice"
)

// ChatAPIMock stands in for the chat context in handler tests.
type ChatAPIMock struct {
	mock.Mock
}

func (m *ChatAPIMock) Ready() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *ChatAPIMock) Rooms() []models.Room {
	args := m.Called()
	var rooms []models.Room
	if val := args.Get(0); val != nil {
		rooms = val.([]models.Room)
	}
	return rooms
}

func (m *ChatAPIMock) Invitations() []models.Room {
	args := m.Called()
	var rooms []models.Room
	if val := args.Get(0); val != nil {
		rooms = val.([]models.Room)
	}
	return rooms
}

func (m *ChatAPIMock) RefreshRooms(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ChatAPIMock) SelectRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *ChatAPIMock) Messages() []models.MessageProjection {
	args := m.Called()
	var msgs []models.MessageProjection
	if val := args.Get(0); val != nil {
		msgs = val.([]models.MessageProjection)
	}
	return msgs
}

func (m *ChatAPIMock) SendMessage(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

func (m *ChatAPIMock) DeleteMessage(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}

func (m *ChatAPIMock) CreateRoom(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

func (m *ChatAPIMock) JoinRoom(ctx context.Context, roomIDOrAlias string) (string, error) {
	args := m.Called(ctx, roomIDOrAlias)
	return args.String(0), args.Error(1)
}

func (m *ChatAPIMock) LeaveRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *ChatAPIMock) AcceptInvitation(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *ChatAPIMock) DeclineInvitation(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *ChatAPIMock) StartDirectMessage(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *ChatAPIMock) DeleteRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *ChatAPIMock) InviteUser(ctx context.Context, roomID, userID string) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *ChatAPIMock) KickUser(ctx context.Context, roomID, userID, reason string) error {
	args := m.Called(ctx, roomID, userID, reason)
	return args.Error(0)
}

func (m *ChatAPIMock) SearchUsers(ctx context.Context, term string) ([]roomservice.UserProfile, error) {
	args := m.Called(ctx, term)
	var users []roomservice.UserProfile
	if val := args.Get(0); val != nil {
		users = val.([]roomservice.UserProfile)
	}
	return users, args.Error(1)
}

func (m *ChatAPIMock) UploadFile(ctx context.Context, file roomservice.FileUpload) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *ChatAPIMock) FetchMedia(ctx context.Context, link string) ([]byte, error) {
	args := m.Called(ctx, link)
	var data []byte
	if val := args.Get(0); val != nil {
		data = val.([]byte)
	}
	return data, args.Error(1)
}

func (m *ChatAPIMock) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	args := m.Called(ctx, oldPassword, newPassword)
	return args.Error(0)
}

func (m *ChatAPIMock) ChangeDisplayName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *ChatAPIMock) ChangeAvatarURL(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// SessionsMock stands in for the session manager in auth handler tests.
type SessionsMock struct {
	mock.Mock
}

func (m *SessionsMock) Login(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *SessionsMock) Register(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *SessionsMock) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *SessionsMock) LoggedIn() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *SessionsMock) UserID() string {
	args := m.Called()
	return args.String(0)
}
