package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"chat-client/internal/feed"
	"chat-client/internal/models"
	"chat-client/internal/roomservice"
)

// ServiceMock stands in for the remote room service in tests.
type ServiceMock struct {
	mock.Mock
}

var _ roomservice.Service = (*ServiceMock)(nil)

func (m *ServiceMock) Login(ctx context.Context, username, password string) (roomservice.Credentials, error) {
	args := m.Called(ctx, username, password)
	var creds roomservice.Credentials
	if val := args.Get(0); val != nil {
		creds = val.(roomservice.Credentials)
	}
	return creds, args.Error(1)
}

func (m *ServiceMock) Register(ctx context.Context, username, password string) error {
	args := m.Called(ctx, username, password)
	return args.Error(0)
}

func (m *ServiceMock) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ServiceMock) ListRooms(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	var rooms []models.Room
	if val := args.Get(0); val != nil {
		rooms = val.([]models.Room)
	}
	return rooms, args.Error(1)
}

func (m *ServiceMock) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	args := m.Called(ctx, roomID)
	var room *models.Room
	if val := args.Get(0); val != nil {
		room = val.(*models.Room)
	}
	return room, args.Error(1)
}

func (m *ServiceMock) CreateRoom(ctx context.Context, name string, opts roomservice.CreateRoomOptions) (string, error) {
	args := m.Called(ctx, name, opts)
	return args.String(0), args.Error(1)
}

func (m *ServiceMock) JoinRoom(ctx context.Context, roomIDOrAlias string) (string, error) {
	args := m.Called(ctx, roomIDOrAlias)
	return args.String(0), args.Error(1)
}

func (m *ServiceMock) LeaveRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *ServiceMock) ForgetRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *ServiceMock) InviteUser(ctx context.Context, roomID, userID string) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *ServiceMock) KickUser(ctx context.Context, roomID, userID, reason string) error {
	args := m.Called(ctx, roomID, userID, reason)
	return args.Error(0)
}

func (m *ServiceMock) SendMessage(ctx context.Context, roomID, body, txnID string) error {
	args := m.Called(ctx, roomID, body, txnID)
	return args.Error(0)
}

func (m *ServiceMock) RedactEvent(ctx context.Context, roomID, eventID string) error {
	args := m.Called(ctx, roomID, eventID)
	return args.Error(0)
}

func (m *ServiceMock) UploadFile(ctx context.Context, roomID string, file roomservice.FileUpload) error {
	args := m.Called(ctx, roomID, file)
	return args.Error(0)
}

func (m *ServiceMock) FetchMedia(ctx context.Context, link string) ([]byte, error) {
	args := m.Called(ctx, link)
	var data []byte
	if val := args.Get(0); val != nil {
		data = val.([]byte)
	}
	return data, args.Error(1)
}

func (m *ServiceMock) SearchUsers(ctx context.Context, term string) ([]roomservice.UserProfile, error) {
	args := m.Called(ctx, term)
	var users []roomservice.UserProfile
	if val := args.Get(0); val != nil {
		users = val.([]roomservice.UserProfile)
	}
	return users, args.Error(1)
}

func (m *ServiceMock) GetAccountData(ctx context.Context, key string) (json.RawMessage, error) {
	args := m.Called(ctx, key)
	var raw json.RawMessage
	if val := args.Get(0); val != nil {
		raw = val.(json.RawMessage)
	}
	return raw, args.Error(1)
}

func (m *ServiceMock) SetAccountData(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *ServiceMock) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	args := m.Called(ctx, oldPassword, newPassword)
	return args.Error(0)
}

func (m *ServiceMock) ChangeDisplayName(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *ServiceMock) ChangeAvatarURL(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *ServiceMock) Subscribe(l *feed.Listener) func() {
	args := m.Called(l)
	if val := args.Get(0); val != nil {
		return val.(func())
	}
	return func() {}
}

func (m *ServiceMock) WaitReady(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ServiceMock) StartSync(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *ServiceMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

// RoomClientMock covers the narrow client surface the reconciler and the
// timeline engine depend on.
type RoomClientMock struct {
	mock.Mock
}

func (m *RoomClientMock) Me() string {
	args := m.Called()
	return args.String(0)
}

func (m *RoomClientMock) ListRooms(ctx context.Context) ([]models.Room, error) {
	args := m.Called(ctx)
	var rooms []models.Room
	if val := args.Get(0); val != nil {
		rooms = val.([]models.Room)
	}
	return rooms, args.Error(1)
}

func (m *RoomClientMock) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	args := m.Called(ctx, roomID)
	var room *models.Room
	if val := args.Get(0); val != nil {
		room = val.(*models.Room)
	}
	return room, args.Error(1)
}

func (m *RoomClientMock) LeaveRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *RoomClientMock) DirectIndex(ctx context.Context) (models.DirectIndex, error) {
	args := m.Called(ctx)
	var index models.DirectIndex
	if val := args.Get(0); val != nil {
		index = val.(models.DirectIndex)
	}
	return index, args.Error(1)
}
