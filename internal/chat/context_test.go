package chat

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-client/internal/feed"
	"chat-client/internal/mocks"
	"chat-client/internal/models"
	"chat-client/internal/roomservice"
)

const me = "@me:server"
const other = "@bob:server"

func emptyIndex(t *testing.T) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(models.DirectIndex{})
	require.NoError(t, err)
	return data
}

// newTestContext builds a Context over a service mock, capturing the feed
// listener the context registers.
func newTestContext(t *testing.T, svc *mocks.ServiceMock) (*Context, *feed.Listener) {
	t.Helper()
	var listener *feed.Listener
	svc.On("Subscribe", mock.Anything).Run(func(args mock.Arguments) {
		listener = args.Get(0).(*feed.Listener)
	}).Return(func() {}).Once()

	c := NewContext(roomservice.NewAdapter(svc, me))
	t.Cleanup(c.Close)
	require.NotNil(t, listener)
	return c, listener
}

func selectTestRoom(t *testing.T, c *Context, svc *mocks.ServiceMock, room *models.Room) {
	t.Helper()
	svc.On("GetRoom", mock.Anything, room.ID).Return(room, nil).Once()
	svc.On("GetAccountData", mock.Anything, models.DirectIndexKey).Return(emptyIndex(t), nil).Once()
	require.NoError(t, c.SelectRoom(context.Background(), room.ID))
}

func groupRoom(id string) *models.Room {
	return &models.Room{
		ID:           id,
		Name:         "group",
		CreatorID:    other,
		MyMembership: models.MembershipJoin,
		Members: []models.Member{
			{UserID: me, Membership: models.MembershipJoin},
			{UserID: other, Membership: models.MembershipJoin},
			{UserID: "@carol:server", Membership: models.MembershipJoin},
		},
	}
}

func TestSendMessageWithoutSelectionIsNoop(t *testing.T) {
	svc := new(mocks.ServiceMock)
	c, _ := newTestContext(t, svc)

	require.NoError(t, c.SendMessage(context.Background(), "hello"))
	svc.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSendMessageTrimGuard(t *testing.T) {
	svc := new(mocks.ServiceMock)
	c, _ := newTestContext(t, svc)
	selectTestRoom(t, c, svc, groupRoom("!g"))

	require.NoError(t, c.SendMessage(context.Background(), "   \n\t"))
	svc.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	svc.On("SendMessage", mock.Anything, "!g", "hello", mock.Anything).Return(nil).Once()
	require.NoError(t, c.SendMessage(context.Background(), "hello"))
	svc.AssertExpectations(t)
}

func TestSentMessageCommitsOnlyViaFeedEcho(t *testing.T) {
	svc := new(mocks.ServiceMock)
	c, listener := newTestContext(t, svc)
	selectTestRoom(t, c, svc, groupRoom("!g"))

	svc.On("SendMessage", mock.Anything, "!g", "hello", mock.Anything).Return(nil).Once()
	require.NoError(t, c.SendMessage(context.Background(), "hello"))

	// Nothing appears until the service echoes the event back.
	assert.Empty(t, c.Messages())

	listener.OnTimeline(models.TimelineEvent{RoomID: "!g", Event: models.Event{
		ID: "$1", RoomID: "!g", Type: models.EventMessage, SenderID: me,
		Content: models.Content{MsgType: models.MsgText, Body: "hello"},
	}})
	require.Len(t, c.Messages(), 1)
}

func TestDeleteOwnMessageAllowed(t *testing.T) {
	svc := new(mocks.ServiceMock)
	c, listener := newTestContext(t, svc)
	selectTestRoom(t, c, svc, groupRoom("!g"))

	listener.OnTimeline(models.TimelineEvent{RoomID: "!g", Event: models.Event{
		ID: "$mine", RoomID: "!g", Type: models.EventMessage, SenderID: me,
		Content: models.Content{MsgType: models.MsgText, Body: "oops"},
	}})

	svc.On("RedactEvent", mock.Anything, "!g", "$mine").Return(nil).Once()
	require.NoError(t, c.DeleteMessage(context.Background(), "$mine"))
	svc.AssertExpectations(t)
}

func TestDeleteForeignMessageWithoutPowerDenied(t *testing.T) {
	svc := new(mocks.ServiceMock)
	c, listener := newTestContext(t, svc)
	selectTestRoom(t, c, svc, groupRoom("!g"))

	listener.OnTimeline(models.TimelineEvent{RoomID: "!g", Event: models.Event{
		ID: "$theirs", RoomID: "!g", Type: models.EventMessage, SenderID: other,
		Content: models.Content{MsgType: models.MsgText, Body: "hi"},
	}})

	err := c.DeleteMessage(context.Background(), "$theirs")
	assert.ErrorIs(t, err, ErrNotPermitted)
	svc.AssertNotCalled(t, "RedactEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteRoomRequiresCreator(t *testing.T) {
	svc := new(mocks.ServiceMock)
	c, _ := newTestContext(t, svc)

	// Populate the room list so the creator check has cached state.
	svc.On("ListRooms", mock.Anything).Return([]models.Room{*groupRoom("!g")}, nil).Once()
	svc.On("GetAccountData", mock.Anything, models.DirectIndexKey).Return(emptyIndex(t), nil).Once()
	require.NoError(t, c.RefreshRooms(context.Background()))

	err := c.DeleteRoom(context.Background(), "!g")
	assert.ErrorIs(t, err, ErrNotPermitted)
	svc.AssertNotCalled(t, "LeaveRoom", mock.Anything, mock.Anything)
}

func TestKickWithoutPowerDenied(t *testing.T) {
	svc := new(mocks.ServiceMock)
	c, _ := newTestContext(t, svc)

	room := groupRoom("!g")
	room.PowerLevels = models.PowerLevels{Kick: 50}
	svc.On("ListRooms", mock.Anything).Return([]models.Room{*room}, nil).Once()
	svc.On("GetAccountData", mock.Anything, models.DirectIndexKey).Return(emptyIndex(t), nil).Once()
	require.NoError(t, c.RefreshRooms(context.Background()))

	err := c.KickUser(context.Background(), "!g", other, "spam")
	assert.ErrorIs(t, err, ErrNotPermitted)
	svc.AssertNotCalled(t, "KickUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncReadySignalLoadsRoomList(t *testing.T) {
	svc := new(mocks.ServiceMock)
	c, listener := newTestContext(t, svc)

	require.False(t, c.Ready())

	svc.On("ListRooms", mock.Anything).Return([]models.Room{*groupRoom("!g")}, nil).Once()
	svc.On("GetAccountData", mock.Anything, models.DirectIndexKey).Return(emptyIndex(t), nil).Once()
	listener.OnSyncReady()

	assert.True(t, c.Ready())
	require.Len(t, c.Rooms(), 1)
	assert.Equal(t, "!g", c.Rooms()[0].ID)
}

func TestUploadWithoutSelectionIsNoop(t *testing.T) {
	svc := new(mocks.ServiceMock)
	c, _ := newTestContext(t, svc)

	require.NoError(t, c.UploadFile(context.Background(), roomservice.FileUpload{Name: "a.txt"}))
	svc.AssertNotCalled(t, "UploadFile", mock.Anything, mock.Anything, mock.Anything)
}
