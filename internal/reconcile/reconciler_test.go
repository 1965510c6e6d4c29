package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-client/internal/mocks"
	"chat-client/internal/models"
)

const me = "@me:server"

func joinedRoom(id string, ts int64) models.Room {
	return models.Room{
		ID:           id,
		LastActiveTS: ts,
		MyMembership: models.MembershipJoin,
		Members: []models.Member{
			{UserID: me, Membership: models.MembershipJoin},
			{UserID: "@bob:server", Membership: models.MembershipJoin},
		},
	}
}

func orphanedDM(id string, counterpart string) models.Room {
	return models.Room{
		ID:           id,
		MyMembership: models.MembershipJoin,
		Members: []models.Member{
			{UserID: me, Membership: models.MembershipJoin},
			{UserID: counterpart, Membership: models.MembershipLeave},
		},
	}
}

func TestRunSortsByLastActiveDescending(t *testing.T) {
	client := new(mocks.RoomClientMock)
	client.On("Me").Return(me)
	client.On("ListRooms", mock.Anything).Return([]models.Room{
		joinedRoom("!old", 10),
		joinedRoom("!new", 30),
		joinedRoom("!mid", 20),
	}, nil).Once()
	client.On("DirectIndex", mock.Anything).Return(models.DirectIndex{}, nil).Once()

	r := New(client)
	require.NoError(t, r.Run(context.Background()))

	rooms := r.Rooms()
	require.Len(t, rooms, 3)
	assert.Equal(t, "!new", rooms[0].ID)
	assert.Equal(t, "!mid", rooms[1].ID)
	assert.Equal(t, "!old", rooms[2].ID)
	client.AssertExpectations(t)
}

func TestRunFiltersLeftAndBannedRooms(t *testing.T) {
	leftRoom := joinedRoom("!left", 50)
	leftRoom.MyMembership = models.MembershipLeave
	bannedRoom := joinedRoom("!banned", 40)
	bannedRoom.MyMembership = models.MembershipBan
	invited := joinedRoom("!invited", 30)
	invited.MyMembership = models.MembershipInvite

	client := new(mocks.RoomClientMock)
	client.On("Me").Return(me)
	client.On("ListRooms", mock.Anything).Return([]models.Room{
		leftRoom, bannedRoom, invited, joinedRoom("!joined", 20),
	}, nil).Once()
	client.On("DirectIndex", mock.Anything).Return(models.DirectIndex{}, nil).Once()

	r := New(client)
	require.NoError(t, r.Run(context.Background()))

	rooms := r.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, "!invited", rooms[0].ID)
	assert.Equal(t, "!joined", rooms[1].ID)

	invites := r.Invitations()
	require.Len(t, invites, 1)
	assert.Equal(t, "!invited", invites[0].ID)
}

func TestRunLeavesOrphanedDMExactlyOnce(t *testing.T) {
	orphan := orphanedDM("!dm", "@bob:server")
	index := models.DirectIndex{"@bob:server": {"!dm"}}

	client := new(mocks.RoomClientMock)
	client.On("Me").Return(me)
	client.On("ListRooms", mock.Anything).Return([]models.Room{orphan, joinedRoom("!keep", 5)}, nil).Once()
	client.On("DirectIndex", mock.Anything).Return(index, nil).Once()
	client.On("LeaveRoom", mock.Anything, "!dm").Return(nil).Once()
	// After a leave the list is refreshed; the orphan is gone.
	client.On("ListRooms", mock.Anything).Return([]models.Room{joinedRoom("!keep", 5)}, nil).Once()

	r := New(client)
	require.NoError(t, r.Run(context.Background()))

	rooms := r.Rooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, "!keep", rooms[0].ID)
	client.AssertExpectations(t)
}

func TestRunLeaveFailureIsNotFatal(t *testing.T) {
	orphan := orphanedDM("!dm", "@bob:server")
	index := models.DirectIndex{"@bob:server": {"!dm"}}

	client := new(mocks.RoomClientMock)
	client.On("Me").Return(me)
	client.On("ListRooms", mock.Anything).Return([]models.Room{orphan}, nil)
	client.On("DirectIndex", mock.Anything).Return(index, nil).Once()
	client.On("LeaveRoom", mock.Anything, "!dm").Return(assert.AnError).Once()

	r := New(client)
	require.NoError(t, r.Run(context.Background()))

	// The orphan stays visible until a later pass succeeds.
	rooms := r.Rooms()
	require.Len(t, rooms, 1)
	assert.Equal(t, "!dm", rooms[0].ID)
	client.AssertExpectations(t)
}

func TestRunListError(t *testing.T) {
	client := new(mocks.RoomClientMock)
	client.On("Me").Return(me)
	client.On("ListRooms", mock.Anything).Return(([]models.Room)(nil), assert.AnError).Once()

	r := New(client)
	require.Error(t, r.Run(context.Background()))
	assert.Empty(t, r.Rooms())
}

func TestOnChangeReceivesSnapshot(t *testing.T) {
	client := new(mocks.RoomClientMock)
	client.On("Me").Return(me)
	client.On("ListRooms", mock.Anything).Return([]models.Room{joinedRoom("!a", 1)}, nil).Once()
	client.On("DirectIndex", mock.Anything).Return(models.DirectIndex{}, nil).Once()

	r := New(client)
	var got []models.Room
	r.OnChange(func(rooms []models.Room) { got = rooms })

	require.NoError(t, r.Run(context.Background()))
	require.Len(t, got, 1)
	assert.Equal(t, "!a", got[0].ID)
}
