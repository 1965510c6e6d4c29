package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chat-client/internal/chat"
	"chat-client/internal/mocks"
	"chat-client/internal/models"
	"chat-client/internal/roomservice"
)

func setupRoomRouter(api ChatAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewRoomHandler(func() ChatAPI { return api })
	r := gin.New()
	r.GET("/rooms", handler.ListRooms)
	r.POST("/rooms", handler.CreateRoom)
	r.POST("/rooms/direct", handler.StartDirect)
	r.POST("/rooms/:room_id/kick", handler.KickUser)
	r.DELETE("/rooms/:room_id", handler.DeleteRoom)
	r.GET("/users/search", handler.SearchUsers)
	return r
}

func TestListRoomsSuccess(t *testing.T) {
	api := new(mocks.ChatAPIMock)
	router := setupRoomRouter(api)

	api.On("Rooms").Return([]models.Room{
		{ID: "!a", Name: "general", LastActiveTS: 42, MyMembership: models.MembershipJoin},
	}).Once()
	api.On("Invitations").Return([]models.Room{{ID: "!inv"}}).Once()
	api.On("Ready").Return(true).Once()

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Ready bool `json:"ready"`
		Rooms []struct {
			RoomID string `json:"room_id"`
			Name   string `json:"name"`
		} `json:"rooms"`
		Invitations []string `json:"invitations"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Ready)
	require.Len(t, resp.Rooms, 1)
	assert.Equal(t, "!a", resp.Rooms[0].RoomID)
	assert.Equal(t, []string{"!inv"}, resp.Invitations)
	api.AssertExpectations(t)
}

func TestListRoomsWithoutSession(t *testing.T) {
	router := setupRoomRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/rooms", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRoomSuccess(t *testing.T) {
	api := new(mocks.ChatAPIMock)
	router := setupRoomRouter(api)

	api.On("CreateRoom", mock.Anything, "plans").Return("!new", nil).Once()

	body := bytes.NewBufferString(`{"name":"plans"}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	api.AssertExpectations(t)
}

func TestCreateRoomMissingName(t *testing.T) {
	router := setupRoomRouter(new(mocks.ChatAPIMock))

	req := httptest.NewRequest(http.MethodPost, "/rooms", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartDirectReturnsRoomID(t *testing.T) {
	api := new(mocks.ChatAPIMock)
	router := setupRoomRouter(api)

	api.On("StartDirectMessage", mock.Anything, "@bob:server").Return("!dm", nil).Once()

	body := bytes.NewBufferString(`{"user_id":"@bob:server"}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms/direct", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "!dm", resp["room_id"])
	api.AssertExpectations(t)
}

func TestDeleteRoomNotPermitted(t *testing.T) {
	api := new(mocks.ChatAPIMock)
	router := setupRoomRouter(api)

	api.On("DeleteRoom", mock.Anything, "!a").Return(chat.ErrNotPermitted).Once()

	req := httptest.NewRequest(http.MethodDelete, "/rooms/!a", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	api.AssertExpectations(t)
}

func TestKickUserPassesReason(t *testing.T) {
	api := new(mocks.ChatAPIMock)
	router := setupRoomRouter(api)

	api.On("KickUser", mock.Anything, "!a", "@bob:server", "spam").Return(nil).Once()

	body := bytes.NewBufferString(`{"user_id":"@bob:server","reason":"spam"}`)
	req := httptest.NewRequest(http.MethodPost, "/rooms/!a/kick", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	api.AssertExpectations(t)
}

func TestSearchUsersRequiresTerm(t *testing.T) {
	router := setupRoomRouter(new(mocks.ChatAPIMock))

	req := httptest.NewRequest(http.MethodGet, "/users/search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchUsersUpstreamStatusPassthrough(t *testing.T) {
	api := new(mocks.ChatAPIMock)
	router := setupRoomRouter(api)

	svcErr := &roomservice.ServiceError{Code: "M_LIMIT_EXCEEDED", Message: "slow down", StatusCode: 429}
	api.On("SearchUsers", mock.Anything, "bob").
		Return(([]roomservice.UserProfile)(nil), svcErr).Once()

	req := httptest.NewRequest(http.MethodGet, "/users/search?term=bob", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	api.AssertExpectations(t)
}
