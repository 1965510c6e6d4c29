package roomservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chat-client/internal/feed"
	"chat-client/internal/models"
	"chat-client/internal/observability"
)

const feedRedialDelay = 2 * time.Second

// httpService talks JSON over HTTP for calls and reads the push feed
// from a websocket connection.
type httpService struct {
	baseURL string
	client  *http.Client
	hub     *feed.Hub

	mu     sync.Mutex
	token  string
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHTTPService builds a Service against the given server. Credentials
// are optional; a resumed session passes the stored pair.
func NewHTTPService(baseURL string, creds *Credentials) Service {
	s := &httpService{
		baseURL: baseURL,
		client:  &http.Client{},
		hub:     feed.NewHub(),
	}
	if creds != nil {
		s.token = creds.AccessToken
	}
	return s
}

type remoteError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *httpService) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	s.mu.Lock()
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	s.mu.Unlock()

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.decodeError(resp, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *httpService) decodeError(resp *http.Response, path string) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var remote remoteError
	if err := json.Unmarshal(data, &remote); err == nil && remote.Code != "" {
		return &ServiceError{
			Code:       remote.Code,
			Message:    remote.Message,
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Host:       resp.Request.URL.Host,
		}
	}
	return fmt.Errorf("%s: [%d] %s", path, resp.StatusCode, bytes.TrimSpace(data))
}

func (s *httpService) Login(ctx context.Context, username, password string) (Credentials, error) {
	var creds Credentials
	err := s.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &creds)
	if err != nil {
		return Credentials{}, err
	}
	s.mu.Lock()
	s.token = creds.AccessToken
	s.mu.Unlock()
	return creds, nil
}

func (s *httpService) Register(ctx context.Context, username, password string) error {
	return s.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username": username,
		"password": password,
	}, nil)
}

func (s *httpService) Logout(ctx context.Context) error {
	return s.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (s *httpService) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := s.do(ctx, http.MethodGet, "/rooms", nil, &rooms)
	return rooms, err
}

func (s *httpService) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := s.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID), nil, &room)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

func (s *httpService) CreateRoom(ctx context.Context, name string, opts CreateRoomOptions) (string, error) {
	var resp struct {
		RoomID string `json:"room_id"`
	}
	err := s.do(ctx, http.MethodPost, "/rooms", map[string]any{
		"name":   name,
		"direct": opts.Direct,
		"invite": opts.Invite,
	}, &resp)
	return resp.RoomID, err
}

func (s *httpService) JoinRoom(ctx context.Context, roomIDOrAlias string) (string, error) {
	var resp struct {
		RoomID string `json:"room_id"`
	}
	err := s.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomIDOrAlias)+"/join", nil, &resp)
	return resp.RoomID, err
}

func (s *httpService) LeaveRoom(ctx context.Context, roomID string) error {
	return s.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/leave", nil, nil)
}

func (s *httpService) ForgetRoom(ctx context.Context, roomID string) error {
	return s.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/forget", nil, nil)
}

func (s *httpService) InviteUser(ctx context.Context, roomID, userID string) error {
	return s.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/invite", map[string]string{
		"user_id": userID,
	}, nil)
}

func (s *httpService) KickUser(ctx context.Context, roomID, userID, reason string) error {
	return s.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/kick", map[string]string{
		"user_id": userID,
		"reason":  reason,
	}, nil)
}

func (s *httpService) SendMessage(ctx context.Context, roomID, body, txnID string) error {
	return s.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/messages", map[string]string{
		"body":   body,
		"txn_id": txnID,
	}, nil)
}

func (s *httpService) RedactEvent(ctx context.Context, roomID, eventID string) error {
	return s.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/redact", map[string]string{
		"event_id": eventID,
	}, nil)
}

func (s *httpService) UploadFile(ctx context.Context, roomID string, file FileUpload) error {
	path := "/rooms/" + url.PathEscape(roomID) + "/upload?name=" + url.QueryEscape(file.Name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, file.Data)
	if err != nil {
		return err
	}
	if file.ContentType != "" {
		req.Header.Set("Content-Type", file.ContentType)
	}
	if file.Size > 0 {
		req.ContentLength = file.Size
		req.Header.Set("Content-Length", strconv.FormatInt(file.Size, 10))
	}
	s.mu.Lock()
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	s.mu.Unlock()

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.decodeError(resp, path)
	}
	return nil
}

func (s *httpService) FetchMedia(ctx context.Context, link string) ([]byte, error) {
	var buf bytes.Buffer
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/media?link="+url.QueryEscape(link), nil)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	s.mu.Unlock()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, s.decodeError(resp, "/media")
	}
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *httpService) SearchUsers(ctx context.Context, term string) ([]UserProfile, error) {
	var users []UserProfile
	err := s.do(ctx, http.MethodGet, "/users/search?term="+url.QueryEscape(term), nil, &users)
	return users, err
}

func (s *httpService) GetAccountData(ctx context.Context, key string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := s.do(ctx, http.MethodGet, "/account/data/"+url.PathEscape(key), nil, &raw)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

func (s *httpService) SetAccountData(ctx context.Context, key string, value any) error {
	return s.do(ctx, http.MethodPut, "/account/data/"+url.PathEscape(key), value, nil)
}

func (s *httpService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return s.do(ctx, http.MethodPost, "/account/password", map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}, nil)
}

func (s *httpService) ChangeDisplayName(ctx context.Context, name string) error {
	return s.do(ctx, http.MethodPut, "/account/display-name", map[string]string{"name": name}, nil)
}

func (s *httpService) ChangeAvatarURL(ctx context.Context, avatarURL string) error {
	return s.do(ctx, http.MethodPut, "/account/avatar", map[string]string{"url": avatarURL}, nil)
}

func (s *httpService) Subscribe(l *feed.Listener) func() {
	return s.hub.Subscribe(l)
}

func (s *httpService) WaitReady(ctx context.Context) error {
	ch := make(chan struct{})
	var once sync.Once
	cancel := s.hub.Subscribe(&feed.Listener{
		OnSyncReady: func() { once.Do(func() { close(ch) }) },
	})
	defer cancel()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// feedFrame is one envelope on the push-feed websocket.
type feedFrame struct {
	Type       string                  `json:"type"`
	Timeline   *models.TimelineEvent   `json:"timeline,omitempty"`
	Membership *models.MembershipEvent `json:"membership,omitempty"`
	Receipt    *models.ReceiptEvent    `json:"receipt,omitempty"`
}

// StartSync dials the feed websocket and starts the pump. The pump
// serializes dispatch: one frame is fully handled before the next read.
func (s *httpService) StartSync(ctx context.Context) error {
	conn, err := s.dialFeed(ctx)
	if err != nil {
		return err
	}

	pumpCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	s.mu.Lock()
	s.conn = conn
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.pump(pumpCtx, conn, done)
	return nil
}

func (s *httpService) dialFeed(ctx context.Context) (*websocket.Conn, error) {
	feedURL, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, err
	}
	switch feedURL.Scheme {
	case "https":
		feedURL.Scheme = "wss"
	default:
		feedURL.Scheme = "ws"
	}
	feedURL.Path = "/feed"

	header := http.Header{}
	s.mu.Lock()
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}
	s.mu.Unlock()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, feedURL.String(), header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return conn, err
}

func (s *httpService) pump(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		for {
			var frame feedFrame
			if err := conn.ReadJSON(&frame); err != nil {
				conn.Close()
				if ctx.Err() != nil {
					return
				}
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("feed read error: %v", err)
				}
				break
			}
			s.dispatch(frame)
		}

		// Redial until the context is cancelled.
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(feedRedialDelay):
			}
			observability.IncFeedReconnect()
			next, err := s.dialFeed(ctx)
			if err != nil {
				log.Printf("feed redial failed: %v", err)
				continue
			}
			conn = next
			s.mu.Lock()
			s.conn = conn
			s.mu.Unlock()
			break
		}
	}
}

func (s *httpService) dispatch(frame feedFrame) {
	switch frame.Type {
	case "timeline":
		if frame.Timeline != nil {
			s.hub.DispatchTimeline(*frame.Timeline)
		}
	case "membership":
		if frame.Membership != nil {
			s.hub.DispatchMembership(*frame.Membership)
		}
	case "receipt":
		if frame.Receipt != nil {
			s.hub.DispatchReceipt(*frame.Receipt)
		}
	case "sync_ready":
		s.hub.DispatchSyncReady()
	}
}

func (s *httpService) Close() error {
	s.mu.Lock()
	cancel := s.cancel
	done := s.done
	conn := s.conn
	s.cancel = nil
	s.done = nil
	s.conn = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		// Unblocks the pump's pending read.
		_ = conn.Close()
	}
	if done != nil {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	}
	return nil
}
