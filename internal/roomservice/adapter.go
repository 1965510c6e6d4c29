package roomservice

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"chat-client/internal/classify"
	"chat-client/internal/feed"
	"chat-client/internal/models"
	"chat-client/internal/observability"
)

// Adapter wraps a Service with uniform error translation, tracing and
// metrics. Every rejection is surfaced to the caller; no retries happen
// at this layer.
type Adapter struct {
	svc    Service
	me     string
	tracer trace.Tracer
}

// NewAdapter builds an Adapter bound to the local user.
func NewAdapter(svc Service, me string) *Adapter {
	return &Adapter{
		svc:    svc,
		me:     me,
		tracer: otel.Tracer("chat-client/roomservice"),
	}
}

// Me returns the local user id.
func (a *Adapter) Me() string { return a.me }

// Subscribe registers a feed listener on the underlying service.
func (a *Adapter) Subscribe(l *feed.Listener) func() { return a.svc.Subscribe(l) }

func (a *Adapter) finish(span trace.Span, op, label string, err error) error {
	err = TranslateError(label, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	observability.ObserveServiceCall(op, err)
	span.End()
	return err
}

// ListRooms returns all rooms known to the service.
func (a *Adapter) ListRooms(ctx context.Context) ([]models.Room, error) {
	ctx, span := a.tracer.Start(ctx, "roomservice.list_rooms")
	rooms, err := a.svc.ListRooms(ctx)
	return rooms, a.finish(span, "list_rooms", "listing rooms", err)
}

// GetRoom fetches one room snapshot, nil when unknown.
func (a *Adapter) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	ctx, span := a.tracer.Start(ctx, "roomservice.get_room")
	room, err := a.svc.GetRoom(ctx, roomID)
	return room, a.finish(span, "get_room", "fetching room", err)
}

// CreateRoom creates a room and returns its id.
func (a *Adapter) CreateRoom(ctx context.Context, name string, opts CreateRoomOptions) (string, error) {
	ctx, span := a.tracer.Start(ctx, "roomservice.create_room")
	roomID, err := a.svc.CreateRoom(ctx, name, opts)
	return roomID, a.finish(span, "create_room", "room creation", err)
}

// JoinRoom joins a room by id or alias and returns the resolved id.
func (a *Adapter) JoinRoom(ctx context.Context, roomIDOrAlias string) (string, error) {
	ctx, span := a.tracer.Start(ctx, "roomservice.join_room")
	roomID, err := a.svc.JoinRoom(ctx, roomIDOrAlias)
	return roomID, a.finish(span, "join_room", "joining room", err)
}

// LeaveRoom leaves a room.
func (a *Adapter) LeaveRoom(ctx context.Context, roomID string) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.leave_room")
	err := a.svc.LeaveRoom(ctx, roomID)
	return a.finish(span, "leave_room", "leaving room", err)
}

// ForgetRoom forgets a room previously left.
func (a *Adapter) ForgetRoom(ctx context.Context, roomID string) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.forget_room")
	err := a.svc.ForgetRoom(ctx, roomID)
	return a.finish(span, "forget_room", "forgetting room", err)
}

// InviteUser invites a user into a room.
func (a *Adapter) InviteUser(ctx context.Context, roomID, userID string) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.invite_user")
	err := a.svc.InviteUser(ctx, roomID, userID)
	return a.finish(span, "invite_user", "inviting user", err)
}

// KickUser removes a user from a room with a reason.
func (a *Adapter) KickUser(ctx context.Context, roomID, userID, reason string) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.kick_user")
	err := a.svc.KickUser(ctx, roomID, userID, reason)
	return a.finish(span, "kick_user", "kicking user", err)
}

// SendMessage sends a text message. The idempotency key is generated
// here so every caller gets the same discipline.
func (a *Adapter) SendMessage(ctx context.Context, roomID, body string) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.send_message")
	err := a.svc.SendMessage(ctx, roomID, body, uuid.NewString())
	return a.finish(span, "send_message", "sending message", err)
}

// RedactEvent deletes a message for everyone.
func (a *Adapter) RedactEvent(ctx context.Context, roomID, eventID string) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.redact_event")
	err := a.svc.RedactEvent(ctx, roomID, eventID)
	return a.finish(span, "redact_event", "deleting message", err)
}

// UploadFile attaches a file to a room as a message event.
func (a *Adapter) UploadFile(ctx context.Context, roomID string, file FileUpload) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.upload_file")
	err := a.svc.UploadFile(ctx, roomID, file)
	return a.finish(span, "upload_file", "uploading file", err)
}

// FetchMedia downloads media content by link.
func (a *Adapter) FetchMedia(ctx context.Context, link string) ([]byte, error) {
	ctx, span := a.tracer.Start(ctx, "roomservice.fetch_media")
	data, err := a.svc.FetchMedia(ctx, link)
	return data, a.finish(span, "fetch_media", "fetching media", err)
}

// SearchUsers queries the user directory, excluding the local user.
func (a *Adapter) SearchUsers(ctx context.Context, term string) ([]UserProfile, error) {
	ctx, span := a.tracer.Start(ctx, "roomservice.search_users")
	results, err := a.svc.SearchUsers(ctx, term)
	if err != nil {
		return nil, a.finish(span, "search_users", "user search", err)
	}
	filtered := make([]UserProfile, 0, len(results))
	for _, u := range results {
		if u.UserID == a.me {
			continue
		}
		if u.DisplayName == "" {
			u.DisplayName = u.UserID
		}
		filtered = append(filtered, u)
	}
	return filtered, a.finish(span, "search_users", "user search", nil)
}

// DirectIndex loads the direct-message index from account data. A missing
// key yields an empty index.
func (a *Adapter) DirectIndex(ctx context.Context) (models.DirectIndex, error) {
	ctx, span := a.tracer.Start(ctx, "roomservice.get_account_data")
	raw, err := a.svc.GetAccountData(ctx, models.DirectIndexKey)
	if err != nil {
		return nil, a.finish(span, "get_account_data", "loading direct index", err)
	}
	index := models.DirectIndex{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &index); err != nil {
			return nil, a.finish(span, "get_account_data", "loading direct index", err)
		}
	}
	return index, a.finish(span, "get_account_data", "loading direct index", nil)
}

// SetDirectIndex stores the direct-message index as account data.
func (a *Adapter) SetDirectIndex(ctx context.Context, index models.DirectIndex) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.set_account_data")
	err := a.svc.SetAccountData(ctx, models.DirectIndexKey, index)
	return a.finish(span, "set_account_data", "storing direct index", err)
}

// ChangePassword updates the account password.
func (a *Adapter) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.change_password")
	err := a.svc.ChangePassword(ctx, oldPassword, newPassword)
	return a.finish(span, "change_password", "updating password", err)
}

// ChangeDisplayName updates the account display name.
func (a *Adapter) ChangeDisplayName(ctx context.Context, name string) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.change_display_name")
	err := a.svc.ChangeDisplayName(ctx, name)
	return a.finish(span, "change_display_name", "updating display name", err)
}

// ChangeAvatarURL updates the account avatar.
func (a *Adapter) ChangeAvatarURL(ctx context.Context, url string) error {
	ctx, span := a.tracer.Start(ctx, "roomservice.change_avatar")
	err := a.svc.ChangeAvatarURL(ctx, url)
	return a.finish(span, "change_avatar", "updating avatar", err)
}

// StartDirectMessage reuses an existing live direct room with the user or
// creates one, recording it in the direct index.
func (a *Adapter) StartDirectMessage(ctx context.Context, userID string) (string, error) {
	index, err := a.DirectIndex(ctx)
	if err != nil {
		return "", err
	}

	for _, roomID := range index.RoomsWith(userID) {
		room, err := a.GetRoom(ctx, roomID)
		if err != nil || room == nil {
			continue
		}
		c := classify.Classify(room, a.me, index)
		if c.IsDirect && !classify.IsOrphanedDM(room, a.me, index) {
			return room.ID, nil
		}
	}

	roomID, err := a.CreateRoom(ctx, "", CreateRoomOptions{Direct: true, Invite: []string{userID}})
	if err != nil {
		return "", err
	}
	if index.Add(userID, roomID) {
		if err := a.SetDirectIndex(ctx, index); err != nil {
			return "", err
		}
	}
	return roomID, nil
}

// DeleteRoom tears a room down for everyone: leave, best-effort kicks of
// the remaining members, forget, and a direct-index scrub. Kick failures
// are tolerated; the member may already be gone.
func (a *Adapter) DeleteRoom(ctx context.Context, roomID string) error {
	room, err := a.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return TranslateError("deleting room", &ServiceError{Code: "NOT_FOUND", Message: "room not found", StatusCode: 404})
	}

	members := room.JoinedMembers()

	if err := a.LeaveRoom(ctx, roomID); err != nil {
		return err
	}

	for _, member := range members {
		if member.UserID == a.me {
			continue
		}
		if err := a.KickUser(ctx, roomID, member.UserID, "Room deleted"); err != nil {
			log.Printf("delete room %s: kick %s failed: %v", roomID, member.UserID, err)
		}
	}

	if err := a.ForgetRoom(ctx, roomID); err != nil {
		return err
	}

	index, err := a.DirectIndex(ctx)
	if err != nil {
		return err
	}
	if index.RemoveRoom(roomID) {
		if err := a.SetDirectIndex(ctx, index); err != nil {
			return err
		}
	}
	return nil
}
