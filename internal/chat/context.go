// Package chat is the orchestration surface the presentation layer talks
// to. All mutations flow through the room service; local state changes
// commit only via the service's echo on the push feed, so there is a
// single source of truth and no optimistic inserts.
package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"chat-client/internal/feed"
	"chat-client/internal/models"
	"chat-client/internal/observability"
	"chat-client/internal/reconcile"
	"chat-client/internal/roomservice"
	"chat-client/internal/timeline"
)

// ErrNotPermitted is returned when the cached power levels show the local
// user lacks the right to perform an operation. The remote call is then
// skipped entirely.
var ErrNotPermitted = errors.New("not permitted")

// Context wires the reconciler and the timeline engine to one session's
// feed and exposes the operations the presentation layer needs.
type Context struct {
	svc        *roomservice.Adapter
	reconciler *reconcile.Reconciler
	engine     *timeline.Engine

	ready       atomic.Bool
	unsubscribe func()
}

// NewContext builds the orchestration context for an active session and
// subscribes it to the push feed. Close must be called on teardown.
func NewContext(svc *roomservice.Adapter) *Context {
	c := &Context{
		svc:        svc,
		reconciler: reconcile.New(svc),
		engine:     timeline.NewEngine(svc),
	}

	c.unsubscribe = svc.Subscribe(&feed.Listener{
		OnTimeline: func(ev models.TimelineEvent) {
			observability.IncFeedEvent("timeline")
			c.engine.HandleTimeline(ev)
		},
		OnMembership: func(ev models.MembershipEvent) {
			observability.IncFeedEvent("membership")
			c.engine.HandleMembership(ev)
			if err := c.reconciler.Run(context.Background()); err != nil {
				log.Printf("room list refresh after membership change failed: %v", err)
			}
		},
		OnReceipt: func(ev models.ReceiptEvent) {
			observability.IncFeedEvent("receipt")
			c.engine.HandleReceipt(ev)
		},
		OnSyncReady: func() {
			observability.IncFeedEvent("sync_ready")
			c.ready.Store(true)
			if err := c.reconciler.Run(context.Background()); err != nil {
				log.Printf("initial room list load failed: %v", err)
			}
		},
	})
	return c
}

// Close unsubscribes the context from the feed.
func (c *Context) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

// Ready reports whether the initial sync has completed.
func (c *Context) Ready() bool { return c.ready.Load() }

// Rooms returns the published room list.
func (c *Context) Rooms() []models.Room { return c.reconciler.Rooms() }

// Invitations returns rooms the user is invited to but has not joined.
func (c *Context) Invitations() []models.Room { return c.reconciler.Invitations() }

// RefreshRooms runs one reconciliation pass.
func (c *Context) RefreshRooms(ctx context.Context) error {
	return c.reconciler.Run(ctx)
}

// SelectRoom switches the timeline engine to a room. An empty id clears
// the selection.
func (c *Context) SelectRoom(ctx context.Context, roomID string) error {
	return c.engine.Select(ctx, roomID)
}

// SelectedRoom returns the published snapshot of the selected room, nil
// when nothing is selected.
func (c *Context) SelectedRoom() *models.Room {
	roomID := c.engine.SelectedRoomID()
	if roomID == "" {
		return nil
	}
	for _, room := range c.reconciler.Rooms() {
		if room.ID == roomID {
			return &room
		}
	}
	return nil
}

// Messages returns the selected room's message projections.
func (c *Context) Messages() []models.MessageProjection {
	return c.engine.Messages()
}

// SendMessage sends text to the selected room. With no selection or a
// whitespace-only body it is a no-op, not an error. The sent message
// reaches the view only through the feed echo.
func (c *Context) SendMessage(ctx context.Context, text string) error {
	roomID := c.engine.SelectedRoomID()
	if roomID == "" || strings.TrimSpace(text) == "" {
		return nil
	}
	if room := c.SelectedRoom(); room != nil && room.MyMembership != models.MembershipJoin {
		if _, err := c.svc.JoinRoom(ctx, roomID); err != nil {
			return err
		}
	}
	return c.svc.SendMessage(ctx, roomID, text)
}

// DeleteMessage redacts a message in the selected room. The cached power
// levels are checked first so an unauthorized attempt never leaves the
// client. The projection flips only via the redaction echo.
func (c *Context) DeleteMessage(ctx context.Context, eventID string) error {
	roomID := c.engine.SelectedRoomID()
	if roomID == "" {
		return nil
	}
	if !c.canRedact(eventID) {
		return ErrNotPermitted
	}
	return c.svc.RedactEvent(ctx, roomID, eventID)
}

func (c *Context) canRedact(eventID string) bool {
	me := c.svc.Me()
	for _, p := range c.engine.Messages() {
		if p.EventID != eventID {
			continue
		}
		if p.SenderID == me {
			return true
		}
		room := c.SelectedRoom()
		return room != nil && room.PowerLevels.UserLevel(me) >= room.PowerLevels.Redact
	}
	return false
}

// CreateRoom creates a private group room and refreshes the list.
func (c *Context) CreateRoom(ctx context.Context, name string) (string, error) {
	roomID, err := c.svc.CreateRoom(ctx, name, roomservice.CreateRoomOptions{})
	if err != nil {
		return "", err
	}
	c.refreshAfterMutation(ctx)
	return roomID, nil
}

// JoinRoom joins a room by id or alias and refreshes the list.
func (c *Context) JoinRoom(ctx context.Context, roomIDOrAlias string) (string, error) {
	roomID, err := c.svc.JoinRoom(ctx, roomIDOrAlias)
	if err != nil {
		return "", err
	}
	c.refreshAfterMutation(ctx)
	return roomID, nil
}

// LeaveRoom leaves a room, clearing the selection if it was selected.
func (c *Context) LeaveRoom(ctx context.Context, roomID string) error {
	if err := c.svc.LeaveRoom(ctx, roomID); err != nil {
		return err
	}
	if c.engine.SelectedRoomID() == roomID {
		_ = c.engine.Select(ctx, "")
	}
	c.refreshAfterMutation(ctx)
	return nil
}

// AcceptInvitation joins the inviting room.
func (c *Context) AcceptInvitation(ctx context.Context, roomID string) error {
	if _, err := c.svc.JoinRoom(ctx, roomID); err != nil {
		return err
	}
	c.refreshAfterMutation(ctx)
	return nil
}

// DeclineInvitation leaves the inviting room.
func (c *Context) DeclineInvitation(ctx context.Context, roomID string) error {
	if err := c.svc.LeaveRoom(ctx, roomID); err != nil {
		return err
	}
	c.refreshAfterMutation(ctx)
	return nil
}

// StartDirectMessage reuses or creates a direct room with the user.
func (c *Context) StartDirectMessage(ctx context.Context, userID string) (string, error) {
	roomID, err := c.svc.StartDirectMessage(ctx, userID)
	if err != nil {
		return "", err
	}
	c.refreshAfterMutation(ctx)
	return roomID, nil
}

// DeleteRoom tears a room down for everyone. Only the room's creator may
// do this; the check runs against cached state before any round trip.
func (c *Context) DeleteRoom(ctx context.Context, roomID string) error {
	for _, room := range c.reconciler.Rooms() {
		if room.ID != roomID {
			continue
		}
		if room.CreatorID != c.svc.Me() {
			return ErrNotPermitted
		}
		break
	}
	if err := c.svc.DeleteRoom(ctx, roomID); err != nil {
		return err
	}
	if c.engine.SelectedRoomID() == roomID {
		_ = c.engine.Select(ctx, "")
	}
	c.refreshAfterMutation(ctx)
	return nil
}

// InviteUser invites a user into a room.
func (c *Context) InviteUser(ctx context.Context, roomID, userID string) error {
	if err := c.svc.InviteUser(ctx, roomID, userID); err != nil {
		return err
	}
	c.refreshAfterMutation(ctx)
	return nil
}

// KickUser removes a user from a room, checking cached power levels
// first.
func (c *Context) KickUser(ctx context.Context, roomID, userID, reason string) error {
	me := c.svc.Me()
	for _, room := range c.reconciler.Rooms() {
		if room.ID != roomID {
			continue
		}
		if room.CreatorID != me && room.PowerLevels.UserLevel(me) < room.PowerLevels.Kick {
			return ErrNotPermitted
		}
		break
	}
	if err := c.svc.KickUser(ctx, roomID, userID, reason); err != nil {
		return err
	}
	c.refreshAfterMutation(ctx)
	return nil
}

// SearchUsers queries the user directory.
func (c *Context) SearchUsers(ctx context.Context, term string) ([]roomservice.UserProfile, error) {
	return c.svc.SearchUsers(ctx, term)
}

// UploadFile attaches a file to the selected room. A no-op without a
// selection.
func (c *Context) UploadFile(ctx context.Context, file roomservice.FileUpload) error {
	roomID := c.engine.SelectedRoomID()
	if roomID == "" {
		return nil
	}
	return c.svc.UploadFile(ctx, roomID, file)
}

// FetchMedia downloads a media blob by its service link.
func (c *Context) FetchMedia(ctx context.Context, link string) ([]byte, error) {
	return c.svc.FetchMedia(ctx, link)
}

// ChangePassword updates the account password.
func (c *Context) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.svc.ChangePassword(ctx, oldPassword, newPassword)
}

// ChangeDisplayName updates the account display name.
func (c *Context) ChangeDisplayName(ctx context.Context, name string) error {
	return c.svc.ChangeDisplayName(ctx, name)
}

// ChangeAvatarURL updates the account avatar.
func (c *Context) ChangeAvatarURL(ctx context.Context, url string) error {
	return c.svc.ChangeAvatarURL(ctx, url)
}

// refreshAfterMutation runs the minimal local refresh after a successful
// room mutation. Failures are reported, not propagated; the mutation
// itself succeeded.
func (c *Context) refreshAfterMutation(ctx context.Context) {
	if err := c.reconciler.Run(ctx); err != nil {
		log.Printf("room list refresh failed: %v", err)
	}
}
