// Package reconcile maintains the canonical, displayable room list.
package reconcile

import (
	"context"
	"log"
	"sort"
	"sync"

	"chat-client/internal/classify"
	"chat-client/internal/models"
	"chat-client/internal/observability"
)

// Client is the slice of the room-service adapter the reconciler needs.
type Client interface {
	Me() string
	ListRooms(ctx context.Context) ([]models.Room, error)
	LeaveRoom(ctx context.Context, roomID string) error
	DirectIndex(ctx context.Context) (models.DirectIndex, error)
}

// Reconciler owns the published room list. It keeps rooms the local user
// has joined or been invited to, auto-leaves orphaned direct rooms, and
// sorts by last activity. Run is triggered on init and on every
// membership-change notification.
type Reconciler struct {
	svc Client

	mu       sync.RWMutex
	rooms    []models.Room
	onChange func([]models.Room)
}

// New builds a Reconciler around the adapter.
func New(svc Client) *Reconciler {
	return &Reconciler{svc: svc}
}

// OnChange registers a callback invoked with each published snapshot.
func (r *Reconciler) OnChange(fn func([]models.Room)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Rooms returns the current published snapshot.
func (r *Reconciler) Rooms() []models.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Room, len(r.rooms))
	copy(out, r.rooms)
	return out
}

// Invitations returns published rooms the user is invited to but has not
// joined.
func (r *Reconciler) Invitations() []models.Room {
	var invites []models.Room
	for _, room := range r.Rooms() {
		if room.MyMembership == models.MembershipInvite {
			invites = append(invites, room)
		}
	}
	return invites
}

// Run performs one reconciliation pass and publishes the result. An
// individual leave failure is reported and skipped, never fatal to the
// pass.
func (r *Reconciler) Run(ctx context.Context) error {
	observability.IncReconcileRun()
	me := r.svc.Me()

	rooms, err := r.svc.ListRooms(ctx)
	if err != nil {
		return err
	}
	index, err := r.svc.DirectIndex(ctx)
	if err != nil {
		return err
	}

	left := map[string]bool{}
	for _, room := range displayable(rooms) {
		room := room
		if !classify.IsOrphanedDM(&room, me, index) {
			continue
		}
		if left[room.ID] {
			continue
		}
		left[room.ID] = true
		if err := r.svc.LeaveRoom(ctx, room.ID); err != nil {
			observability.IncReconcileLeaveFailure()
			log.Printf("reconcile: leaving orphaned room %s failed: %v", room.ID, err)
		}
	}

	if len(left) > 0 {
		if rooms, err = r.svc.ListRooms(ctx); err != nil {
			return err
		}
	}

	visible := displayable(rooms)
	// Stable sort keeps service enumeration order on timestamp ties.
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].LastActiveTS > visible[j].LastActiveTS
	})

	r.publish(visible)
	return nil
}

func (r *Reconciler) publish(rooms []models.Room) {
	r.mu.Lock()
	r.rooms = rooms
	fn := r.onChange
	r.mu.Unlock()

	observability.SetRoomCount(len(rooms))
	if fn != nil {
		fn(rooms)
	}
}

func displayable(rooms []models.Room) []models.Room {
	var kept []models.Room
	for _, room := range rooms {
		switch room.MyMembership {
		case models.MembershipJoin, models.MembershipInvite:
			kept = append(kept, room)
		}
	}
	return kept
}
