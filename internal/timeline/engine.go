// Package timeline maintains the ordered message view of the selected
// room and derives per-message delivery status.
package timeline

import (
	"context"
	"sync"

	"chat-client/internal/classify"
	"chat-client/internal/models"
)

// Client is the slice of the room-service adapter the engine needs.
type Client interface {
	Me() string
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	DirectIndex(ctx context.Context) (models.DirectIndex, error)
}

// State is the engine's selection state.
type State int

const (
	Unselected State = iota
	Loading
	Ready
)

// Engine holds the message timeline for at most one selected room.
// Ordering always follows the service-assigned timeline order; wall
// clocks are never compared. Live events are applied idempotently by
// event id; events arriving while the initial load is in flight are
// buffered and applied after the snapshot history, so service order
// survives the race.
type Engine struct {
	svc Client

	mu             sync.Mutex
	state          State
	roomID         string
	generation     uint64
	classification classify.Classification
	events         []models.Event
	seen           map[string]bool
	redacted       map[string]bool
	pending        []models.Event
	readMarker     string
	counterpartIn  bool
	memberNames    map[string]string
}

// NewEngine builds an Engine around the adapter.
func NewEngine(svc Client) *Engine {
	return &Engine{svc: svc}
}

// State returns the current selection state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SelectedRoomID returns the selected room id, empty when unselected.
func (e *Engine) SelectedRoomID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roomID
}

// Select switches the engine to a room and loads its live timeline,
// filtered to message events. A load that finishes after the selection
// has moved on is discarded. An empty id clears the selection.
func (e *Engine) Select(ctx context.Context, roomID string) error {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.roomID = roomID
	if roomID == "" {
		e.resetLocked(Unselected)
		e.mu.Unlock()
		return nil
	}
	e.resetLocked(Loading)
	e.mu.Unlock()

	room, err := e.svc.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	index, err := e.svc.DirectIndex(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.generation != gen || e.roomID != roomID {
		// A newer selection won; this result is stale.
		return nil
	}
	if room == nil {
		e.roomID = ""
		e.resetLocked(Unselected)
		return nil
	}

	e.classification = classify.Classify(room, e.svc.Me(), index)
	e.memberNames = make(map[string]string, len(room.Members))
	for _, m := range room.Members {
		e.memberNames[m.UserID] = m.Name()
	}
	if cp := room.Member(e.classification.CounterpartID); cp != nil {
		e.counterpartIn = cp.EverJoined
	}
	if marker, ok := room.ReadReceipts[e.classification.CounterpartID]; ok {
		e.readMarker = marker
	}

	for _, ev := range room.Timeline {
		e.applyLocked(ev)
	}
	// Live events that raced the load go after the snapshot history;
	// the seen map drops any the snapshot already contained.
	for _, ev := range e.pending {
		e.applyLocked(ev)
	}
	e.pending = nil
	e.state = Ready
	return nil
}

func (e *Engine) resetLocked(state State) {
	e.state = state
	e.events = nil
	e.seen = make(map[string]bool)
	e.redacted = make(map[string]bool)
	e.pending = nil
	e.readMarker = ""
	e.counterpartIn = false
	e.classification = classify.Classification{}
	e.memberNames = nil
}

// HandleTimeline applies a live timeline-append event. Events for other
// rooms are ignored, duplicates are no-ops, and redactions flip the
// target's projection without removing it from the list. While the
// initial load is in flight the event is held back so the snapshot
// history lands first.
func (e *Engine) HandleTimeline(ev models.TimelineEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Unselected || ev.RoomID != e.roomID {
		return
	}
	if e.state == Loading {
		e.pending = append(e.pending, ev.Event)
		return
	}
	e.applyLocked(ev.Event)
}

func (e *Engine) applyLocked(ev models.Event) {
	switch ev.Type {
	case models.EventMessage:
		if e.seen[ev.ID] {
			return
		}
		e.seen[ev.ID] = true
		e.events = append(e.events, ev)
	case models.EventRedaction:
		if ev.RedactsID != "" {
			e.redacted[ev.RedactsID] = true
		}
	}
}

// HandleReceipt advances the counterpart's read marker for the selected
// room.
func (e *Engine) HandleReceipt(ev models.ReceiptEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ev.RoomID != e.roomID || ev.UserID != e.classification.CounterpartID {
		return
	}
	e.readMarker = ev.EventID
}

// HandleMembership tracks the counterpart's join state for the selected
// room.
func (e *Engine) HandleMembership(ev models.MembershipEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ev.RoomID != e.roomID {
		return
	}
	if ev.UserID == e.classification.CounterpartID && ev.Membership == models.MembershipJoin {
		e.counterpartIn = true
	}
}

// Messages returns the projections for the selected room in timeline
// order. Statuses are recomputed against the full known list.
func (e *Engine) Messages() []models.MessageProjection {
	e.mu.Lock()
	defer e.mu.Unlock()

	positions := make(map[string]int, len(e.events))
	for i, ev := range e.events {
		positions[ev.ID] = i
	}
	markerPos, hasMarker := positions[e.readMarker]

	me := e.svc.Me()
	out := make([]models.MessageProjection, 0, len(e.events))
	for i, ev := range e.events {
		p := e.projectLocked(ev)
		if ev.SenderID == me {
			p.Target = models.TargetSender
			p.Status = e.statusLocked(i, markerPos, hasMarker)
		} else {
			p.Target = models.TargetReceiver
			p.Status = models.StatusRead
			if e.classification.IsGroup() {
				p.SenderName = e.senderNameLocked(ev.SenderID)
			}
		}
		out = append(out, p)
	}
	return out
}

func (e *Engine) statusLocked(pos, markerPos int, hasMarker bool) models.MessageStatus {
	if e.classification.IsDirect && !e.counterpartIn {
		return models.StatusSent
	}
	if hasMarker && pos <= markerPos {
		return models.StatusRead
	}
	return models.StatusDelivered
}

func (e *Engine) senderNameLocked(userID string) string {
	if name, ok := e.memberNames[userID]; ok {
		return name
	}
	return userID
}
