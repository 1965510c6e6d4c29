package feed

import (
	"sync"

	"chat-client/internal/models"
)

// Listener receives push events from the room service. Callbacks are
// optional; nil callbacks are skipped.
type Listener struct {
	OnTimeline   func(models.TimelineEvent)
	OnMembership func(models.MembershipEvent)
	OnReceipt    func(models.ReceiptEvent)
	OnSyncReady  func()
}

// Hub fans push events out to subscribed listeners. Dispatch happens in
// subscription order, and the single feed pump serializes events, so one
// event is fully handled before the next begins.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	order     []int
	listeners map[int]*Listener
	ready     bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{listeners: make(map[int]*Listener)}
}

// Subscribe registers a listener and returns a cancel func that removes
// it. Cancel is idempotent. If the sync-ready signal already fired, the
// listener is notified immediately.
func (h *Hub) Subscribe(l *Listener) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	h.order = append(h.order, id)
	ready := h.ready
	h.mu.Unlock()

	if ready && l.OnSyncReady != nil {
		l.OnSyncReady()
	}

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.listeners[id]; !ok {
			return
		}
		delete(h.listeners, id)
		for i, oid := range h.order {
			if oid == id {
				h.order = append(h.order[:i], h.order[i+1:]...)
				break
			}
		}
	}
}

// Ready reports whether the sync-ready signal has fired.
func (h *Hub) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ready
}

func (h *Hub) snapshot() []*Listener {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*Listener, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.listeners[id])
	}
	return out
}

// DispatchTimeline delivers a timeline-append event to all listeners.
func (h *Hub) DispatchTimeline(ev models.TimelineEvent) {
	for _, l := range h.snapshot() {
		if l.OnTimeline != nil {
			l.OnTimeline(ev)
		}
	}
}

// DispatchMembership delivers a membership-change event to all listeners.
func (h *Hub) DispatchMembership(ev models.MembershipEvent) {
	for _, l := range h.snapshot() {
		if l.OnMembership != nil {
			l.OnMembership(ev)
		}
	}
}

// DispatchReceipt delivers a read-receipt event to all listeners.
func (h *Hub) DispatchReceipt(ev models.ReceiptEvent) {
	for _, l := range h.snapshot() {
		if l.OnReceipt != nil {
			l.OnReceipt(ev)
		}
	}
}

// DispatchSyncReady latches readiness and notifies all listeners. Repeat
// signals are ignored.
func (h *Hub) DispatchSyncReady() {
	h.mu.Lock()
	if h.ready {
		h.mu.Unlock()
		return
	}
	h.ready = true
	h.mu.Unlock()

	for _, l := range h.snapshot() {
		if l.OnSyncReady != nil {
			l.OnSyncReady()
		}
	}
}
