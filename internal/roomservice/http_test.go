package roomservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-client/internal/feed"
	"chat-client/internal/models"
)

func TestWaitReadyUnblocksOnSyncReady(t *testing.T) {
	s := &httpService{hub: feed.NewHub()}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.WaitReady(ctx) }()
	s.hub.DispatchSyncReady()

	require.NoError(t, <-done)
}

func TestWaitReadyAfterLatch(t *testing.T) {
	s := &httpService{hub: feed.NewHub()}
	s.hub.DispatchSyncReady()

	require.NoError(t, s.WaitReady(context.Background()))
}

func TestWaitReadyContextCancelled(t *testing.T) {
	s := &httpService{hub: feed.NewHub()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.WaitReady(ctx), context.Canceled)
}

func TestDispatchRoutesFrames(t *testing.T) {
	s := &httpService{hub: feed.NewHub()}

	var got []string
	s.hub.Subscribe(&feed.Listener{
		OnTimeline:   func(models.TimelineEvent) { got = append(got, "timeline") },
		OnMembership: func(models.MembershipEvent) { got = append(got, "membership") },
		OnReceipt:    func(models.ReceiptEvent) { got = append(got, "receipt") },
		OnSyncReady:  func() { got = append(got, "sync_ready") },
	})

	s.dispatch(feedFrame{Type: "timeline", Timeline: &models.TimelineEvent{RoomID: "!a"}})
	s.dispatch(feedFrame{Type: "membership", Membership: &models.MembershipEvent{RoomID: "!a"}})
	s.dispatch(feedFrame{Type: "receipt", Receipt: &models.ReceiptEvent{RoomID: "!a"}})
	s.dispatch(feedFrame{Type: "sync_ready"})
	// Malformed frames are dropped silently.
	s.dispatch(feedFrame{Type: "timeline"})
	s.dispatch(feedFrame{Type: "unknown"})

	assert.Equal(t, []string{"timeline", "membership", "receipt", "sync_ready"}, got)
}
