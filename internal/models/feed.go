package models

// TimelineEvent is pushed when an event is appended to a room's live
// timeline. The local user's own sends are echoed through here as well;
// that echo is the only path by which sent messages reach the view.
type TimelineEvent struct {
	RoomID string `json:"room_id"`
	Event  Event  `json:"event"`
}

// MembershipEvent is pushed when a member's state in a room changes.
type MembershipEvent struct {
	RoomID     string     `json:"room_id"`
	UserID     string     `json:"user_id"`
	Membership Membership `json:"membership"`
	DMInviter  string     `json:"dm_inviter,omitempty"`
}

// ReceiptEvent is pushed when a user advances their read marker in a room.
// EventID is the latest event the user has read.
type ReceiptEvent struct {
	RoomID  string `json:"room_id"`
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
}
