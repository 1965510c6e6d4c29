package models

// Membership is the state of a user's participation in a room.
type Membership string

const (
	MembershipInvite Membership = "invite"
	MembershipJoin   Membership = "join"
	MembershipLeave  Membership = "leave"
	MembershipBan    Membership = "ban"
)

// Member is one user's membership record within a room.
type Member struct {
	UserID      string     `json:"user_id"`
	DisplayName string     `json:"display_name,omitempty"`
	Membership  Membership `json:"membership"`
	// DMInviter names the user whose direct-message invite brought this
	// member into the room. Empty for regular invites and joins.
	DMInviter string `json:"dm_inviter,omitempty"`
	// EverJoined stays true once the member has reached the join state,
	// even if they left afterwards.
	EverJoined bool `json:"ever_joined"`
}

// Name returns the member's display name, falling back to the user id.
func (m Member) Name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.UserID
}

// PowerLevels holds the cached permission levels for a room.
type PowerLevels struct {
	Users        map[string]int `json:"users,omitempty"`
	UsersDefault int            `json:"users_default"`
	Redact       int            `json:"redact"`
	Kick         int            `json:"kick"`
}

// UserLevel returns the power level assigned to a user, or the default.
func (p PowerLevels) UserLevel(userID string) int {
	if level, ok := p.Users[userID]; ok {
		return level
	}
	return p.UsersDefault
}

// Room is a read-only snapshot of a room as reported by the room service.
// The service owns the data; the core never mutates a snapshot.
type Room struct {
	ID           string      `json:"id"`
	Name         string      `json:"name,omitempty"`
	CreatorID    string      `json:"creator_id"`
	LastActiveTS int64       `json:"last_active_ts"`
	MyMembership Membership  `json:"my_membership"`
	Members      []Member    `json:"members"`
	Timeline     []Event     `json:"timeline"`
	PowerLevels  PowerLevels `json:"power_levels"`
	// ReadReceipts maps a user id to the latest event id that user has
	// read in this room.
	ReadReceipts map[string]string `json:"read_receipts,omitempty"`
}

// Member returns the membership record for a user, or nil.
func (r *Room) Member(userID string) *Member {
	for i := range r.Members {
		if r.Members[i].UserID == userID {
			return &r.Members[i]
		}
	}
	return nil
}

// ActiveMembers returns members in the join or invite state.
func (r *Room) ActiveMembers() []Member {
	var active []Member
	for _, m := range r.Members {
		if m.Membership == MembershipJoin || m.Membership == MembershipInvite {
			active = append(active, m)
		}
	}
	return active
}

// JoinedMembers returns members in the join state.
func (r *Room) JoinedMembers() []Member {
	var joined []Member
	for _, m := range r.Members {
		if m.Membership == MembershipJoin {
			joined = append(joined, m)
		}
	}
	return joined
}
