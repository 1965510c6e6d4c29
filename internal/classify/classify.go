// Package classify decides whether a room is a direct-message room or a
// group room, and derives the counterpart and display name for DMs.
//
// Direct status can be asserted by either party: the inviter records the
// room in the account-level direct index, while the invitee's own
// membership event carries an invite-provenance marker. The two signals
// are combined with OR because either side's local state can lag the
// other's transiently.
package classify

import "chat-client/internal/models"

// Classification is the derived DM/group verdict for a room.
type Classification struct {
	IsDirect      bool
	CounterpartID string
}

// IsGroup is the complement of IsDirect.
func (c Classification) IsGroup() bool { return !c.IsDirect }

// IsDirectRoom reports whether the direct index records the room under
// any counterpart.
func IsDirectRoom(roomID string, index models.DirectIndex) bool {
	return index.ContainsRoom(roomID)
}

// IsDMByProvenance reports whether the local member's own membership
// record carries a direct-invite marker.
func IsDMByProvenance(room *models.Room, me string) bool {
	member := room.Member(me)
	return member != nil && member.DMInviter != ""
}

// Classify combines both DM signals. A room with more than two active
// members is always a group; stale markers are ignored. The counterpart
// is only known for direct rooms with exactly two active members.
func Classify(room *models.Room, me string, index models.DirectIndex) Classification {
	active := room.ActiveMembers()
	if len(active) > 2 {
		return Classification{}
	}

	direct := IsDirectRoom(room.ID, index) || IsDMByProvenance(room, me)
	if !direct {
		return Classification{}
	}

	c := Classification{IsDirect: true}
	if len(active) == 2 {
		for _, m := range active {
			if m.UserID != me {
				c.CounterpartID = m.UserID
				break
			}
		}
	}
	return c
}

// IsOrphanedDM reports whether a direct room's sole counterpart has left,
// meaning the DM was declined or abandoned before it ever went live.
func IsOrphanedDM(room *models.Room, me string, index models.DirectIndex) bool {
	direct := IsDirectRoom(room.ID, index) || IsDMByProvenance(room, me)
	if !direct {
		return false
	}

	var others []models.Member
	for _, m := range room.Members {
		if m.UserID != me {
			others = append(others, m)
		}
	}
	return len(others) == 1 && others[0].Membership == models.MembershipLeave
}

// DisplayName resolves what to show for a room: its name, the DM
// counterpart's name, or the raw room id as a last resort.
func DisplayName(room *models.Room, me string, index models.DirectIndex) string {
	if room.Name != "" {
		return room.Name
	}
	c := Classify(room, me, index)
	if c.IsDirect && c.CounterpartID != "" {
		if member := room.Member(c.CounterpartID); member != nil {
			return member.Name()
		}
		return c.CounterpartID
	}
	return room.ID
}
