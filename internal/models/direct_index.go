package models

// DirectIndexKey is the account-data key the direct-message index is stored
// under.
const DirectIndexKey = "direct_rooms"

// DirectIndex maps a counterpart user id to the room ids of direct-message
// rooms with that user. It is persisted as account-level metadata; the
// reconciler keeps at most one live room per counterpart.
type DirectIndex map[string][]string

// ContainsRoom reports whether the room appears under any counterpart.
func (d DirectIndex) ContainsRoom(roomID string) bool {
	for _, roomIDs := range d {
		for _, id := range roomIDs {
			if id == roomID {
				return true
			}
		}
	}
	return false
}

// RoomsWith returns the candidate room ids recorded for a counterpart.
func (d DirectIndex) RoomsWith(userID string) []string {
	return d[userID]
}

// Add records a room under a counterpart, ignoring duplicates.
func (d DirectIndex) Add(userID, roomID string) bool {
	for _, id := range d[userID] {
		if id == roomID {
			return false
		}
	}
	d[userID] = append(d[userID], roomID)
	return true
}

// RemoveRoom deletes a room from every counterpart entry, dropping entries
// that become empty. It reports whether anything changed.
func (d DirectIndex) RemoveRoom(roomID string) bool {
	changed := false
	for userID, roomIDs := range d {
		kept := roomIDs[:0]
		for _, id := range roomIDs {
			if id == roomID {
				changed = true
				continue
			}
			kept = append(kept, id)
		}
		if len(kept) == 0 {
			delete(d, userID)
		} else {
			d[userID] = kept
		}
	}
	return changed
}
