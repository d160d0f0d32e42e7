package websocket

import (
	"sort"
	"sync"
	"time"
)

// typingTTL caps how long a user counts as typing without a refresh. Clients
// that disappear mid-keystroke would otherwise stay in the set forever.
const typingTTL = 10 * time.Second

// TypingTracker keeps the per-room set of currently typing users. All state
// is process local and rebuilt from events; nothing is persisted.
type TypingTracker struct {
	mu    sync.Mutex
	rooms map[int64]map[int64]time.Time

	// injectable for tests
	now func() time.Time
}

// NewTypingTracker creates an empty tracker
func NewTypingTracker() *TypingTracker {
	return &TypingTracker{
		rooms: make(map[int64]map[int64]time.Time),
		now:   time.Now,
	}
}

// Start marks the user as typing in the room and returns the room's full
// typing set afterwards.
func (t *TypingTracker) Start(roomID, userID int64) []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	users, ok := t.rooms[roomID]
	if !ok {
		users = make(map[int64]time.Time)
		t.rooms[roomID] = users
	}
	users[userID] = t.now()

	return t.snapshotLocked(roomID)
}

// Stop removes the user from the room's typing set and returns the room's
// full typing set afterwards. Stopping a user who was never typing is a
// no-op apart from the snapshot.
func (t *TypingTracker) Stop(roomID, userID int64) []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if users, ok := t.rooms[roomID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(t.rooms, roomID)
		}
	}

	return t.snapshotLocked(roomID)
}

// Snapshot returns the room's current typing set
func (t *TypingTracker) Snapshot(roomID int64) []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snapshotLocked(roomID)
}

// RemoveUser drops the user from every room's typing set and returns the IDs
// of the rooms that changed. Used on disconnect.
func (t *TypingTracker) RemoveUser(userID int64) []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var changed []int64
	for roomID, users := range t.rooms {
		if _, ok := users[userID]; ok {
			delete(users, userID)
			if len(users) == 0 {
				delete(t.rooms, roomID)
			}
			changed = append(changed, roomID)
		}
	}

	return changed
}

// Sweep removes entries older than the typing TTL and returns the IDs of the
// rooms that changed.
func (t *TypingTracker) Sweep() []int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-typingTTL)
	var changed []int64
	for roomID, users := range t.rooms {
		dirty := false
		for userID, startedAt := range users {
			if startedAt.Before(cutoff) {
				delete(users, userID)
				dirty = true
			}
		}
		if len(users) == 0 {
			delete(t.rooms, roomID)
		}
		if dirty {
			changed = append(changed, roomID)
		}
	}

	return changed
}

func (t *TypingTracker) snapshotLocked(roomID int64) []int64 {
	users, ok := t.rooms[roomID]
	if !ok {
		return []int64{}
	}

	ids := make([]int64, 0, len(users))
	for userID := range users {
		ids = append(ids, userID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}
