package chat

import (
	"context"
	"time"

	"SProject/logger"
)

// PresenceTracker persists online/offline transitions to the user store and,
// best effort, to the redis mirror. It only writes on the edges: 0->1
// sessions (online) and 1->0 sessions (offline). Intermediate counts from
// extra devices never touch the store.
//
// Store failures are logged and swallowed: presence bookkeeping must never
// abort the socket's connect/disconnect lifecycle.
type PresenceTracker struct {
	store  PresenceStore
	mirror PresenceMirror // may be nil

	clock func() time.Time // injectable for tests; nil => time.Now
}

func NewPresenceTracker(store PresenceStore, mirror PresenceMirror) *PresenceTracker {
	return &PresenceTracker{store: store, mirror: mirror, clock: time.Now}
}

// OnConnect is called after registration with the user's session count
// including the new connection. The count comes out of the registry's
// critical section, so concurrent connects from two devices cannot both
// observe the 0->1 edge.
func (t *PresenceTracker) OnConnect(ctx context.Context, userID string, sessions int) {
	if sessions != 1 {
		return
	}
	now := t.clock()
	if err := t.store.SetPresence(ctx, userID, true, now); err != nil {
		logger.Warnf("[presence] online write failed user=%s: %v", userID, err)
	}
	if t.mirror != nil {
		if err := t.mirror.Online(ctx, userID); err != nil {
			logger.Warnf("[presence] mirror online failed user=%s: %v", userID, err)
		}
	}
}

// OnDisconnect is called after removal with the user's remaining session
// count. Only the last session going away marks the user offline.
func (t *PresenceTracker) OnDisconnect(ctx context.Context, userID string, remaining int) {
	if remaining != 0 {
		return
	}
	now := t.clock()
	if err := t.store.SetPresence(ctx, userID, false, now); err != nil {
		logger.Warnf("[presence] offline write failed user=%s: %v", userID, err)
	}
	if t.mirror != nil {
		if err := t.mirror.Offline(ctx, userID); err != nil {
			logger.Warnf("[presence] mirror offline failed user=%s: %v", userID, err)
		}
	}
}
