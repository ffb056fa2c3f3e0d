package chat

import (
	"sync"
	"time"
)

// typingWindow is the minimum interval between typing:start emissions for
// one (user, conversation) pair. Fixed, not configurable per call.
const typingWindow = time.Second

type throttleKey struct {
	userID         string
	conversationID string
}

// TypingThrottle rate-limits typing:start per (user, conversation) pair.
// A suppressed event is dropped, not queued or delayed. typing:stop never
// goes through this gate.
type TypingThrottle struct {
	mu   sync.Mutex
	last map[throttleKey]time.Time

	clock func() time.Time // injectable for tests; nil => time.Now
}

func NewTypingThrottle() *TypingThrottle {
	return &TypingThrottle{
		last:  make(map[throttleKey]time.Time),
		clock: time.Now,
	}
}

// ShouldEmit reports whether a typing:start for the pair may be emitted now,
// and if so resets the pair's timer. Entries are created lazily and evicted
// implicitly by being overwritten.
func (t *TypingThrottle) ShouldEmit(userID, conversationID string) bool {
	key := throttleKey{userID: userID, conversationID: conversationID}
	now := t.clock()

	t.mu.Lock()
	defer t.mu.Unlock()

	if lastAt, ok := t.last[key]; ok && now.Sub(lastAt) < typingWindow {
		return false
	}
	t.last[key] = now
	return true
}

// Reset clears all throttle state. Server shutdown and test teardown.
func (t *TypingThrottle) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = make(map[throttleKey]time.Time)
}
