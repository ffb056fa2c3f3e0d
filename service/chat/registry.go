package chat

import (
	"sync"
)

// Registry is the session registry: user -> conn_id -> client plus a
// conn_id index. It owns session lifecycles; everything else reads it.
// All operations are single critical sections, safe for concurrent use.
//
// Invariant: a user key exists in byUser iff it has at least one live
// connection. The entry is deleted, never left as an empty map, when the
// last session for that user ends.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]map[string]*Client // user -> conn_id -> client
	byConn map[string]*Client            // conn_id -> client
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]map[string]*Client),
		byConn: make(map[string]*Client),
	}
}

// Register adds a session and returns the user's session count after the
// add. Registering the same conn_id twice is a no-op for the count: the
// existing entry is kept, never duplicated.
func (r *Registry) Register(c *Client) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byConn[c.ConnID]; !exists {
		m := r.byUser[c.UserID]
		if m == nil {
			m = make(map[string]*Client)
			r.byUser[c.UserID] = m
		}
		m[c.ConnID] = c
		r.byConn[c.ConnID] = c
	}
	return len(r.byUser[c.UserID])
}

// Unregister removes exactly the given conn_id and returns its owner plus
// the owner's remaining session count. ok is false for unknown conn_ids.
func (r *Registry) Unregister(connID string) (userID string, remaining int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.byConn[connID]
	if !exists {
		return "", 0, false
	}
	delete(r.byConn, connID)

	if m := r.byUser[c.UserID]; m != nil {
		delete(m, connID)
		remaining = len(m)
		if remaining == 0 {
			delete(r.byUser, c.UserID)
		}
	}
	return c.UserID, remaining, true
}

// SessionsFor lists a user's live clients. Empty slice, never nil, for
// unknown users.
func (r *Registry) SessionsFor(userID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.byUser[userID]
	out := make([]*Client, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	return out
}

func (r *Registry) SessionCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID])
}

func (r *Registry) Get(connID string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byConn[connID]
	return c, ok
}

// ConnCount returns the total number of live connections (health endpoint).
func (r *Registry) ConnCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}

// UserCount returns the number of distinct online users.
func (r *Registry) UserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}

// Reset clears all sessions. Server shutdown and test teardown.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byUser = make(map[string]map[string]*Client)
	r.byConn = make(map[string]*Client)
}
