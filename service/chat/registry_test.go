package chat

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(connID, userID string) *Client {
	return NewClient(connID, userID, nil, 8)
}

func TestRegistryMultiDeviceCounts(t *testing.T) {
	reg := NewRegistry()

	require.Equal(t, 1, reg.Register(newTestClient("c1", "alice")))
	require.Equal(t, 2, reg.Register(newTestClient("c2", "alice")))
	require.Equal(t, 1, reg.Register(newTestClient("c3", "bob")))

	assert.Equal(t, 2, reg.SessionCount("alice"))
	assert.Equal(t, 1, reg.SessionCount("bob"))
	assert.Equal(t, 3, reg.ConnCount())
	assert.Equal(t, 2, reg.UserCount())
}

func TestRegistryRegisterIdempotentPerConnID(t *testing.T) {
	reg := NewRegistry()
	c := newTestClient("c1", "alice")

	require.Equal(t, 1, reg.Register(c))
	require.Equal(t, 1, reg.Register(c))

	assert.Equal(t, 1, reg.SessionCount("alice"))
	assert.Len(t, reg.SessionsFor("alice"), 1)
}

func TestRegistryUnregisterRemovesEmptyEntry(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newTestClient("c1", "alice"))
	reg.Register(newTestClient("c2", "alice"))

	user, remaining, ok := reg.Unregister("c1")
	require.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, 1, remaining)

	user, remaining, ok = reg.Unregister("c2")
	require.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, 0, remaining)

	// entry is gone, not an empty set
	assert.Equal(t, 0, reg.SessionCount("alice"))
	assert.Equal(t, 0, reg.UserCount())
}

func TestRegistrySessionsForUnknownUser(t *testing.T) {
	reg := NewRegistry()
	got := reg.SessionsFor("nobody")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRegistryUnregisterUnknownConn(t *testing.T) {
	reg := NewRegistry()
	_, _, ok := reg.Unregister("missing")
	assert.False(t, ok)
}

func TestRegistryReset(t *testing.T) {
	reg := NewRegistry()
	reg.Register(newTestClient("c1", "alice"))
	reg.Reset()
	assert.Equal(t, 0, reg.ConnCount())
	assert.Equal(t, 0, reg.SessionCount("alice"))
}

func TestRegistryConcurrentLifecycles(t *testing.T) {
	reg := NewRegistry()

	const users = 8
	const connsPerUser = 16

	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		for i := 0; i < connsPerUser; i++ {
			wg.Add(1)
			go func(u, i int) {
				defer wg.Done()
				id := fmt.Sprintf("u%d-c%d", u, i)
				reg.Register(newTestClient(id, fmt.Sprintf("user%d", u)))
			}(u, i)
		}
	}
	wg.Wait()

	for u := 0; u < users; u++ {
		require.Equal(t, connsPerUser, reg.SessionCount(fmt.Sprintf("user%d", u)))
	}

	for u := 0; u < users; u++ {
		for i := 0; i < connsPerUser; i++ {
			wg.Add(1)
			go func(u, i int) {
				defer wg.Done()
				reg.Unregister(fmt.Sprintf("u%d-c%d", u, i))
			}(u, i)
		}
	}
	wg.Wait()

	assert.Equal(t, 0, reg.ConnCount())
	assert.Equal(t, 0, reg.UserCount())
}
