package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestThrottleSuppressesWithinWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	th := NewTypingThrottle()
	th.clock = func() time.Time { return now }

	// 5 attempts within 500ms: only the first passes
	passed := 0
	for i := 0; i < 5; i++ {
		if th.ShouldEmit("alice", "conv1") {
			passed++
		}
		now = now.Add(100 * time.Millisecond)
	}
	assert.Equal(t, 1, passed)
}

func TestThrottleAllowsAfterWindow(t *testing.T) {
	now := time.Unix(1000, 0)
	th := NewTypingThrottle()
	th.clock = func() time.Time { return now }

	assert.True(t, th.ShouldEmit("alice", "conv1"))
	now = now.Add(typingWindow)
	assert.True(t, th.ShouldEmit("alice", "conv1"))
}

func TestThrottleIsPerPair(t *testing.T) {
	now := time.Unix(1000, 0)
	th := NewTypingThrottle()
	th.clock = func() time.Time { return now }

	assert.True(t, th.ShouldEmit("alice", "conv1"))
	// different conversation and different user are independent pairs
	assert.True(t, th.ShouldEmit("alice", "conv2"))
	assert.True(t, th.ShouldEmit("bob", "conv1"))
	assert.False(t, th.ShouldEmit("alice", "conv1"))
}

func TestThrottleSuppressedEventDoesNotResetTimer(t *testing.T) {
	now := time.Unix(1000, 0)
	th := NewTypingThrottle()
	th.clock = func() time.Time { return now }

	assert.True(t, th.ShouldEmit("alice", "conv1"))
	now = now.Add(900 * time.Millisecond)
	assert.False(t, th.ShouldEmit("alice", "conv1"))
	// 1s after the *emitted* event the gate opens again; the suppressed
	// attempt at 900ms must not have pushed it out
	now = now.Add(100 * time.Millisecond)
	assert.True(t, th.ShouldEmit("alice", "conv1"))
}

func TestThrottleReset(t *testing.T) {
	now := time.Unix(1000, 0)
	th := NewTypingThrottle()
	th.clock = func() time.Time { return now }

	assert.True(t, th.ShouldEmit("alice", "conv1"))
	th.Reset()
	assert.True(t, th.ShouldEmit("alice", "conv1"))
}
