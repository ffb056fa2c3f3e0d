package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherUnknownTypeIsResolverMiss(t *testing.T) {
	d := NewDispatcher()

	targets, out, err := d.Resolve(context.Background(), newTestClient("c1", "alice"), &Event{Type: "presence:wave"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errNoResolver)
	assert.Nil(t, targets)
	assert.Nil(t, out)
}

func TestDispatchEventDropsUnhandledTypeQuietly(t *testing.T) {
	srv := NewServer("gw-test", ServerConf{FanoutWorkers: 1}, nil, &fakeConvStore{}, &fakePresenceStore{}, nil)
	defer srv.Close()

	from := newTestClient("c1", "alice")
	srv.Registry().Register(from)

	assert.NotPanics(t, func() {
		srv.DispatchEvent(context.Background(), from, &Event{Type: "presence:wave", Data: map[string]any{}})
	})
	assert.Empty(t, from.Send)
}
