package chat

import (
	"context"
	"errors"
	"fmt"
)

// errNoResolver marks an inbound event kind nothing handles. Callers drop
// those quietly instead of treating them as a collaborator failure.
var errNoResolver = errors.New("no resolver registered")

// Dispatcher routes inbound events to their resolver by event kind.
type Dispatcher struct {
	resolvers map[EventType]Resolver
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{resolvers: make(map[EventType]Resolver)}
}

func (d *Dispatcher) Register(r Resolver) { d.resolvers[r.Type()] = r }

func (d *Dispatcher) Resolve(ctx context.Context, from *Client, evt *Event) ([]*Client, *Event, error) {
	r, ok := d.resolvers[evt.Type]
	if !ok {
		return nil, nil, fmt.Errorf("%w for type=%s", errNoResolver, evt.Type)
	}
	return r.Resolve(ctx, from, evt)
}

func (d *Dispatcher) GetResolver(t EventType) Resolver {
	return d.resolvers[t]
}
