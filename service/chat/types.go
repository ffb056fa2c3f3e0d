package chat

import (
	"context"
	"time"
)

// Conversation kinds.
const (
	ConversationIndividual = "individual"
	ConversationGroup      = "group"
)

// Conversation is the slice of the external conversation store this layer
// reads: enough to resolve fan-out targets. Never mutated here.
type Conversation struct {
	ID             string
	Kind           string
	ParticipantIDs []string
}

// ConversationStore resolves a conversation by id. A missing conversation is
// (nil, nil), not an error; errors mean the collaborator itself failed.
type ConversationStore interface {
	GetConversation(ctx context.Context, id string) (*Conversation, error)
}

// PresenceStore persists online/last-seen transitions to the user store.
type PresenceStore interface {
	SetPresence(ctx context.Context, userID string, online bool, lastSeen time.Time) error
}

// PresenceMirror is a best-effort fast-lookup mirror (redis). Optional.
type PresenceMirror interface {
	Online(ctx context.Context, userID string) error
	Offline(ctx context.Context, userID string) error
}

// UserStore answers whether a token subject still exists.
type UserStore interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// Resolver turns one inbound event into the set of clients that should
// receive an outbound event. Resolution is pure with respect to delivery:
// it decides who gets what, the fanout pool does the writing.
type Resolver interface {
	Type() EventType
	Resolve(ctx context.Context, from *Client, evt *Event) ([]*Client, *Event, error)
}
