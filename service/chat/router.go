package chat

import (
	"context"

	"SProject/logger"
	"SProject/tools/decode"
)

// Router owns event resolution: which live connections receive which
// outbound event. It reads the conversation store, the session registry and
// the typing throttle; it performs no delivery itself.
//
// Malformed payloads and unknown conversations resolve to nothing — the
// event is dropped without an error, so a buggy or hostile client cannot
// take the shared process down. Only collaborator failures surface as
// errors, and the caller logs and skips those.
type Router struct {
	reg      *Registry
	conv     ConversationStore
	throttle *TypingThrottle
}

func NewRouter(reg *Registry, conv ConversationStore, throttle *TypingThrottle) *Router {
	return &Router{reg: reg, conv: conv, throttle: throttle}
}

// Resolvers returns one resolver per inbound event kind, for registration
// with a Dispatcher.
func (r *Router) Resolvers() []Resolver {
	return []Resolver{
		messageSendResolver{r},
		messageSeenResolver{r},
		typingStartResolver{r},
		typingStopResolver{r},
	}
}

// recipients expands a conversation into the live clients of every
// participant except the acting user. Offline participants are skipped —
// no queuing, no retry. (nil, nil) means the conversation is unknown and
// the event must be dropped.
func (r *Router) recipients(ctx context.Context, conversationID, exclude string) ([]*Client, error) {
	conv, err := r.conv.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		logger.Debugf("[router] unknown conversation id=%s", conversationID)
		return nil, nil
	}

	var out []*Client
	for _, pid := range conv.ParticipantIDs {
		if pid == exclude {
			continue
		}
		out = append(out, r.reg.SessionsFor(pid)...)
	}
	return out, nil
}

// ---- message:send -> message:new ----

type messageSendResolver struct{ r *Router }

func (x messageSendResolver) Type() EventType { return EvMessageSend }

func (x messageSendResolver) Resolve(ctx context.Context, from *Client, evt *Event) ([]*Client, *Event, error) {
	p, err := decode.DecodeMap[MessagePayload](evt.Data)
	if err != nil || p.ConversationID == "" || p.SenderID == "" {
		logger.Debugf("[router] drop message:send, bad payload: %v", err)
		return nil, nil, nil
	}
	targets, err := x.r.recipients(ctx, p.ConversationID, p.SenderID)
	if err != nil {
		return nil, nil, err
	}
	// Content and any extra fields pass through verbatim.
	return targets, &Event{Type: EvMessageNew, Data: evt.Data}, nil
}

// ---- message:seen ----

type messageSeenResolver struct{ r *Router }

func (x messageSeenResolver) Type() EventType { return EvMessageSeen }

func (x messageSeenResolver) Resolve(ctx context.Context, from *Client, evt *Event) ([]*Client, *Event, error) {
	p, err := decode.DecodeMap[SeenPayload](evt.Data)
	if err != nil || p.ConversationID == "" || p.UserID == "" {
		logger.Debugf("[router] drop message:seen, bad payload: %v", err)
		return nil, nil, nil
	}
	targets, err := x.r.recipients(ctx, p.ConversationID, p.UserID)
	if err != nil {
		return nil, nil, err
	}
	out := &Event{Type: EvMessageSeen, Data: map[string]any{
		"conversationId": p.ConversationID,
		"userId":         p.UserID,
	}}
	return targets, out, nil
}

// ---- typing:start (throttled) ----

type typingStartResolver struct{ r *Router }

func (x typingStartResolver) Type() EventType { return EvTypingStart }

func (x typingStartResolver) Resolve(ctx context.Context, from *Client, evt *Event) ([]*Client, *Event, error) {
	p, err := decode.DecodeMap[TypingPayload](evt.Data)
	if err != nil || p.ConversationID == "" || p.UserID == "" {
		logger.Debugf("[router] drop typing:start, bad payload: %v", err)
		return nil, nil, nil
	}
	targets, err := x.r.recipients(ctx, p.ConversationID, p.UserID)
	if err != nil {
		return nil, nil, err
	}
	if len(targets) == 0 {
		return nil, nil, nil
	}
	if !x.r.throttle.ShouldEmit(p.UserID, p.ConversationID) {
		return nil, nil, nil
	}
	out := &Event{Type: EvTypingStart, Data: map[string]any{
		"conversationId": p.ConversationID,
		"userId":         p.UserID,
	}}
	return targets, out, nil
}

// ---- typing:stop (never throttled) ----

type typingStopResolver struct{ r *Router }

func (x typingStopResolver) Type() EventType { return EvTypingStop }

func (x typingStopResolver) Resolve(ctx context.Context, from *Client, evt *Event) ([]*Client, *Event, error) {
	p, err := decode.DecodeMap[TypingPayload](evt.Data)
	if err != nil || p.ConversationID == "" || p.UserID == "" {
		logger.Debugf("[router] drop typing:stop, bad payload: %v", err)
		return nil, nil, nil
	}
	// Always passes: a suppressed stop would leave remote UIs stuck on a
	// stale "is typing" indicator.
	targets, err := x.r.recipients(ctx, p.ConversationID, p.UserID)
	if err != nil {
		return nil, nil, err
	}
	out := &Event{Type: EvTypingStop, Data: map[string]any{
		"conversationId": p.ConversationID,
		"userId":         p.UserID,
	}}
	return targets, out, nil
}
