package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"SProject/tools/errs"
)

type EventType string

// Inbound event kinds.
const (
	EvMessageSend EventType = "message:send"
	EvMessageSeen EventType = "message:seen"
	EvTypingStart EventType = "typing:start"
	EvTypingStop  EventType = "typing:stop"
)

// Outbound-only event kinds.
const (
	EvMessageNew   EventType = "message:new"
	EvConnected    EventType = "connected"
	EvConnectError EventType = "connect_error"
)

// Event is the wire envelope, both directions: {"type": ..., "data": {...}}.
// Data stays a raw map so that pass-through payloads keep their extra fields.
type Event struct {
	Type EventType      `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

func ParseEventJSON(raw []byte) (*Event, error) {
	evt := &Event{}
	if err := json.Unmarshal(raw, evt); err != nil {
		return nil, fmt.Errorf("unmarshal event failed: %w", err)
	}
	if evt.Type == "" {
		return nil, fmt.Errorf("event has no type")
	}
	return evt, nil
}

func MarshalEvent(evt *Event) ([]byte, error) {
	return json.Marshal(evt)
}

// ---- typed payloads (decoded from Event.Data) ----

type MessagePayload struct {
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
}

type SeenPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

type TypingPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

// ---- server-built envelopes ----

func BuildConnectedAck(connID, userID string) *Event {
	return &Event{
		Type: EvConnected,
		Data: map[string]any{
			"connId": connID,
			"userId": userID,
			"ts":     time.Now().UnixMilli(),
		},
	}
}

func BuildConnectError(cerr *errs.CodeError) *Event {
	return &Event{
		Type: EvConnectError,
		Data: map[string]any{
			"code":    cerr.Code,
			"message": cerr.Msg,
		},
	}
}
