package storage

import (
	"context"

	"SProject/service/chat"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// conversationDoc mirrors the conversation documents owned by the
// conversation subsystem; this layer reads them, never writes.
type conversationDoc struct {
	ConversationID string   `bson:"conversation_id"`
	Kind           string   `bson:"kind"` // individual | group
	ParticipantIDs []string `bson:"participant_ids"`
}

type ConversationStore struct {
	coll *mongo.Collection
}

func NewConversationStore(db *mongo.Database) *ConversationStore {
	return &ConversationStore{coll: db.Collection("conversations")}
}

// GetConversation returns (nil, nil) for an unknown id: the router drops
// such events silently instead of treating them as failures.
func (s *ConversationStore) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	var doc conversationDoc
	err := s.coll.FindOne(ctx, bson.M{"conversation_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find conversation")
	}
	return &chat.Conversation{
		ID:             doc.ConversationID,
		Kind:           doc.Kind,
		ParticipantIDs: doc.ParticipantIDs,
	}, nil
}
