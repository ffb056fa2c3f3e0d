package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserStore reads and updates the user master records owned by the CRUD
// side of the platform. This layer only touches the presence fields.
type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection("users")}
}

// Exists reports whether the user id still resolves to a live account.
func (s *UserStore) Exists(ctx context.Context, userID string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"user_id": userID, "is_deleted": bson.M{"$ne": true}})
	if err != nil {
		return false, errors.Wrap(err, "count user")
	}
	return n > 0, nil
}

// SetPresence writes the PresenceRecord fields on the user document. Called
// only on the 0->1 and 1->0 session edges.
func (s *UserStore) SetPresence(ctx context.Context, userID string, online bool, lastSeen time.Time) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"is_online": online, "last_seen": lastSeen}},
	)
	return errors.Wrap(err, "set presence")
}
