package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"bemestar/internal/model"
)

// ResponseRepo stores finished questionnaire payloads. It satisfies the
// wizard's Sink.
type ResponseRepo interface {
	Submit(ctx context.Context, payload *model.Payload) error
}

// responseDocument wraps the payload as { dados: payload }.
type responseDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Dados     *model.Payload     `bson:"dados"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type mongoResponseRepo struct {
	collection *mongo.Collection
}

// NewMongoResponseRepo writes payloads into the named collection.
func NewMongoResponseRepo(db *mongo.Database, collection string) ResponseRepo {
	return &mongoResponseRepo{
		collection: db.Collection(collection),
	}
}

func (r *mongoResponseRepo) Submit(ctx context.Context, payload *model.Payload) error {
	doc := responseDocument{
		Dados:     payload,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}
