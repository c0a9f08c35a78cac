package repository

import (
	"bemestar/internal/model"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogRepo handles MongoDB operations for questionnaire documents.
type CatalogRepo interface {
	Create(ctx context.Context, doc *model.Questionnaire) (string, error)
	GetByID(ctx context.Context, id string) (*model.Questionnaire, error)
	List(ctx context.Context) ([]*model.Questionnaire, error)
	Update(ctx context.Context, doc *model.Questionnaire) error
	Delete(ctx context.Context, id string) (bool, error)
}

type catalogRepo struct {
	collection *mongo.Collection
}

func NewCatalogRepo(db *mongo.Database) CatalogRepo {
	return &catalogRepo{
		collection: db.Collection("questionnaires"),
	}
}

// Create stores doc. An empty id is replaced by a new ObjectID hex string.
func (r *catalogRepo) Create(ctx context.Context, doc *model.Questionnaire) (string, error) {
	if doc.ID == "" {
		doc.ID = primitive.NewObjectID().Hex()
	}
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// GetByID returns nil, nil when no document matches.
func (r *catalogRepo) GetByID(ctx context.Context, id string) (*model.Questionnaire, error) {
	var doc model.Questionnaire
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// List returns every stored questionnaire, newest first.
func (r *catalogRepo) List(ctx context.Context) ([]*model.Questionnaire, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*model.Questionnaire
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Update replaces the document with doc.ID.
func (r *catalogRepo) Update(ctx context.Context, doc *model.Questionnaire) error {
	doc.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	return err
}

// Delete reports whether a document was removed.
func (r *catalogRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
