package repo

import (
	"context"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/vinom-structures/domain"
	"github.com/beka-birhanu/vinom-structures/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ i.LayoutRepo = &LayoutRepo{}

// LayoutRepo handles the persistence of layout batches.
type LayoutRepo struct {
	collection *mongo.Collection
	timeout    time.Duration
}

// NewLayoutRepo creates a new LayoutRepo with the given MongoDB client, database name, and collection name.
func NewLayoutRepo(client *mongo.Client, dbName, collectionName string) *LayoutRepo {
	collection := client.Database(dbName).Collection(collectionName)
	return &LayoutRepo{
		collection: collection,
		timeout:    2 * time.Second,
	}
}

// Save inserts a batch or replaces the stored batch with the same ID.
func (r *LayoutRepo) Save(batch *dmn.Batch) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	filter := bson.M{"_id": batch.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, filter, batch, opts); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}

	return nil
}

// ByID retrieves a batch by its ID.
// Returns ErrBatchNotFound if there is none.
func (r *LayoutRepo) ByID(id uuid.UUID) (*dmn.Batch, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	filter := bson.M{"_id": id}
	var batch dmn.Batch
	if err := r.collection.FindOne(ctx, filter).Decode(&batch); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dmn.ErrBatchNotFound
		}
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return &batch, nil
}

// Recent returns the most recently created batches, newest first.
func (r *LayoutRepo) Recent(limit int64) ([]*dmn.Batch, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, recentOptions(limit))
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	defer cursor.Close(ctx)

	var batches []*dmn.Batch
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return batches, nil
}

// recentOptions sorts newest first and caps the result at limit.
func recentOptions(limit int64) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
}
