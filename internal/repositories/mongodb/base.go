package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketly/internal/models"
	"marketly/internal/repositories/interfaces"
	"marketly/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// store holds the collection plumbing shared by every repository. All reads except the
// FindAny* lookups go through active(), so retired documents never surface.
type store[T any] struct {
	collection   *mongo.Collection
	resource     string
	searchFields []string
}

func newStore[T any](db *mongo.Database, collection, resource string, searchFields ...string) store[T] {
	return store[T]{
		collection:   db.Collection(collection),
		resource:     resource,
		searchFields: searchFields,
	}
}

func active(filter bson.M) bson.M {
	out := bson.M{"state": models.StateActive}
	for k, v := range filter {
		out[k] = v
	}
	return out
}

// anyStateSort puts an active match first, then the most recently touched retired one.
var anyStateSort = bson.D{{Key: "state", Value: 1}, {Key: "updated_at", Value: -1}}

func (s *store[T]) insert(ctx context.Context, doc interface{}) error {
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to create %s: %w", s.resource, interfaces.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create %s: %w", s.resource, err)
	}
	return nil
}

func (s *store[T]) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*T, error) {
	var doc T
	if err := s.collection.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", s.resource, err)
	}
	return &doc, nil
}

func (s *store[T]) getByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return s.findOne(ctx, active(bson.M{"_id": id}))
}

func (s *store[T]) findAny(ctx context.Context, filter bson.M) (*T, error) {
	return s.findOne(ctx, filter, options.FindOne().SetSort(anyStateSort))
}

func (s *store[T]) findAll(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*T, error) {
	cursor, err := s.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", s.resource, err)
	}
	defer cursor.Close(ctx)

	docs := make([]*T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", s.resource, err)
		}
		docs = append(docs, &doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", s.resource, err)
	}

	return docs, nil
}

func (s *store[T]) paginate(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*T, int64, error) {
	if params == nil {
		params = utils.DefaultPagination()
	}

	filter = active(filter)
	if searchFilter := params.GetSearchFilter(s.searchFields); len(searchFilter) > 0 {
		filter = bson.M{"$and": []bson.M{filter, searchFilter}}
	}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", s.resource, err)
	}

	docs, err := s.findAll(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// update applies $set to an active document and returns the updated version.
func (s *store[T]) update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*T, error) {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}

	return s.findOneAndUpdate(ctx, active(bson.M{"_id": id}), bson.M{"$set": set})
}

// restore reactivates a document in any state and applies updates on top.
func (s *store[T]) restore(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*T, error) {
	set := bson.M{"state": models.StateActive, "updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}

	return s.findOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$set":   set,
		"$unset": bson.M{"retired_at": ""},
	})
}

func (s *store[T]) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*T, error) {
	var doc T
	err := s.collection.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, interfaces.ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to update %s: %w", s.resource, interfaces.ErrDuplicateKey)
		}
		return nil, fmt.Errorf("failed to update %s: %w", s.resource, err)
	}
	return &doc, nil
}

func (s *store[T]) retire(ctx context.Context, id primitive.ObjectID) error {
	count, err := s.retireWhere(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if count == 0 {
		return interfaces.ErrNotFound
	}
	return nil
}

func (s *store[T]) retireWhere(ctx context.Context, filter bson.M) (int64, error) {
	now := time.Now()
	result, err := s.collection.UpdateMany(ctx, active(filter), bson.M{
		"$set": bson.M{
			"state":      models.StateRetired,
			"retired_at": now,
			"updated_at": now,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to retire %s: %w", s.resource, err)
	}
	return result.ModifiedCount, nil
}

// activeIDs returns the ids of active documents matching filter.
func (s *store[T]) activeIDs(ctx context.Context, filter bson.M) ([]primitive.ObjectID, error) {
	cursor, err := s.collection.Find(ctx, active(filter), options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to find %s ids: %w", s.resource, err)
	}
	defer cursor.Close(ctx)

	ids := make([]primitive.ObjectID, 0)
	for cursor.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode %s id: %w", s.resource, err)
		}
		ids = append(ids, row.ID)
	}
	return ids, cursor.Err()
}

// retireChildren retires active documents whose field points at one of parentIDs and returns their ids.
func (s *store[T]) retireChildren(ctx context.Context, field string, parentIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	ids, err := s.activeIDs(ctx, bson.M{field: bson.M{"$in": parentIDs}})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return ids, nil
	}

	if _, err := s.retireWhere(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return nil, err
	}
	return ids, nil
}

func statusFilter(filter bson.M, status models.Status) bson.M {
	if status != "" {
		filter["status"] = status
	}
	return filter
}
