package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Mongo is a Collection backed by a MongoDB collection. Document ids are
// stored as 24-hex strings.
type Mongo[T any] struct {
	coll   *mongo.Collection
	unique [][]string
	now    func() time.Time
}

// MongoOption configures a Mongo collection.
type MongoOption func(*mongoConfig)

type mongoConfig struct {
	unique [][]string
}

// WithUniqueIndex declares a unique compound index over fields. Indexes are
// created by EnsureIndexes.
func WithUniqueIndex(fields ...string) MongoOption {
	return func(c *mongoConfig) {
		if len(fields) > 0 {
			c.unique = append(c.unique, fields)
		}
	}
}

// NewMongo wraps coll.
func NewMongo[T any](coll *mongo.Collection, opts ...MongoOption) *Mongo[T] {
	cfg := &mongoConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Mongo[T]{coll: coll, unique: cfg.unique, now: time.Now}
}

// EnsureIndexes creates the declared unique indexes.
func (m *Mongo[T]) EnsureIndexes(ctx context.Context) error {
	if len(m.unique) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(m.unique))
	for _, fields := range m.unique {
		keys := bson.D{}
		for _, f := range fields {
			keys = append(keys, bson.E{Key: f, Value: 1})
		}
		models = append(models, mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)})
	}
	if _, err := m.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("store: create indexes on %s: %w", m.coll.Name(), err)
	}
	return nil
}

func (m *Mongo[T]) Insert(ctx context.Context, doc T) (T, error) {
	var zero T

	obj, err := toBSON(doc)
	if err != nil {
		return zero, err
	}
	if id, _ := obj[KeyID].(string); id == "" {
		obj[KeyID] = NewID()
	}
	now := m.now().UTC()
	obj[KeyCreatedAt] = now
	obj[KeyUpdatedAt] = now

	if _, err := m.coll.InsertOne(ctx, obj); err != nil {
		return zero, mapError(err)
	}
	return fromBSON[T](obj)
}

func (m *Mongo[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if !ValidID(id) {
		return zero, ErrInvalidID
	}
	return m.FindOne(ctx, Filter{KeyID: id})
}

func (m *Mongo[T]) FindOne(ctx context.Context, filter Filter) (T, error) {
	var out T
	if err := m.coll.FindOne(ctx, toQuery(filter)).Decode(&out); err != nil {
		return out, mapError(err)
	}
	return out, nil
}

func (m *Mongo[T]) Find(ctx context.Context, filter Filter, page Page) (Result[T], error) {
	page = page.Normalize()
	res := Result[T]{Items: []T{}, Page: page}

	query := toQuery(filter)

	total, err := m.coll.CountDocuments(ctx, query)
	if err != nil {
		return res, mapError(err)
	}
	res.Total = total

	field, dir := page.sortKey()
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: KeyID, Value: dir}}).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit))

	cursor, err := m.coll.Find(ctx, query, opts)
	if err != nil {
		return res, mapError(err)
	}
	if err := cursor.All(ctx, &res.Items); err != nil {
		return res, mapError(err)
	}
	return res, nil
}

func (m *Mongo[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var out T
	if !ValidID(id) {
		return out, ErrInvalidID
	}

	set := bson.M(cleanPatch(patch))
	set[KeyUpdatedAt] = m.now().UTC()

	err := m.coll.FindOneAndUpdate(ctx,
		bson.M{KeyID: id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	if err != nil {
		return out, mapError(err)
	}
	return out, nil
}

func (m *Mongo[T]) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	res, err := m.coll.DeleteOne(ctx, bson.M{KeyID: id})
	if err != nil {
		return mapError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func toQuery(filter Filter) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return bson.M(filter)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return fmt.Errorf("store: %w", err)
	}
}

func toBSON(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("store: encode document: %w", err)
	}
	var obj bson.M
	if err := bson.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("store: decode document: %w", err)
	}
	return obj, nil
}

func fromBSON[T any](obj bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(obj)
	if err != nil {
		return out, fmt.Errorf("store: encode document: %w", err)
	}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("store: decode document: %w", err)
	}
	return out, nil
}
