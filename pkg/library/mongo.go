package library

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/labelpress/labelpress/pkg/errors"
)

const (
	mongoDatabase   = "labelpress"
	mongoCollection = "library"
)

// symbolDoc is one library entry. Ordering is kept explicit through the
// position field rather than relying on insertion order.
type symbolDoc struct {
	Item string `bson:"_id"`
	Pos  int    `bson:"pos"`
}

// MongoStore keeps one document per symbol, ordered by a position field.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to the MongoDB deployment named by uri and pings
// it before returning.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"mongo library store needs %s", EnvMongoURI)
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connecting to mongo")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "pos", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing library")
	}
	var docs []symbolDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "listing library")
	}
	items := make([]string, len(docs))
	for i, d := range docs {
		items[i] = d.Item
	}
	return items, nil
}

func (s *MongoStore) Add(ctx context.Context, items ...string) error {
	current, err := s.List(ctx)
	if err != nil {
		return err
	}
	next := merge(current, items)
	if len(next) == len(current) {
		return nil
	}
	return s.store(ctx, next)
}

func (s *MongoStore) Remove(ctx context.Context, item string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: item}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "removing %q", item)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Replace(ctx context.Context, items []string) error {
	return s.store(ctx, normalize(items))
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// store rewrites the collection to exactly the given ordered items.
func (s *MongoStore) store(ctx context.Context, items []string) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "rewriting library")
	}
	if len(items) == 0 {
		return nil
	}
	docs := make([]any, len(items))
	for i, it := range items {
		docs[i] = symbolDoc{Item: it, Pos: i}
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "rewriting library")
	}
	return nil
}

var _ Store = (*MongoStore)(nil)
