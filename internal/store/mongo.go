package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// How long to wait before reopening a broken change stream.
const reconnectDelay = 2 * time.Second

// MongoStore implements Store on top of a MongoDB database. Live
// subscriptions are backed by change streams; every change event triggers a
// full re-read of the filtered collection rather than incremental patching.
type MongoStore struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewMongoStore creates a store backed by the given database.
func NewMongoStore(db *mongo.Database, logger *zap.Logger) *MongoStore {
	return &MongoStore{db: db, logger: logger}
}

func (s *MongoStore) ReadOnce(ctx context.Context, collection string, filter bson.M) ([]bson.Raw, error) {
	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var docs []bson.Raw
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, filter bson.M) (int64, error) {
	return s.db.Collection(collection).CountDocuments(ctx, filter)
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc interface{}) (primitive.ObjectID, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, nil
	}
	return id, nil
}

func (s *MongoStore) Update(ctx context.Context, collection string, id primitive.ObjectID, fields bson.M) error {
	res, err := s.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// BatchUpdate runs every operation inside one transaction so no subscriber
// sees the batch half applied.
func (s *MongoStore) BatchUpdate(ctx context.Context, collection string, ops []UpdateOp) error {
	if len(ops) == 0 {
		return nil
	}
	sess, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	coll := s.db.Collection(collection)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range ops {
			if _, err := coll.UpdateByID(sc, op.ID, bson.M{"$set": op.Fields}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Subscribe opens a change stream on the collection and re-reads the filtered
// result set after every event. A broken stream is reported to the callback
// once and reopened here; callers never retry themselves.
func (s *MongoStore) Subscribe(collection string, filter bson.M, fn EventFunc) CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	coll := s.db.Collection(collection)

	deliver := func() {
		docs, err := s.ReadOnce(ctx, collection, filter)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Warn("live query read failed",
				zap.String("collection", collection), zap.Error(err))
			fn(nil, err)
			return
		}
		fn(docs, nil)
	}

	go func() {
		deliver()
		for ctx.Err() == nil {
			stream, err := coll.Watch(ctx, mongo.Pipeline{})
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("change stream open failed",
					zap.String("collection", collection), zap.Error(err))
				fn(nil, err)
				time.Sleep(reconnectDelay)
				continue
			}
			for stream.Next(ctx) {
				deliver()
			}
			streamErr := stream.Err()
			stream.Close(context.Background())
			if ctx.Err() != nil {
				return
			}
			if streamErr != nil {
				s.logger.Warn("change stream broken",
					zap.String("collection", collection), zap.Error(streamErr))
				fn(nil, streamErr)
			}
			time.Sleep(reconnectDelay)
		}
	}()
	return CancelFunc(cancel)
}
